package stats

import "time"

// rollingWindow is the number of samples DurationStat averages over.
const rollingWindow = 32

// DurationStat tracks the current, lowest, and highest duration ever seen
// for a pipeline stage, plus a rolling average over the most recent samples.
type DurationStat struct {
	Current time.Duration
	Lowest  time.Duration
	Highest time.Duration
	average *RingBuffer
}

// NewDurationStat returns a DurationStat with Lowest initialized to the
// largest representable duration, so the first Update always lowers it.
func NewDurationStat() DurationStat {
	return DurationStat{Lowest: time.Duration(1<<63 - 1), average: NewRingBuffer(rollingWindow)}
}

// Update records a new sample.
func (d *DurationStat) Update(sample time.Duration) {
	if d.average == nil {
		d.average = NewRingBuffer(rollingWindow)
	}
	d.Current = sample
	if sample < d.Lowest {
		d.Lowest = sample
	}
	if sample > d.Highest {
		d.Highest = sample
	}
	d.average.Push(sample)
}

// Average returns the rolling mean of the most recent samples.
func (d *DurationStat) Average() time.Duration {
	if d.average == nil {
		return 0
	}
	return d.average.Average()
}

// Stats aggregates the per-tick timing and size metrics exposed to callers.
type Stats struct {
	SimTime     float64
	ObjectCount int

	Integration DurationStat
	BVH         DurationStat
	Collisions  DurationStat
	Constraints DurationStat
	Total       DurationStat
}

// NewStats returns a Stats with every DurationStat correctly initialized.
func NewStats() Stats {
	return Stats{
		Integration: NewDurationStat(),
		BVH:         NewDurationStat(),
		Collisions:  NewDurationStat(),
		Constraints: NewDurationStat(),
		Total:       NewDurationStat(),
	}
}
