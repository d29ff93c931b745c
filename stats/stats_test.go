package stats

import (
	"testing"
	"time"
)

func TestDurationStatTracksExtremes(t *testing.T) {
	d := NewDurationStat()
	d.Update(10 * time.Millisecond)
	d.Update(3 * time.Millisecond)
	d.Update(25 * time.Millisecond)

	if d.Current != 25*time.Millisecond {
		t.Fatalf("Current = %v", d.Current)
	}
	if d.Lowest != 3*time.Millisecond {
		t.Fatalf("Lowest = %v", d.Lowest)
	}
	if d.Highest != 25*time.Millisecond {
		t.Fatalf("Highest = %v", d.Highest)
	}
}

func TestDurationStatZeroValueUsable(t *testing.T) {
	var d DurationStat
	d.Update(5 * time.Millisecond)
	if d.Current != 5*time.Millisecond {
		t.Fatalf("Current = %v", d.Current)
	}
	if d.Average() != 5*time.Millisecond {
		t.Fatalf("Average = %v", d.Average())
	}
}

func TestNewStatsInitializesAllStages(t *testing.T) {
	s := NewStats()
	s.Integration.Update(time.Millisecond)
	s.BVH.Update(time.Millisecond)
	s.Collisions.Update(time.Millisecond)
	s.Constraints.Update(time.Millisecond)
	s.Total.Update(time.Millisecond)
	if s.Total.Current != time.Millisecond {
		t.Fatal("Total stage did not record update")
	}
}
