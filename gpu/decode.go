package gpu

import "github.com/nburjui/orbitsim/bvh"

// decodeCandidates unpacks the candidate kernel's flat (a, b) int32 pair
// stream, dropping (0, 0) sentinels. A genuine candidate pair naming body 0
// twice cannot occur: the kernel never emits a self-pair, so every (0, 0) it
// produces is an unused output slot.
func decodeCandidates(raw []int32) []bvh.Pair {
	pairs := make([]bvh.Pair, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		a, b := int(raw[i]), int(raw[i+1])
		if a == 0 && b == 0 {
			continue
		}
		pairs = append(pairs, bvh.Pair{A: a, B: b})
	}
	return pairs
}
