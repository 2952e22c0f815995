package writer

import "math"

// allocate computes how many bytes each stream contributes to the next
// packet, given the bytes each stream has available and the packet's payload
// capacity.
//
// If everything fits, every stream is drained exactly. Otherwise each stream
// contributes a proportional share: floor(((capacity-1)/total) * available).
// The minus one leaves slack against floating point rounding, so the sum of
// the returned counts never exceeds the capacity; the few under-filled bytes
// simply carry to the next packet.
func allocate(avail []int, capacity int) []int {
	total := 0
	for _, a := range avail {
		total += a
	}

	counts := make([]int, len(avail))

	if total < capacity {
		// Everything fits in one packet, take it all.
		copy(counts, avail)
		return counts
	}

	fraction := float64(capacity-1) / float64(total)
	for i, a := range avail {
		// Round down here so the sum stays at or under capacity.
		counts[i] = int(math.Floor(fraction * float64(a)))
	}

	return counts
}
