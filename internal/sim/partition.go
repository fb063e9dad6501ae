package sim

// Partition splits n trials as evenly as possible over k workers. Each worker
// gets n/k or n/k+1 trials, the larger shares going to the first n%k workers,
// so every trial is assigned exactly once and trailing workers get zero when
// k > n.
func Partition(n, k int) []int {
	if k < 1 {
		return nil
	}
	counts := make([]int, k)
	if n <= 0 {
		return counts
	}
	per, extra := n/k, n%k
	for i := range counts {
		counts[i] = per
		if i < extra {
			counts[i]++
		}
	}
	return counts
}
