package anylabel

// Levenshtein computes the minimum number of
// single-element insertions, deletions, or substitutions
// needed to transform the source sequence into the target
// sequence.
//
// It runs in O(len(source)*len(target)) time and uses
// O(min(len(source), len(target))) memory.
func Levenshtein(source, target []int) int {
	if labelsEqual(source, target) {
		return 0
	}
	if len(source) == 0 {
		return len(target)
	}
	if len(target) == 0 {
		return len(source)
	}

	// The recurrence only ever looks at the previous row,
	// so two rows suffice.
	// Swapping the operands bounds the row width by the
	// shorter sequence; the distance is symmetric.
	if len(source) > len(target) {
		source, target = target, source
	}
	prev := make([]int, len(source)+1)
	cur := make([]int, len(source)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, targetLabel := range target {
		cur[0] = i + 1
		for j, sourceLabel := range source {
			cost := prev[j]
			if sourceLabel != targetLabel {
				cost++
				if x := cur[j] + 1; x < cost {
					cost = x
				}
				if y := prev[j+1] + 1; y < cost {
					cost = y
				}
			}
			cur[j+1] = cost
		}
		prev, cur = cur, prev
	}
	return prev[len(source)]
}

func labelsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i, x := range a {
		if b[i] != x {
			return false
		}
	}
	return true
}
