package anylabel

// Collapse reduces a frame-by-frame labeling to the
// sequence of segment labels it encodes.
//
// Maximal runs of identical adjacent labels become a
// single occurrence, and occurrences of the background
// label are then removed, in that order.
// The result never contains background.
// Two segments of the same class separated only by
// background stay distinct, so the result may contain
// equal adjacent labels.
//
// An empty sequence, or one that is entirely background,
// collapses to an empty result.
func Collapse(frames []int, background int) []int {
	var segments []int
	for i, label := range frames {
		if i > 0 && frames[i-1] == label {
			continue
		}
		if label == background {
			continue
		}
		segments = append(segments, label)
	}
	return segments
}
