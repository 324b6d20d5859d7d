package anylabel

import (
	"math"
	"runtime"
	"sync"
)

// SegmentErrorRate compares the segments of a predicted
// frame labeling against the segments of the true frame
// labeling.
//
// Both sequences are collapsed with Collapse, and the
// result is the edit distance between the collapsed
// sequences divided by the number of true segments.
//
// If the target collapses to no segments, the rate is 0
// when the source also collapses to no segments and
// positive infinity otherwise.
// Callers that average rates over a batch should check
// for the infinite case (see CombinedCost).
func SegmentErrorRate(source, target []int, background int) float64 {
	src := Collapse(source, background)
	tgt := Collapse(target, background)
	if len(tgt) == 0 {
		if len(src) == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return float64(Levenshtein(src, tgt)) / float64(len(tgt))
}

// SegmentErrorRates computes SegmentErrorRate for each
// (source, target) pair in a batch.
//
// The sources and targets slices must have the same
// length.
// The pairs are independent, so they are processed by up
// to GOMAXPROCS goroutines at once.
func SegmentErrorRates(sources, targets [][]int, background int) []float64 {
	if len(sources) != len(targets) {
		panic("mismatching source and target batch sizes")
	}

	rates := make([]float64, len(sources))
	idxChan := make(chan int, len(sources))
	for i := range sources {
		idxChan <- i
	}
	close(idxChan)

	var wg sync.WaitGroup
	for i := 0; i < runtime.GOMAXPROCS(0); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				rates[idx] = SegmentErrorRate(sources[idx], targets[idx], background)
			}
		}()
	}
	wg.Wait()

	return rates
}
