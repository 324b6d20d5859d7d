package anylabel

import (
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
)

// BestLabels produces the most likely label for every
// frame of every sequence by taking the arg-max over the
// class outputs at each timestep.
//
// This reads the raw output vectors, never a
// differentiable result, so it is a stop-gradient
// boundary: nothing downstream of BestLabels can
// propagate back into the sequences.
func BestLabels(seqs anyseq.Seq) [][]int {
	separated := anyseq.SeparateSeqs(seqs.Output())
	res := make([][]int, len(separated))
	for i, seq := range separated {
		labels := make([]int, len(seq))
		for t, frame := range seq {
			labels[t] = anyvec.MaxIndex(frame)
		}
		res[i] = labels
	}
	return res
}
