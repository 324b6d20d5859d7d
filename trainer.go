package anylabel

import (
	"errors"
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// A Batch stores a batch of input sequences and the
// corresponding per-frame labels for each.
type Batch struct {
	Inputs anyseq.Seq
	Labels [][]int
}

// A Trainer creates batches, computes gradients, and adds
// up combined costs for a frame labeling model.
type Trainer struct {
	Func   func(anyseq.Seq) anyseq.Seq
	Cost   *CombinedCost
	Params []*anydiff.Var

	// Average indicates whether or not the total cost should
	// be averaged before computing gradients.
	// This affects gradients, LastCost, and the output of
	// TotalCost().
	Average bool

	// After every gradient computation, LastCost is set to
	// the cost from the batch.
	LastCost anyvec.Numeric
}

// Fetch produces a *Batch for the subset of samples.
// The s argument must implement SampleList.
// The batch may not be empty.
func (t *Trainer) Fetch(s anysgd.SampleList) (anysgd.Batch, error) {
	if s.Len() == 0 {
		return nil, errors.New("fetch batch: empty batch")
	}
	l := s.(SampleList)
	ins := make([][]anyvec.Vector, l.Len())
	outs := make([][]int, l.Len())
	for i := 0; i < l.Len(); i++ {
		sample := l.GetSample(i)
		if len(sample.Input) != len(sample.Labels) {
			return nil, essentials.AddCtx("fetch batch",
				fmt.Errorf("sample %d: %d frames but %d labels", i,
					len(sample.Input), len(sample.Labels)))
		}
		ins[i] = sample.Input
		outs[i] = sample.Labels
	}
	return &Batch{
		Inputs: anyseq.ConstSeqList(l.Creator(), ins),
		Labels: outs,
	}, nil
}

// TotalCost computes the total cost for the batch.
//
// For more information on how this works, see
// CombinedCost.Cost().
func (t *Trainer) TotalCost(b *Batch) anydiff.Res {
	actual := t.Func(b.Inputs)
	costs := t.Cost.Cost(actual, b.Labels)
	sum := anydiff.Sum(costs)
	if t.Average {
		scaler := sum.Output().Creator().MakeNumeric(1 / float64(costs.Output().Len()))
		return anydiff.Scale(sum, scaler)
	} else {
		return sum
	}
}

// Gradient computes the gradient for the batch's cost.
// It also sets t.LastCost to the numerical value of the
// total cost.
//
// The b argument must be a *Batch.
func (t *Trainer) Gradient(b anysgd.Batch) anydiff.Grad {
	res := anydiff.NewGrad(t.Params...)

	cost := t.TotalCost(b.(*Batch))
	t.LastCost = anyvec.Sum(cost.Output())

	c := cost.Output().Creator()
	data := c.MakeNumericList([]float64{1})
	upstream := c.MakeVectorData(data)
	cost.Propagate(upstream, res)

	return res
}
