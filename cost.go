package anylabel

import (
	"fmt"
	"math"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var c CombinedCost
	serializer.RegisterTypedDeserializer(c.SerializerType(), DeserializeCombinedCost)
}

// A CombinedCost blends the per-frame cross-entropy with
// the batch's segment error rate:
//
//	cost[i] = LambdaCE*crossEntropy[i] + LambdaSER*segmentErrorRate[i]
//
// The segment error rate term is constant with respect to
// the network outputs (see Cost), so the gradient of a
// combined cost is the cross-entropy gradient scaled by
// LambdaCE.
// The segment term still shows up in the cost's value,
// which makes it visible to anything that monitors the
// cost during training.
type CombinedCost struct {
	// LambdaCE and LambdaSER weight the cross-entropy and
	// segment error rate terms.
	LambdaCE  float64
	LambdaSER float64

	// Background is the label that marks frames which
	// belong to no segment.
	// It is still a valid class for the cross-entropy term.
	Background int
}

// DeserializeCombinedCost deserializes a CombinedCost.
func DeserializeCombinedCost(d []byte) (*CombinedCost, error) {
	var lambdaCE, lambdaSER serializer.Float64
	var background serializer.Int
	if err := serializer.DeserializeAny(d, &lambdaCE, &lambdaSER, &background); err != nil {
		return nil, essentials.AddCtx("deserialize CombinedCost", err)
	}
	return &CombinedCost{
		LambdaCE:   float64(lambdaCE),
		LambdaSER:  float64(lambdaSER),
		Background: int(background),
	}, nil
}

// Cost computes the combined cost for a batch of output
// sequences, one cost component per sequence.
//
// There must be exactly one label per frame of each
// sequence.
// The outputs at each timestep are class log
// probabilities (e.g. from anynet.LogSoftmax), and the
// cross-entropy for a sequence is the negated mean of the
// log probabilities assigned to the true labels.
//
// Predicted labels for the segment term come from
// BestLabels, which is a stop-gradient boundary; the
// per-sequence rates enter the result as constants.
// A sequence whose true labels collapse to no segments
// cannot be scored and contributes 0 for its segment
// term.
// A sequence with no frames at all contributes 0 for
// both terms.
func (c *CombinedCost) Cost(seqs anyseq.Seq, labels [][]int) anydiff.Res {
	cr := seqs.Creator()
	if len(seqs.Output()) == 0 {
		if len(labels) != 0 {
			panic("mismatching batch and label counts")
		}
		return anydiff.NewConst(cr.MakeVector(0))
	}

	predicted := BestLabels(seqs)
	if len(predicted) != len(labels) {
		panic("mismatching batch and label counts")
	}
	rates := SegmentErrorRates(predicted, labels, c.Background)
	for i, r := range rates {
		if math.IsInf(r, 1) {
			rates[i] = 0
		}
	}

	return poolSeqs(seqs, func(in [][]anydiff.Res) anydiff.Res {
		ces := make([]anydiff.Res, len(in))
		for i, frames := range in {
			ces[i] = crossEntropy(cr, frames, labels[i])
		}
		ce := anydiff.Concat(ces...)
		ser := anydiff.NewConst(cr.MakeVectorData(cr.MakeNumericList(rates)))
		return anydiff.Add(
			anydiff.Scale(ce, cr.MakeNumeric(c.LambdaCE)),
			anydiff.Scale(ser, cr.MakeNumeric(c.LambdaSER)),
		)
	})
}

// SerializerType returns the unique ID used to serialize
// a CombinedCost with the serializer package.
func (c *CombinedCost) SerializerType() string {
	return "github.com/unixpickle/anylabel.CombinedCost"
}

// Serialize serializes the CombinedCost.
func (c *CombinedCost) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		serializer.Float64(c.LambdaCE),
		serializer.Float64(c.LambdaSER),
		serializer.Int(c.Background),
	)
}

// crossEntropy computes the mean negative log likelihood
// of the labels under one sequence of log-probability
// frames, as a one-component result.
func crossEntropy(cr anyvec.Creator, frames []anydiff.Res, labels []int) anydiff.Res {
	if len(frames) != len(labels) {
		panic(fmt.Sprintf("sequence has %d frames but %d labels", len(frames),
			len(labels)))
	}
	if len(frames) == 0 {
		return anydiff.NewConst(cr.MakeVector(1))
	}
	classes := frames[0].Output().Len()
	oneHot := make([]float64, classes*len(frames))
	for t, label := range labels {
		if label < 0 || label >= classes {
			panic(fmt.Sprintf("label %d out of range [0, %d)", label, classes))
		}
		oneHot[t*classes+label] = 1
	}
	mask := anydiff.NewConst(cr.MakeVectorData(cr.MakeNumericList(oneHot)))
	picked := anydiff.Sum(anydiff.Mul(anydiff.Concat(frames...), mask))
	return anydiff.Scale(picked, cr.MakeNumeric(-1/float64(len(frames))))
}

// poolSeqs re-packages a sequence batch so that f can use
// each sequence's timesteps as individual results, while
// upstream gradients still propagate back into seqs once.
type seqPoolRes struct {
	In      anyseq.Seq
	Pools   []*anydiff.Var
	Lengths []int
	Res     anydiff.Res
}

func poolSeqs(seqs anyseq.Seq, f func(in [][]anydiff.Res) anydiff.Res) anydiff.Res {
	rawSeqs := anyseq.SeparateSeqs(seqs.Output())
	pools := make([]*anydiff.Var, len(rawSeqs))
	splitPools := make([][]anydiff.Res, len(rawSeqs))
	lengths := make([]int, len(rawSeqs))
	for i, raw := range rawSeqs {
		pools[i] = anydiff.NewVar(seqs.Creator().Concat(raw...))
		splitPools[i] = splitRes(pools[i], len(raw))
		lengths[i] = len(raw)
	}
	return &seqPoolRes{
		In:      seqs,
		Pools:   pools,
		Lengths: lengths,
		Res:     f(splitPools),
	}
}

func (s *seqPoolRes) Output() anyvec.Vector {
	return s.Res.Output()
}

func (s *seqPoolRes) Vars() anydiff.VarSet {
	return s.In.Vars()
}

func (s *seqPoolRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	for _, pvar := range s.Pools {
		g[pvar] = pvar.Vector.Creator().MakeVector(pvar.Vector.Len())
	}
	s.Res.Propagate(u, g)
	downstream := make([][]anyvec.Vector, len(s.Pools))
	for i, pvar := range s.Pools {
		downstream[i] = splitVec(g[pvar], s.Lengths[i])
		delete(g, pvar)
	}
	joinedU := anyseq.ConstSeqList(u.Creator(), downstream).Output()
	s.In.Propagate(joinedU, g)
}

func splitVec(vec anyvec.Vector, parts int) []anyvec.Vector {
	if parts == 0 {
		return nil
	}
	res := make([]anyvec.Vector, parts)
	chunkSize := vec.Len() / parts
	for i := range res {
		res[i] = vec.Slice(i*chunkSize, (i+1)*chunkSize)
	}
	return res
}

func splitRes(res anydiff.Res, parts int) []anydiff.Res {
	if parts == 0 {
		return nil
	}
	reses := make([]anydiff.Res, parts)
	chunkSize := res.Output().Len() / parts
	for i := range reses {
		reses[i] = anydiff.Slice(res, i*chunkSize, (i+1)*chunkSize)
	}
	return reses
}
