// Command seglabel trains a small recurrent frame
// classifier on synthetic segment data and reports the
// segment error rate on held-out sequences.
package main

import (
	"log"
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anylabel"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/rip"
)

const (
	NumClasses = 4
	Background = 0

	SeqLen       = 64
	TrainSamples = 512
	TestSamples  = 64

	HiddenSize = 40
	BatchSize  = 16
)

func main() {
	log.Println("Setting up...")

	c := anyvec32.CurrentCreator()

	block := anyrnn.Stack{
		anyrnn.NewLSTM(c, NumClasses, HiddenSize),
		&anyrnn.LayerBlock{Layer: anynet.Net{
			anynet.NewFC(c, HiddenSize, NumClasses),
			anynet.LogSoftmax,
		}},
	}

	t := &anylabel.Trainer{
		Func: func(s anyseq.Seq) anyseq.Seq {
			return anyrnn.Map(s, block)
		},
		Cost: &anylabel.CombinedCost{
			LambdaCE:   0.5,
			LambdaSER:  0.5,
			Background: Background,
		},
		Params:  anynet.AllParameters(block),
		Average: true,
	}

	var iterNum int
	s := &anysgd.SGD{
		Fetcher:     t,
		Gradienter:  t,
		Transformer: &anysgd.Adam{},
		Samples:     randomSamples(c, TrainSamples),
		Rater:       anysgd.ConstRater(0.001),
		StatusFunc: func(b anysgd.Batch) {
			log.Printf("iter %d: cost=%v", iterNum, t.LastCost)
			iterNum++
		},
		BatchSize: BatchSize,
	}

	log.Println("Press ctrl+c once to stop...")
	s.Run(rip.NewRIP().Chan())

	log.Println("Evaluating...")
	printStats(c, t)
}

func printStats(c anyvec.Creator, t *anylabel.Trainer) {
	test := randomSamples(c, TestSamples)
	ins := make([][]anyvec.Vector, test.Len())
	targets := make([][]int, test.Len())
	for i := 0; i < test.Len(); i++ {
		sample := test.GetSample(i)
		ins[i] = sample.Input
		targets[i] = sample.Labels
	}
	outSeqs := t.Func(anyseq.ConstSeqList(c, ins))
	predicted := anylabel.BestLabels(outSeqs)

	// Sequences with no true segments cannot be scored.
	var total float64
	var count int
	for _, rate := range anylabel.SegmentErrorRates(predicted, targets, Background) {
		if math.IsInf(rate, 1) {
			continue
		}
		total += rate
		count++
	}
	if count == 0 {
		log.Println("No scoreable test sequences.")
		return
	}
	log.Printf("Mean segment error rate: %f", total/float64(count))
}

// A sampleList pairs random synthetic sequences with a
// creator so the trainer can pack them.
type sampleList struct {
	anylabel.SliceSampleList
	creator anyvec.Creator
}

func randomSamples(c anyvec.Creator, n int) *sampleList {
	samples := make(anylabel.SliceSampleList, n)
	for i := range samples {
		samples[i] = randomSample(c)
	}
	return &sampleList{SliceSampleList: samples, creator: c}
}

func (s *sampleList) Slice(i, j int) anysgd.SampleList {
	return &sampleList{
		SliceSampleList: s.SliceSampleList.Slice(i, j).(anylabel.SliceSampleList),
		creator:         s.creator,
	}
}

func (s *sampleList) Creator() anyvec.Creator {
	return s.creator
}

// randomSample produces a sequence of labeled segments
// separated by background, with noisy one-hot inputs.
func randomSample(c anyvec.Creator) *anylabel.Sample {
	labels := make([]int, SeqLen)
	var t int
	for t < SeqLen {
		runLen := 2 + rand.Intn(8)
		label := Background
		if rand.Intn(2) == 0 {
			label = 1 + rand.Intn(NumClasses-1)
		}
		for i := 0; i < runLen && t < SeqLen; i++ {
			labels[t] = label
			t++
		}
	}

	inputs := make([]anyvec.Vector, SeqLen)
	for t, label := range labels {
		frame := make([]float64, NumClasses)
		for i := range frame {
			frame[i] = rand.NormFloat64() * 0.3
		}
		frame[label] += 1
		inputs[t] = c.MakeVectorData(c.MakeNumericList(frame))
	}
	return &anylabel.Sample{Input: inputs, Labels: labels}
}
