// Package anylabel provides metrics and losses for
// frame-level sequence labeling, where a classifier
// assigns one class label to every time-step (frame) of
// a sequence.
//
// Besides the usual per-frame cross-entropy, anylabel
// measures how well runs of predicted labels line up with
// runs of true labels: adjacent duplicate frames are
// collapsed into discrete segments, a reserved background
// label is dropped, and the remaining segment sequences
// are compared by edit distance.
//
// The resulting segment error rate is not differentiable.
// CombinedCost folds it into a differentiable training
// cost anyway, as a monitored term whose value (but not
// gradient) shows up in the total.
package anylabel
