package anylabel

import "testing"

func TestLevenshtein(t *testing.T) {
	kitten := []int{107, 105, 116, 116, 101, 110}
	sitting := []int{115, 105, 116, 116, 105, 110, 103}
	cases := []struct {
		Source   []int
		Target   []int
		Distance int
	}{
		{nil, nil, 0},
		{nil, []int{1, 2, 3}, 3},
		{[]int{1, 2, 3}, nil, 3},
		{[]int{1, 2, 3}, []int{1, 2, 3}, 0},
		{[]int{1, 1, 2}, []int{1, 2, 2}, 1},
		{[]int{1, 2, 3}, []int{2, 3, 4}, 2},
		{[]int{5}, []int{6}, 1},
		{kitten, sitting, 3},
		{sitting, kitten, 3},
	}
	for _, c := range cases {
		if d := Levenshtein(c.Source, c.Target); d != c.Distance {
			t.Errorf("Levenshtein(%v, %v): expected %d but got %d", c.Source,
				c.Target, c.Distance, d)
		}
	}
}

func TestLevenshteinProperties(t *testing.T) {
	seqs := [][]int{
		nil,
		{1},
		{2, 2},
		{1, 2, 3},
		{3, 1, 2, 1},
		{1, 1, 1, 1, 1},
		{2, 3, 2, 3},
	}
	for _, a := range seqs {
		if d := Levenshtein(a, a); d != 0 {
			t.Errorf("Levenshtein(%v, %v): expected 0 but got %d", a, a, d)
		}
		for _, b := range seqs {
			ab := Levenshtein(a, b)
			ba := Levenshtein(b, a)
			if ab != ba {
				t.Errorf("asymmetric: Levenshtein(%v, %v)=%d but Levenshtein(%v, %v)=%d",
					a, b, ab, b, a, ba)
			}
			for _, c := range seqs {
				if ac := Levenshtein(a, c); ac > ab+Levenshtein(b, c) {
					t.Errorf("triangle inequality violated for %v, %v, %v", a, b, c)
				}
			}
		}
	}
}
