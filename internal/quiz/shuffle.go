package quiz

import "math/rand/v2"

// Shuffle returns a uniformly random permutation of items. The input is not modified.
// A nil r uses the package-level source.
func Shuffle[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if r == nil {
		rand.Shuffle(len(out), swap)
	} else {
		r.Shuffle(len(out), swap)
	}
	return out
}

// ShuffleAnswers builds the answer list of each question, shuffled independently.
func ShuffleAnswers(r *rand.Rand, qs []Question) [][]string {
	out := make([][]string, len(qs))
	for i, q := range qs {
		out[i] = Shuffle(r, q.Candidates())
	}
	return out
}
