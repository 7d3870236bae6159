package txn

// Transpose flips an authority-major matrix of per-output shares into an
// output-major one (or back again), the reshaping every federation member
// needs to turn "each authority's list of output shares" into "each output's
// list of authority shares" before aggregating (spec §8: "Testable
// Properties"). It assumes in is rectangular: every row has the same length.
func Transpose[T any](in [][]T) [][]T {
	if len(in) == 0 {
		return nil
	}
	out := make([][]T, len(in[0]))
	for j := range out {
		out[j] = make([]T, len(in))
		for i := range in {
			out[j][i] = in[i][j]
		}
	}
	return out
}
