package termination

// Pair is a two-component cost compared lexicographically: the first
// component decides unless it ties, then the second decides.
type Pair [2]float64

// Less reports whether a precedes b lexicographically.
func (a Pair) Less(b Pair) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

func lessFloat(a, b float64) bool { return a < b }

func lessPair(a, b Pair) bool { return a.Less(b) }

// blend returns p·c + (1-p)·e. The conversions keep the products from being
// fused into a single multiply-add.
func blend(p, c, e float64) float64 {
	return float64(p*c) + float64((1-p)*e)
}
