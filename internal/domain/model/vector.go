package model

// Vector holds one normalized weight in [0,1] per table factor, in table order.
type Vector []float64

// Zero returns an all-zero vector of length n.
func Zero(n int) Vector {
	return make(Vector, n)
}
