package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func Linspace(x1, x2 float64, N int) (v []float64) {
	v = make([]float64, N)
	if N == 1 {
		v[0] = x1
		return
	}
	dx := (x2 - x1) / float64(N-1)
	for i := range v {
		v[i] = x1 + float64(i)*dx
	}
	v[N-1] = x2
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		return math.Pow(x, float64(pp))
	}
	if p < 0 {
		p = -pp
		flipped = true
	}
	y = 1
	for i := 0; i < p; i++ {
		y *= x
	}
	if flipped {
		y = 1. / y
	}
	return
}

// L2Norm is the Euclidean norm of a slice.
func L2Norm(x []float64) (n float64) {
	for _, val := range x {
		n += val * val
	}
	n = math.Sqrt(n)
	return
}

func MaxAbs(x []float64) (m float64) {
	for _, val := range x {
		if a := math.Abs(val); a > m {
			m = a
		}
	}
	return
}

// Clip limits x to [lo, hi].
func Clip(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	}
	return x
}
