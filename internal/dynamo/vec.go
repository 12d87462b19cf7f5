package dynamo

import (
	"fmt"
	"math"
)

// Vec is a real vector whose dimension is fixed when it is created.
type Vec []float64

func NewVec(dim int) Vec {
	return make(Vec, dim)
}

func (v Vec) Dim() int { return len(v) }

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	copy(c, v)
	return c
}

func (v Vec) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vec) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vec) Dot(other Vec) float64 {
	mustMatch(v, other)
	sum := 0.0
	for i := range v {
		sum += v[i] * other[i]
	}
	return sum
}

func (v Vec) Add(other Vec) Vec {
	mustMatch(v, other)
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] + other[i]
	}
	return result
}

func (v Vec) Sub(other Vec) Vec {
	mustMatch(v, other)
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] - other[i]
	}
	return result
}

func (v Vec) Scale(factor float64) Vec {
	result := make(Vec, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// mixing dimensions is a programming error, not a recoverable condition
func mustMatch(a, b Vec) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("%v: %d != %d", ErrDimensionMismatch, len(a), len(b)))
	}
}
