package physics

import (
	"math"
	"math/rand"
	"testing"
)

func TestGravity_TwoBodyLine(t *testing.T) {
	g := NewGravity(1, []float64{1e10, 1e10})
	pos := []float64{200, 300}
	acc := make([]float64, 2)

	g.Accelerations(pos, acc)

	want := G * 1e10 / (100 * 100)
	if math.Abs(acc[0]-want) > 1e-18 {
		t.Errorf("a0 = %e, want %e", acc[0], want)
	}
	if math.Abs(acc[1]+want) > 1e-18 {
		t.Errorf("a1 = %e, want %e", acc[1], -want)
	}
	if math.Abs(want-6.6743e-5) > 1e-12 {
		t.Errorf("reference acceleration = %e", want)
	}
}

func TestGravity_VectorFormulation(t *testing.T) {
	// a 3-4-5 triangle: the pull on the origin points along (3, 4)/5
	g := NewGravity(2, []float64{1, 5e10})
	pos := []float64{0, 0, 3, 4}

	a := g.Acceleration(pos, 0)
	mag := G * 5e10 / 25
	if math.Abs(a[0]-mag*0.6) > 1e-15 || math.Abs(a[1]-mag*0.8) > 1e-15 {
		t.Errorf("a = %v, want [%e %e]", a, mag*0.6, mag*0.8)
	}
	if math.Abs(a.Norm()-mag) > 1e-15 {
		t.Errorf("|a| = %e, want %e", a.Norm(), mag)
	}
}

func TestGravity_NearCoincidenceGuard(t *testing.T) {
	tests := []struct {
		name string
		pos  []float64
	}{
		{"coincident", []float64{1, 1, 1, 1, 1, 1}},
		{"within threshold", []float64{0, 0, 0, 5e-4, 0, 0}},
		{"diagonal within threshold", []float64{0, 0, 0, 4e-4, 4e-4, 4e-4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGravity(3, []float64{1e20, 1e20})
			acc := make([]float64, 6)
			g.Accelerations(tt.pos, acc)
			for k, a := range acc {
				if a != 0 {
					t.Errorf("acc[%d] = %e, want exactly 0", k, a)
				}
			}
			if e := g.Potential(tt.pos); e != 0 || math.IsNaN(e) {
				t.Errorf("potential = %e, want 0", e)
			}
		})
	}
}

func TestGravity_ThresholdOption(t *testing.T) {
	g := NewGravity(1, []float64{1e10, 1e10}, WithThreshold(200))
	acc := make([]float64, 2)
	g.Accelerations([]float64{200, 300}, acc)
	if acc[0] != 0 || acc[1] != 0 {
		t.Errorf("pair inside a 200 m threshold should not interact, got %v", acc)
	}
	if g.Threshold() != 200 {
		t.Errorf("Threshold() = %v", g.Threshold())
	}
}

func TestGravity_Degenerate(t *testing.T) {
	empty := NewGravity(2, nil)
	empty.Accelerations(nil, nil)
	if empty.Energy(nil, nil) != 0 {
		t.Error("empty system should have zero energy")
	}

	single := NewGravity(2, []float64{5e24})
	acc := []float64{9, 9}
	single.Accelerations([]float64{1, 2}, acc)
	if acc[0] != 0 || acc[1] != 0 {
		t.Errorf("lone particle accelerates: %v", acc)
	}
}

func TestGravity_ParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n, dim = 200, 3

	masses := make([]float64, n)
	pos := make([]float64, n*dim)
	for i := range masses {
		masses[i] = 1e9 + rng.Float64()*1e10
	}
	for k := range pos {
		pos[k] = rng.Float64() * 1e4
	}

	serial := make([]float64, n*dim)
	parallel := make([]float64, n*dim)
	NewGravity(dim, masses, WithWorkers(1)).Accelerations(pos, serial)
	NewGravity(dim, masses, WithWorkers(8)).Accelerations(pos, parallel)

	for k := range serial {
		if serial[k] != parallel[k] {
			t.Fatalf("component %d: serial %e != parallel %e", k, serial[k], parallel[k])
		}
	}

	g := NewGravity(dim, masses)
	for _, i := range []int{0, 57, n - 1} {
		a := g.Acceleration(pos, i)
		for k := 0; k < dim; k++ {
			if a[k] != serial[i*dim+k] {
				t.Errorf("Acceleration(%d)[%d] = %e, batch %e", i, k, a[k], serial[i*dim+k])
			}
		}
	}
}

func TestGravity_PairwiseAntisymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n, dim = 6, 2
	masses := make([]float64, n)
	pos := make([]float64, n*dim)
	for i := range masses {
		masses[i] = 1e10 * (1 + rng.Float64())
	}
	for k := range pos {
		pos[k] = rng.NormFloat64() * 50
	}

	g := NewGravity(dim, masses)
	acc := make([]float64, n*dim)
	g.Accelerations(pos, acc)

	for k := 0; k < dim; k++ {
		net, scale := 0.0, 0.0
		for i, m := range masses {
			net += m * acc[i*dim+k]
			scale += math.Abs(m * acc[i*dim+k])
		}
		if math.Abs(net) > 1e-12*scale {
			t.Errorf("axis %d: net internal force %e (scale %e)", k, net, scale)
		}
	}
}

func TestGravity_CopiesMasses(t *testing.T) {
	masses := []float64{1, 2}
	g := NewGravity(1, masses)
	masses[0] = 100
	if g.Mass(0) != 1 {
		t.Error("Gravity aliases the caller's mass slice")
	}
}
