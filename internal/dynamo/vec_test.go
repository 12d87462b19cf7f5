package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestVec_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		vec   Vec
		valid bool
	}{
		{"empty", Vec{}, true},
		{"normal", Vec{1.0, 2.0, 3.0}, true},
		{"zeros", Vec{0.0, 0.0}, true},
		{"with NaN", Vec{1.0, math.NaN()}, false},
		{"with +Inf", Vec{1.0, math.Inf(1)}, false},
		{"with -Inf", Vec{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vec.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec_Norm(t *testing.T) {
	tests := []struct {
		vec      Vec
		expected float64
	}{
		{Vec{3, 4}, 5.0},
		{Vec{-2}, 2.0},
		{Vec{0, 0, 0}, 0.0},
		{Vec{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.vec.Norm(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Norm(%v) = %v, want %v", tt.vec, got, tt.expected)
		}
	}
}

func TestVec_Arithmetic(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}

	if a[0] != 1 || b[0] != 4 {
		t.Error("arithmetic mutated its operands")
	}
}

func TestVec_DimensionMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on dimension mismatch")
		}
	}()
	Vec{1, 2}.Add(Vec{1, 2, 3})
}

func TestPhase_Accessors(t *testing.T) {
	p := NewPhase(3, 2)
	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}

	p.Pos[2], p.Pos[3] = 7, 8
	p.Vel[2], p.Vel[3] = -1, -2

	pos := p.Position(1)
	if pos[0] != 7 || pos[1] != 8 {
		t.Errorf("Position(1) = %v", pos)
	}
	pos[0] = 99
	if p.Pos[2] != 7 {
		t.Error("Position returned an alias into the phase")
	}

	vel := p.Velocity(1)
	if vel[0] != -1 || vel[1] != -2 {
		t.Errorf("Velocity(1) = %v", vel)
	}

	c := p.Clone()
	c.Pos[0] = 42
	if p.Pos[0] == 42 {
		t.Error("Clone shares storage")
	}

	if NewPhase(0, 0).Len() != 0 {
		t.Error("zero-dimensional phase should be empty")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Index: 2, Detail: "velocity has 3 components, want 2", Wrapped: ErrDimensionMismatch}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Error("ConfigError does not unwrap to its sentinel")
	}
	expected := "particle 2: velocity has 3 components, want 2: dynamo: dimension mismatch"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}
