package sim_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const binaryMass = 1e10

// orbit builds two equal masses at (±1, 0) moving in opposite directions at
// factor times the circular orbit speed.
func orbit(factor float64, integ dynamo.Integrator) *sim.System {
	v := factor * math.Sqrt(physics.G*binaryMass/4)
	sys, err := sim.New([]sim.Particle{
		{Position: dynamo.Vec{-1, 0}, Velocity: dynamo.Vec{0, -v}, Mass: binaryMass},
		{Position: dynamo.Vec{1, 0}, Velocity: dynamo.Vec{0, v}, Mass: binaryMass},
	}, sim.WithIntegrator(integ))
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func driftAfter(integ dynamo.Integrator, dt, horizon float64) float64 {
	sys := orbit(0.7, integ)
	e0 := sys.TotalEnergy()
	steps := int(math.Round(horizon / dt))
	for i := 0; i < steps; i++ {
		sys.Advance(dt)
	}
	return math.Abs(sim.Drift(e0, sys.TotalEnergy()))
}

func randomSystem(seed int64, n, dim int, opts ...sim.Option) *sim.System {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]sim.Particle, n)
	for i := range ps {
		pos := dynamo.NewVec(dim)
		vel := dynamo.NewVec(dim)
		for k := 0; k < dim; k++ {
			pos[k] = rng.Float64() * 100
			vel[k] = (rng.Float64() - 0.5) * 0.2
		}
		ps[i] = sim.Particle{Position: pos, Velocity: vel, Mass: binaryMass * (1 + rng.Float64())}
	}
	sys, err := sim.New(ps, opts...)
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func momentumScale(sys *sim.System) float64 {
	s := 0.0
	for i := 0; i < sys.Len(); i++ {
		s += sys.Mass(i) * sys.Velocity(i).Norm()
	}
	return s
}

var _ = Describe("Energy error order", func() {
	It("halves the Euler error when the step is halved", func() {
		coarse := driftAfter(integrators.NewEuler(), 0.01, 2.0)
		fine := driftAfter(integrators.NewEuler(), 0.005, 2.0)
		Expect(fine).To(BeNumerically(">", 0))
		Expect(coarse / fine).To(BeNumerically("~", 2, 0.5))
	})

	It("cuts the RK4 error by more than eight when the step is halved", func() {
		coarse := driftAfter(integrators.NewRK4(), 0.05, 2.0)
		fine := driftAfter(integrators.NewRK4(), 0.025, 2.0)
		Expect(fine).To(BeNumerically(">", 0))
		Expect(coarse / fine).To(BeNumerically(">", 8))
	})

	It("keeps RK4 drift small over a full circular orbit", func() {
		sys := orbit(1, integrators.NewRK4())
		e0 := sys.TotalEnergy()
		for i := 0; i < 1600; i++ {
			sys.Advance(0.01)
		}
		Expect(math.Abs(sim.Drift(e0, sys.TotalEnergy()))).To(BeNumerically("<", 1e-8))
	})
})

var _ = Describe("Reversibility", func() {
	It("returns RK4 close to the start after stepping back", func() {
		sys := orbit(1, integrators.NewRK4())
		start := sys.Particles()
		for i := 0; i < 100; i++ {
			sys.Advance(0.01)
		}
		for i := 0; i < 100; i++ {
			sys.Advance(-0.01)
		}
		for i, p := range start {
			Expect(sys.Position(i).Sub(p.Position).Norm()).To(BeNumerically("<", 1e-6))
			Expect(sys.Velocity(i).Sub(p.Velocity).Norm()).To(BeNumerically("<", 1e-6))
		}
		Expect(sys.Time()).To(BeNumerically("~", 0, 1e-12))
	})
})

var _ = Describe("Conservation", func() {
	DescribeTable("total momentum",
		func(integ dynamo.Integrator) {
			sys := randomSystem(42, 5, 3, sim.WithIntegrator(integ))
			p0 := sys.Momentum()
			scale := momentumScale(sys)
			for i := 0; i < 100; i++ {
				sys.Advance(0.1)
			}
			scale += momentumScale(sys)
			Expect(sys.Momentum().Sub(p0).Norm()).To(BeNumerically("<", 1e-10*scale))
		},
		Entry("euler", integrators.NewEuler()),
		Entry("rk4", integrators.NewRK4()),
		Entry("verlet", integrators.NewVerlet()),
	)

	It("keeps a symmetric pair's centre of mass at the origin", func() {
		sys := orbit(0.8, integrators.NewRK4())
		for i := 0; i < 500; i++ {
			sys.Advance(0.01)
		}
		com := sys.CenterOfMass()
		Expect(com[0]).To(BeNumerically("~", 0, 1e-15))
		Expect(com[1]).To(BeNumerically("~", 0, 1e-15))
	})
})

var _ = Describe("Parallel evaluation", func() {
	It("matches a single worker bit for bit", func() {
		serial := randomSystem(3, 100, 2, sim.WithWorkers(1))
		parallel := randomSystem(3, 100, 2, sim.WithWorkers(4))
		for i := 0; i < 5; i++ {
			serial.Advance(0.1)
			parallel.Advance(0.1)
		}
		for i := 0; i < serial.Len(); i++ {
			Expect(parallel.Position(i)).To(Equal(serial.Position(i)))
			Expect(parallel.Velocity(i)).To(Equal(serial.Velocity(i)))
		}
	})
})

var _ = Describe("Degenerate systems", func() {
	It("steps an empty system without panicking", func() {
		sys, err := sim.New(nil, sim.WithDim(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(func() { sys.Advance(0.1) }).NotTo(Panic())
		Expect(sys.TotalEnergy()).To(BeZero())
	})

	It("moves a lone particle in a straight line", func() {
		sys, err := sim.New([]sim.Particle{
			{Position: dynamo.Vec{1, 2}, Velocity: dynamo.Vec{3, -1}, Mass: 5.9722e24},
		})
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 10; i++ {
			sys.Advance(0.5)
		}
		Expect(sys.Position(0)[0]).To(BeNumerically("~", 16, 1e-9))
		Expect(sys.Position(0)[1]).To(BeNumerically("~", -3, 1e-9))
		Expect(sys.Velocity(0)).To(Equal(dynamo.Vec{3, -1}))
	})

	It("keeps coincident particles finite", func() {
		sys, err := sim.New([]sim.Particle{
			{Position: dynamo.Vec{0, 0, 0}, Velocity: dynamo.Vec{0, 0, 0}, Mass: 1e20},
			{Position: dynamo.Vec{0, 0, 0}, Velocity: dynamo.Vec{0, 0, 0}, Mass: 1e20},
		})
		Expect(err).NotTo(HaveOccurred())
		sys.Advance(0.1)
		Expect(sys.Snapshot().IsValid()).To(BeTrue())
		Expect(sys.Accelerations()[0]).To(Equal(dynamo.Vec{0, 0, 0}))
	})
})
