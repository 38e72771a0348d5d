package planner_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/ocp"
	"github.com/pursuitlab/slap/internal/planner"
	"github.com/pursuitlab/slap/internal/target"
)

func testConfig() planner.Config {
	return planner.Config{
		Horizon:        6,
		Dt:             0.2,
		Limits:         kinematics.DefaultLimits(),
		CenterWeights:  ocp.Weights{Pos: 10, Heading: 1, Vel: 1, Rate: 0.1},
		TrackerWeights: ocp.Weights{Pos: 10, Heading: 1, Vel: 1, Rate: 0.1, Smooth: 0.5},
		Radius:         2.0,
		Rate:           0.5,
		Separation:     1.0,
		MaxIterations:  150,
	}
}

var _ = Describe("Pipeline", func() {
	var est target.Estimate

	BeforeEach(func() {
		est = target.Estimate{
			State: kinematics.State{5, 0, 0},
			VX:    1.0,
			VY:    0,
		}
	})

	It("rejects bad configuration", func() {
		cfg := testConfig()
		cfg.Horizon = 0
		_, err := planner.NewPipeline(cfg)
		Expect(err).To(HaveOccurred())

		cfg = testConfig()
		cfg.Radius = 0
		_, err = planner.NewPipeline(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a tracker count that does not match the formation", func() {
		p, err := planner.NewPipeline(testConfig())
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Plan(0, kinematics.State{4, 0, 0},
			[]kinematics.State{{2, 2, 0}}, est)
		Expect(err).To(HaveOccurred())
	})

	It("plans a full feasible cycle", func() {
		p, err := planner.NewPipeline(testConfig())
		Expect(err).NotTo(HaveOccurred())

		center := kinematics.State{4, 0, 0}
		trackers := []kinematics.State{
			{6, 0.5, math.Pi / 2},
			{4, 2.5, 0},
		}

		plan, err := p.Plan(0, center, trackers, est)
		Expect(err).NotTo(HaveOccurred())

		Expect(plan.TrackerControls).To(HaveLen(2))
		limits := kinematics.DefaultLimits()
		Expect(limits.Contains(plan.CenterControl, 1e-9)).To(BeTrue())
		for _, u := range plan.TrackerControls {
			Expect(limits.Contains(u, 1e-9)).To(BeTrue())
		}

		// Accepted plans always satisfy the separation constraint over the
		// whole prediction.
		Expect(plan.MinSeparation()).To(BeNumerically(">=", 1.0-1e-3))

		Expect(plan.References).To(HaveLen(2))
		Expect(plan.References[0]).To(HaveLen(6))
		Expect(plan.CenterSolve).NotTo(BeNil())
		Expect(plan.TrackerSolve).NotTo(BeNil())
	})

	It("surfaces separation infeasibility", func() {
		cfg := testConfig()
		cfg.Separation = 50.0 // unreachable within 1.2 s at 4 m/s
		p, err := planner.NewPipeline(cfg)
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Plan(0, kinematics.State{4, 0, 0},
			[]kinematics.State{{6, 0.5, 0}, {4, 2.5, 0}}, est)
		Expect(err).To(MatchError(ocp.ErrInfeasible))
	})
})

var _ = Describe("PurePursuit baseline", func() {
	It("steers toward the formation slot within control bounds", func() {
		limits := kinematics.DefaultLimits()
		pp, err := planner.NewPurePursuit(2.0, 0.5, nil, limits)
		Expect(err).NotTo(HaveOccurred())

		est := target.Estimate{State: kinematics.State{10, 0, 0}, VX: 1}
		plan, err := pp.Plan(0, kinematics.State{0, 0, 0},
			[]kinematics.State{{0, 1, 0}, {0, -1, 0}}, est)
		Expect(err).NotTo(HaveOccurred())

		for _, u := range plan.TrackerControls {
			Expect(limits.Contains(u, 0)).To(BeTrue())
			// Slots are far ahead, so the baseline drives at full speed.
			Expect(u[kinematics.IV]).To(BeNumerically(">", 0))
		}
		Expect(plan.CenterSolve).To(BeNil())
		Expect(plan.MinSeparation()).To(Equal(-1.0))
	})

	It("turns in place when the slot is behind", func() {
		limits := kinematics.DefaultLimits()
		pp, err := planner.NewPurePursuit(2.0, 0, nil, limits)
		Expect(err).NotTo(HaveOccurred())

		// Target directly behind the vehicle.
		est := target.Estimate{State: kinematics.State{-10, 0, 0}}
		plan, err := pp.Plan(0, kinematics.State{0, 0, 0},
			[]kinematics.State{{0, 0, 0}, {0, 3, 0}}, est)
		Expect(err).NotTo(HaveOccurred())

		u := plan.TrackerControls[0]
		Expect(u[kinematics.IV]).To(Equal(0.0))
		Expect(math.Abs(u[kinematics.IR])).To(BeNumerically(">", 0))
	})
})
