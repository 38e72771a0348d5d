package planner_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/planner"
)

var _ = Describe("Formation", func() {
	var centers []kinematics.State

	BeforeEach(func() {
		centers = make([]kinematics.State, 8)
		for k := range centers {
			centers[k] = kinematics.State{float64(k) * 0.5, 1.0, 0.2}
		}
	})

	It("rejects a non-positive radius", func() {
		_, err := planner.NewFormation(0, 0.5, nil)
		Expect(err).To(HaveOccurred())

		_, err = planner.NewFormation(-2, 0.5, nil)
		Expect(err).To(HaveOccurred())
	})

	It("places every reference exactly one radius from the center", func() {
		f, err := planner.NewFormation(3.0, 0.4, nil)
		Expect(err).NotTo(HaveOccurred())

		states, _ := f.References(centers, 0, 0.2, 1.5)
		Expect(states).To(HaveLen(2))

		for i := range states {
			for k, ref := range states[i] {
				d := ref.Dist(centers[k])
				Expect(d).To(BeNumerically("~", 3.0, 1e-9),
					"tracker %d step %d", i, k)
			}
		}
	})

	It("keeps the two trackers a quarter turn apart at every step", func() {
		f, err := planner.NewFormation(2.0, 0.7, nil)
		Expect(err).NotTo(HaveOccurred())

		states, _ := f.References(centers, 1.3, 0.1, 2.0)

		for k := range centers {
			a0 := math.Atan2(
				states[0][k][kinematics.IY]-centers[k][kinematics.IY],
				states[0][k][kinematics.IX]-centers[k][kinematics.IX])
			a1 := math.Atan2(
				states[1][k][kinematics.IY]-centers[k][kinematics.IY],
				states[1][k][kinematics.IX]-centers[k][kinematics.IX])

			diff := kinematics.WrapAngle(a1 - a0)
			Expect(diff).To(BeNumerically("~", math.Pi/2, 1e-9), "step %d", k)
		}
	})

	It("sets the reference heading tangent to the circle", func() {
		f, err := planner.NewFormation(2.0, 0.5, nil)
		Expect(err).NotTo(HaveOccurred())

		states, _ := f.References(centers, 0.4, 0.2, 1.0)

		for i := range states {
			for k, ref := range states[i] {
				radial := math.Atan2(
					ref[kinematics.IY]-centers[k][kinematics.IY],
					ref[kinematics.IX]-centers[k][kinematics.IX])
				// Tangent of a counter-clockwise circle leads the radial
				// direction by a quarter turn.
				want := kinematics.WrapAngle(radial + math.Pi/2)
				Expect(kinematics.WrapAngle(ref[kinematics.IPsi] - want)).
					To(BeNumerically("~", 0, 1e-9), "tracker %d step %d", i, k)
			}
		}
	})

	It("reverses the tangent for clockwise rotation", func() {
		f, err := planner.NewFormation(2.0, -0.5, nil)
		Expect(err).NotTo(HaveOccurred())

		states, _ := f.References(centers[:1], 0, 0.2, 1.0)
		ref := states[0][0]

		radial := math.Atan2(
			ref[kinematics.IY]-centers[0][kinematics.IY],
			ref[kinematics.IX]-centers[0][kinematics.IX])
		want := kinematics.WrapAngle(radial - math.Pi/2)
		Expect(kinematics.WrapAngle(ref[kinematics.IPsi] - want)).
			To(BeNumerically("~", 0, 1e-9))
	})

	It("falls back to the center heading when the pattern does not rotate", func() {
		f, err := planner.NewFormation(2.0, 0, nil)
		Expect(err).NotTo(HaveOccurred())

		states, _ := f.References(centers, 0, 0.2, 1.0)
		for _, ref := range states[0] {
			Expect(ref[kinematics.IPsi]).To(Equal(0.2))
		}
	})

	It("emits the shared speed and pattern rate as reference control", func() {
		f, err := planner.NewFormation(2.0, 0.6, nil)
		Expect(err).NotTo(HaveOccurred())

		_, controls := f.References(centers, 0, 0.2, 1.7)
		for i := range controls {
			for _, u := range controls[i] {
				Expect(u[kinematics.IV]).To(Equal(1.7))
				Expect(u[kinematics.IR]).To(Equal(0.6))
			}
		}
	})
})
