package interaction_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballpit/internal/interaction"
	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/world"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Controller", func() {
	var (
		w        *world.World
		ctrl     *interaction.Controller
		captured []int
		released []int
	)

	BeforeEach(func() {
		w = world.FromBodies(world.DefaultParams(),
			world.Body{Pos: r2.Vec{X: 50, Y: 50}},
			world.Body{Pos: r2.Vec{X: 54, Y: 50}},
			world.Body{Pos: r2.Vec{X: 200, Y: 200}},
		)
		ctrl = interaction.New(w)
		captured, released = nil, nil
		ctrl.OnCapture = func(i int) { captured = append(captured, i) }
		ctrl.OnRelease = func(i int) { released = append(released, i) }
	})

	It("starts idle", func() {
		_, ok := ctrl.Captured()
		Expect(ok).To(BeFalse())
		Expect(ctrl.Pointer().Pressed).To(BeFalse())
	})

	Describe("Press", func() {
		It("captures the body under the pointer", func() {
			ctrl.Press(r2.Vec{X: 203, Y: 198})

			i, ok := ctrl.Captured()
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(2))
			Expect(ctrl.Pointer().Pressed).To(BeTrue())
			Expect(ctrl.Pointer().Pos).To(Equal(r2.Vec{X: 203, Y: 198}))
			Expect(captured).To(Equal([]int{2}))
		})

		It("prefers the earlier body when two overlap", func() {
			// (53,50) is nearer body 1 but also inside body 0.
			ctrl.Press(r2.Vec{X: 53, Y: 50})

			i, ok := ctrl.Captured()
			Expect(ok).To(BeTrue())
			Expect(i).To(Equal(0))
		})

		It("stays idle when nothing is hit", func() {
			ctrl.Press(r2.Vec{X: 120, Y: 120})

			_, ok := ctrl.Captured()
			Expect(ok).To(BeFalse())
			Expect(ctrl.Pointer().Pressed).To(BeTrue())
			Expect(captured).To(BeEmpty())
		})

		It("needs the press strictly inside the radius", func() {
			ctrl.Press(r2.Vec{X: 208, Y: 200})

			_, ok := ctrl.Captured()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Move", func() {
		It("tracks the pointer while a body is held", func() {
			ctrl.Press(r2.Vec{X: 200, Y: 200})
			ctrl.Move(r2.Vec{X: 10, Y: 20})
			ctrl.Move(r2.Vec{X: 30, Y: 40})

			Expect(ctrl.Pointer().Pos).To(Equal(r2.Vec{X: 30, Y: 40}))
			i, _ := ctrl.Captured()
			Expect(i).To(Equal(2))
		})

		It("never captures on its own", func() {
			ctrl.Move(r2.Vec{X: 50, Y: 50})

			_, ok := ctrl.Captured()
			Expect(ok).To(BeFalse())
		})
	})

	DescribeTable("returning to idle",
		func(end func(*interaction.Controller)) {
			ctrl.Press(r2.Vec{X: 200, Y: 200})
			end(ctrl)

			_, ok := ctrl.Captured()
			Expect(ok).To(BeFalse())
			Expect(ctrl.Pointer().Pressed).To(BeFalse())
			Expect(released).To(Equal([]int{2}))
		},
		Entry("on release", func(c *interaction.Controller) { c.Release() }),
		Entry("on leaving the arena", func(c *interaction.Controller) { c.Leave() }),
	)

	It("clears on release even when nothing was held", func() {
		ctrl.Release()

		_, ok := ctrl.Captured()
		Expect(ok).To(BeFalse())
		Expect(released).To(BeEmpty())
	})

	It("feeds the pull force into the next step", func() {
		p := world.DefaultParams()
		p.Gravity = 0
		p.Damping = 1
		w2 := world.FromBodies(p, world.Body{Pos: r2.Vec{X: 100, Y: 100}})
		ctrl.Reset(w2)

		ctrl.Press(r2.Vec{X: 102, Y: 100})
		ctrl.Move(r2.Vec{X: 150, Y: 100})
		physics.Step(w2, ctrl.Pointer())

		Expect(w2.Bodies[0].Vel.X).To(BeNumerically("~", 50*p.PullCoefficient, 1e-12))
		Expect(w2.Bodies[0].Vel.Y).To(BeZero())

		ctrl.Release()
		before := w2.Bodies[0].Vel
		physics.Step(w2, ctrl.Pointer())
		Expect(w2.Bodies[0].Vel).To(Equal(before))
	})
})
