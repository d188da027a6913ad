package nav

import (
	"math"

	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/navcom/internal/control"
	"github.com/san-kum/navcom/internal/geom"
)

var _ = Describe("Computer", func() {
	const ups = 10.0
	slowdown := math.Pi / 36

	var (
		body  *fakeBody
		gyros []*fakeGyro
		c     *Computer
	)

	BeforeEach(func() {
		pitch, err := control.NewPID(10, 0, 10, 1/ups)
		Expect(err).NotTo(HaveOccurred())
		yaw, err := control.NewPID(10, 0, 10, 1/ups)
		Expect(err).NotTo(HaveOccurred())

		body = newFakeBody(geom.Identity())
		c, err = New(Options{
			Body:             body,
			Pitch:            pitch,
			Yaw:              yaw,
			UpdatesPerSecond: ups,
			SlowdownAngle:    slowdown,
			AlignMode:        AlignTarget,
		})
		Expect(err).NotTo(HaveOccurred())

		gyros = []*fakeGyro{
			newFakeGyro(geom.Identity()),
			newFakeGyro(geom.AxisAngle(r3.Vector{Y: 1}, math.Pi/2)),
		}
		for _, g := range gyros {
			c.AddGyro(g)
		}
		c.SetStatus(On)
	})

	Context("when already aligned", func() {
		It("commands nothing", func() {
			c.SetForwardVector(r3.Vector{Z: -1})
			c.SetUpVector(r3.Vector{Y: 1})
			Expect(c.Tick()).To(BeTrue())

			Expect(c.RotationPYR().Norm()).To(BeNumerically("<", 1e-9))
			Expect(c.RotationSpeedPYR().Norm()).To(BeNumerically("<", 1e-9))
			for _, g := range gyros {
				Expect(g.override).To(BeTrue())
				Expect(g.cmd.Norm()).To(BeNumerically("<", 1e-9))
			}
		})
	})

	Context("with a target a quarter turn to the right", func() {
		BeforeEach(func() {
			c.SetForwardVector(r3.Vector{X: 1})
			c.SetUpVector(r3.Vector{Y: 1})
			c.Tick()
		})

		It("reports a quarter-turn yaw error", func() {
			Expect(c.RotationPYR().Norm()).To(BeNumerically("~", math.Pi/2, 1e-9))
			Expect(c.RotationPYR().Y).To(BeNumerically("~", math.Pi/2, 1e-9))
		})

		It("drives yaw with the controller instead of the coast term", func() {
			// first PID step: Kp*e + Kd*e/dt
			want := 10*math.Pi/2 + 10*(math.Pi/2)*ups
			Expect(c.RotationSpeedPYR().Y).To(BeNumerically("~", want, 1e-9))
			Expect(c.RotationSpeedPYR().X).To(BeNumerically("~", 0, 1e-12))
		})

		It("re-expresses the command in each gyro frame", func() {
			rate := c.RotationSpeedPYR()
			Expect(vecNear(gyros[0].cmd, rate, 1e-9)).To(BeTrue())
			// a yaw command is a yaw command for a gyro yawed about the same axis
			Expect(gyros[1].cmd.Y).To(BeNumerically("~", rate.Y, 1e-9))
		})
	})

	Context("with no up reference and a target straight behind", func() {
		It("reports a half-turn yaw", func() {
			c.SetAlignMode(AlignNone)
			c.SetForwardVector(r3.Vector{Z: 1})
			c.Tick()
			Expect(c.RotationPYR()).To(Equal(r3.Vector{Y: math.Pi}))
		})
	})

	Context("when switched off", func() {
		It("releases every gyro every time", func() {
			c.SetForwardVector(r3.Vector{X: 1})
			c.Tick()

			for i := 0; i < 2; i++ {
				c.SetStatus(Off)
				for _, g := range gyros {
					Expect(g.override).To(BeFalse())
					Expect(g.cmd).To(Equal(geom.Zero))
				}
				c.SetStatus(On)
				c.Tick()
			}
			c.SetStatus(Off)
			c.SetStatus(Off)
			for _, g := range gyros {
				Expect(g.override).To(BeFalse())
			}
		})

		It("ignores ticks", func() {
			c.SetStatus(Off)
			writes := gyros[0].writes
			Expect(c.Tick()).To(BeFalse())
			Expect(gyros[0].writes).To(Equal(writes))
		})
	})

	Context("with a gyro that goes away", func() {
		It("stops writing to it", func() {
			c.SetForwardVector(r3.Vector{X: 1})
			c.Tick()
			gyros[1].closed = true
			writes := gyros[1].writes

			c.Tick()
			c.SetStatus(Off)
			Expect(gyros[1].writes).To(Equal(writes))
			Expect(c.Gyros()).To(Equal(1))
		})
	})

	Context("levelling against gravity", func() {
		It("keeps the heading and drops the pitch", func() {
			body.frame.Orientation = geom.FromForwardUp(r3.Vector{X: 1, Y: 0.5}, r3.Vector{Y: 1})
			body.natural = r3.Vector{Y: -9.81}
			c.SetAlignMode(AlignNatural)
			c.SetAutoLevel(true)
			c.Tick()

			Expect(vecNear(geom.SafeNormalize(c.ForwardVector()), r3.Vector{X: 1}, 1e-9)).To(BeTrue())
			Expect(c.UpVector()).To(Equal(r3.Vector{Y: 9.81}))
		})
	})
})
