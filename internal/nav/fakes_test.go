package nav

import (
	"github.com/golang/geo/r3"
	"github.com/san-kum/navcom/internal/geom"
)

type fakeBody struct {
	frame      geom.Frame
	natural    r3.Vector
	artificial r3.Vector
}

func newFakeBody(orient geom.Matrix) *fakeBody {
	return &fakeBody{frame: geom.Frame{Orientation: orient}}
}

func (b *fakeBody) Frame() geom.Frame            { return b.frame }
func (b *fakeBody) NaturalGravity() r3.Vector    { return b.natural }
func (b *fakeBody) ArtificialGravity() r3.Vector { return b.artificial }
func (b *fakeBody) TotalGravity() r3.Vector      { return b.natural.Add(b.artificial) }

type fakeGyro struct {
	frame    geom.Frame
	cmd      r3.Vector
	override bool
	closed   bool
	writes   int
}

func newFakeGyro(orient geom.Matrix) *fakeGyro {
	return &fakeGyro{frame: geom.Frame{Orientation: orient}}
}

func (g *fakeGyro) Frame() geom.Frame { return g.frame }
func (g *fakeGyro) Closed() bool      { return g.closed }

func (g *fakeGyro) Override(pyr r3.Vector) {
	g.cmd = pyr
	g.override = true
	g.writes++
}

func (g *fakeGyro) Release() {
	g.cmd = r3.Vector{}
	g.override = false
	g.writes++
}

type fakeThruster struct {
	frame  geom.Frame
	max    float64
	out    float64
	closed bool
}

func newFakeThruster(forward, up r3.Vector, max float64) *fakeThruster {
	return &fakeThruster{frame: geom.Frame{Orientation: geom.FromForwardUp(forward, up)}, max: max}
}

func (t *fakeThruster) Frame() geom.Frame           { return t.frame }
func (t *fakeThruster) MaxThrust() float64          { return t.max }
func (t *fakeThruster) SetThrustOverride(n float64) { t.out = n }
func (t *fakeThruster) Closed() bool                { return t.closed }

// stubController returns a fixed output and records what it was fed.
type stubController struct {
	out   float64
	calls int
	last  float64
}

func (s *stubController) Control(err float64) float64 {
	s.calls++
	s.last = err
	return s.out
}

func vecNear(a, b r3.Vector, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}
