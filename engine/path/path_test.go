package path

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var tunnelTriples = [][3]float64{
	{10, 89, 0}, {50, 88, 10}, {76, 139, 20}, {126, 141, 12}, {150, 112, 8},
	{157, 73, 0}, {180, 44, 5}, {207, 35, 10}, {232, 36, 0},
}

func tunnelPath(t *testing.T, options ...PathBuilderOption) Path {
	t.Helper()
	pts, err := FromTriples(tunnelTriples, "xzy")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPath(pts, options...)
	if err != nil {
		t.Fatalf("NewPath() error = %v", err)
	}
	return p
}

func near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func TestNewPathTooFewPoints(t *testing.T) {
	for _, pts := range [][]mgl64.Vec3{nil, {{1, 2, 3}}} {
		_, err := NewPath(pts)
		if !errors.Is(err, ErrTooFewPoints) {
			t.Errorf("NewPath(%d points) error = %v, want ErrTooFewPoints", len(pts), err)
		}
	}
}

func TestNewPathRejectsBadOptions(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}
	if _, err := NewPath(pts, WithArcDivisions(0)); err == nil {
		t.Error("NewPath() with zero arc divisions returned nil error")
	}
	if _, err := NewPath(pts, WithCurveType(CurveType(9))); err == nil {
		t.Error("NewPath() with an unknown curve type returned nil error")
	}
}

func TestFromTriplesAxisOrder(t *testing.T) {
	got, err := FromTriples([][3]float64{{10, 89, 0}}, "xzy")
	if err != nil {
		t.Fatal(err)
	}
	if want := (mgl64.Vec3{10, 0, 89}); got[0] != want {
		t.Errorf("FromTriples xzy = %v, want %v", got[0], want)
	}
	if _, err := FromTriples(tunnelTriples, "yxz"); err == nil {
		t.Error("FromTriples() with unknown order returned nil error")
	}
	if got := ReorderXZY([][3]float64{{50, 88, 10}}); got[0] != (mgl64.Vec3{50, 10, 88}) {
		t.Errorf("ReorderXZY = %v", got[0])
	}
}

func TestPositionAtEndpoints(t *testing.T) {
	for _, ct := range []CurveType{CatmullRom, Centripetal, Chordal} {
		t.Run(ct.String(), func(t *testing.T) {
			p := tunnelPath(t, WithCurveType(ct))
			if got, want := p.PositionAt(0), (mgl64.Vec3{10, 0, 89}); !near(got, want, 1e-9) {
				t.Errorf("PositionAt(0) = %v, want %v", got, want)
			}
			if got, want := p.PositionAt(1), (mgl64.Vec3{232, 0, 36}); !near(got, want, 1e-9) {
				t.Errorf("PositionAt(1) = %v, want %v", got, want)
			}
		})
	}
}

func TestPositionAtClampsOutOfRange(t *testing.T) {
	p := tunnelPath(t)
	end := p.PositionAt(1)
	start := p.PositionAt(0)
	for _, u := range []float64{1.0000001, 1.03, 1.5, 42, math.Inf(1)} {
		if got := p.PositionAt(u); got != end {
			t.Errorf("PositionAt(%v) = %v, want PositionAt(1) = %v", u, got, end)
		}
	}
	for _, u := range []float64{-0.2, math.Inf(-1), math.NaN()} {
		if got := p.PositionAt(u); got != start {
			t.Errorf("PositionAt(%v) = %v, want PositionAt(0) = %v", u, got, start)
		}
	}
}

func TestPositionAtCeilingPlusLookahead(t *testing.T) {
	p := tunnelPath(t)
	got := p.PositionAt(0.96 + 0.03)
	for i := range 3 {
		if math.IsNaN(got[i]) || math.IsInf(got[i], 0) {
			t.Fatalf("PositionAt(0.99) = %v, not finite", got)
		}
	}
	// The last 1% of arc length lies within the last percent of the total length from the end.
	if d := got.Sub(p.PositionAt(1)).Len(); d > 0.011*p.Length() {
		t.Errorf("PositionAt(0.99) is %v from the end, path length %v", d, p.Length())
	}
}

func TestPositionAtIsArcLengthUniform(t *testing.T) {
	p := tunnelPath(t, WithArcDivisions(1000))
	const steps = 20
	step := p.Length() / steps
	prev := p.PositionAt(0)
	for i := 1; i <= steps; i++ {
		cur := p.PositionAt(float64(i) / steps)
		// chord <= arc, and at this resolution the chord of a 1/20 arc is close to it
		d := cur.Sub(prev).Len()
		if d > step*1.001 || d < step*0.9 {
			t.Errorf("segment %d chord = %v, want about %v", i, d, step)
		}
		prev = cur
	}
}

func TestPositionAtDeterministic(t *testing.T) {
	a := tunnelPath(t)
	b := tunnelPath(t)
	for _, u := range []float64{0, 0.1, 0.33, 0.5, 0.96, 0.99, 1} {
		if a.PositionAt(u) != b.PositionAt(u) {
			t.Errorf("PositionAt(%v) differs between identical paths", u)
		}
		if a.PositionAt(u) != a.PositionAt(u) {
			t.Errorf("PositionAt(%v) differs between calls", u)
		}
	}
}

func TestStraightLine(t *testing.T) {
	p, err := NewPath([]mgl64.Vec3{{0, 0, 0}, {10, 0, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.Length()-10) > 1e-9 {
		t.Errorf("Length() = %v, want 10", p.Length())
	}
	if got := p.PositionAt(0.25); !near(got, mgl64.Vec3{2.5, 0, 0}, 1e-6) {
		t.Errorf("PositionAt(0.25) = %v, want (2.5, 0, 0)", got)
	}
	if got := p.TangentAt(0.5); !near(got, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("TangentAt(0.5) = %v, want +X", got)
	}
}

func TestTangentAtIsUnit(t *testing.T) {
	p := tunnelPath(t)
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if l := p.TangentAt(u).Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("|TangentAt(%v)| = %v, want 1", u, l)
		}
	}
}

func TestFrenetFramesOrthonormal(t *testing.T) {
	p := tunnelPath(t)
	f := p.FrenetFrames(50)
	if len(f.Tangents) != 51 || len(f.Normals) != 51 || len(f.Binormals) != 51 {
		t.Fatalf("frame lengths = %d/%d/%d, want 51", len(f.Tangents), len(f.Normals), len(f.Binormals))
	}
	for i := range f.Tangents {
		tn, n, b := f.Tangents[i], f.Normals[i], f.Binormals[i]
		if math.Abs(tn.Dot(n)) > 1e-6 || math.Abs(tn.Dot(b)) > 1e-6 || math.Abs(n.Dot(b)) > 1e-6 {
			t.Errorf("frame %d not orthogonal: t.n=%v t.b=%v n.b=%v", i, tn.Dot(n), tn.Dot(b), n.Dot(b))
		}
		if math.Abs(n.Len()-1) > 1e-6 || math.Abs(b.Len()-1) > 1e-6 {
			t.Errorf("frame %d not unit: |n|=%v |b|=%v", i, n.Len(), b.Len())
		}
	}
}

func TestControlPointsIsACopy(t *testing.T) {
	p := tunnelPath(t)
	pts := p.ControlPoints()
	pts[0] = mgl64.Vec3{-1, -1, -1}
	if p.PositionAt(0) != (mgl64.Vec3{10, 0, 89}) {
		t.Error("mutating ControlPoints() changed the path")
	}
}

func TestParseCurveType(t *testing.T) {
	tests := []struct {
		in      string
		want    CurveType
		wantErr bool
	}{
		{"catmullrom", CatmullRom, false},
		{"Centripetal", Centripetal, false},
		{"chordal", Chordal, false},
		{"", CatmullRom, false},
		{"bezier", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCurveType(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseCurveType(%q) = %v, %v", tt.in, got, err)
		}
	}
}
