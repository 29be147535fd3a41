package input

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestHandlePointerCorners(t *testing.T) {
	a := NewAggregator(WithViewport(1000, 800))

	a.HandlePointer(0, 0)
	got := a.Targets()
	if !approx(got.RotationYTarget, 3.24) || !approx(got.RotationZTarget, -0.1) {
		t.Errorf("pointer (0,0) targets = (%v, %v), want (3.24, -0.1)", got.RotationYTarget, got.RotationZTarget)
	}

	a.HandlePointer(1000, 800)
	got = a.Targets()
	if !approx(got.RotationYTarget, 3.04) || !approx(got.RotationZTarget, 0.1) {
		t.Errorf("pointer (1000,800) targets = (%v, %v), want (3.04, 0.1)", got.RotationYTarget, got.RotationZTarget)
	}
}

func TestHandlePointerClamps(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantY, wantZ float64
	}{
		{"left of viewport", -500, 400, 3.24, 0},
		{"right of viewport", 5000, 400, 3.04, 0},
		{"above viewport", 500, -1, 3.14, -0.1},
		{"below viewport", 500, 1e9, 3.14, 0.1},
		{"center", 500, 400, 3.14, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAggregator(WithViewport(1000, 800))
			a.HandlePointer(tt.x, tt.y)
			got := a.Targets()
			if math.Abs(got.RotationYTarget-tt.wantY) > 1e-9 || math.Abs(got.RotationZTarget-tt.wantZ) > 1e-9 {
				t.Errorf("targets = (%v, %v), want (%v, %v)", got.RotationYTarget, got.RotationZTarget, tt.wantY, tt.wantZ)
			}
		})
	}
}

func TestSetViewportChangesDomain(t *testing.T) {
	a := NewAggregator(WithViewport(1000, 800))
	a.SetViewport(2000, 1600)
	a.HandlePointer(1000, 800)
	got := a.Targets()
	if math.Abs(got.RotationYTarget-3.14) > 1e-9 || math.Abs(got.RotationZTarget) > 1e-9 {
		t.Errorf("targets after resize = (%v, %v), want (3.14, 0)", got.RotationYTarget, got.RotationZTarget)
	}
	a.SetViewport(0, -1)
	a.HandlePointer(2000, 1600)
	got = a.Targets()
	if !approx(got.RotationYTarget, 3.04) {
		t.Errorf("non-positive viewport should be ignored, yaw = %v", got.RotationYTarget)
	}
}

func TestHandleScrollBound(t *testing.T) {
	a := NewAggregator()
	for i := 0; i <= 100; i++ {
		s := float64(i) / 100
		a.HandleScroll(s)
		got := a.Targets().PathParamTarget
		if math.Abs(got-0.96*s) > 1e-12 {
			t.Fatalf("HandleScroll(%v) target = %v, want %v", s, got, 0.96*s)
		}
		if got < 0 || got > 0.96 {
			t.Fatalf("HandleScroll(%v) target %v outside [0, 0.96]", s, got)
		}
	}
}

func TestHandleScrollJumpToEnd(t *testing.T) {
	a := NewAggregator()
	a.HandleScroll(0)
	a.HandleScroll(1)
	if got := a.Targets().PathParamTarget; got != 0.96 {
		t.Errorf("target after jump = %v, want exactly 0.96", got)
	}
	a.HandleScroll(3)
	if got := a.Targets().PathParamTarget; got != 0.96 {
		t.Errorf("target after overscroll = %v, want 0.96", got)
	}
}

func TestInitialTargets(t *testing.T) {
	a := NewAggregator()
	if got := a.Targets(); got.RotationYTarget != 3.14159 || got.RotationZTarget != 0 || got.PathParamTarget != 0 {
		t.Errorf("initial targets = %+v", got)
	}
	b := NewAggregator(WithInitialTargets(1, 2), WithScrubCeiling(0.5))
	b.HandleScroll(1)
	if got := b.Targets(); got.RotationYTarget != 1 || got.RotationZTarget != 2 || got.PathParamTarget != 0.5 {
		t.Errorf("configured targets = %+v", got)
	}
}

func TestKillStopsScroll(t *testing.T) {
	a := NewAggregator()
	a.HandleScroll(0.5)
	a.Kill()
	a.HandleScroll(1)
	if got := a.Targets().PathParamTarget; !approx(got, 0.48) {
		t.Errorf("target after Kill = %v, want it frozen at 0.48", got)
	}
}
