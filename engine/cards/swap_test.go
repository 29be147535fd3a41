package cards

import (
	"slices"
	"testing"
	"time"
)

func TestMakeSlot(t *testing.T) {
	tests := []struct {
		i    int
		want Slot
	}{
		{0, Slot{Y: 0, ZIndex: 3, ScaleY: 1}},
		{1, Slot{Y: -70, ZIndex: 2, ScaleY: 0.88}},
		{2, Slot{Y: -140, ZIndex: 1, ScaleY: 0.76}},
		{5, Slot{Y: -350, ZIndex: -2, ScaleY: 0.5}},
	}
	for _, tt := range tests {
		got := MakeSlot(tt.i, 70, 3)
		if !near(got.Y, tt.want.Y) || !near(got.ZIndex, tt.want.ZIndex) || !near(got.ScaleY, tt.want.ScaleY) {
			t.Errorf("MakeSlot(%d) = %+v, want %+v", tt.i, got, tt.want)
		}
	}
}

func checkSlots(t *testing.T, s Swap) {
	t.Helper()
	cards := s.Cards()
	for pos, idx := range s.Order() {
		slot := MakeSlot(pos, 70, len(cards))
		c := cards[idx]
		if !near(c.Y, slot.Y) || !near(c.ZIndex, slot.ZIndex) || !near(c.ScaleY, slot.ScaleY) {
			t.Errorf("card %d at position %d = %+v, want %+v", idx, pos, c, slot)
		}
	}
}

func TestSwapCycle(t *testing.T) {
	s := NewSwap(3, WithDelay(5*time.Second))
	checkSlots(t, s)

	s.Advance(500 * time.Millisecond)
	if got := s.Order(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("order before first swap = %v", got)
	}

	s.Advance(500 * time.Millisecond)
	s.Advance(3 * time.Second)
	if got := s.Order(); !slices.Equal(got, []int{1, 2, 0}) {
		t.Fatalf("order after first swap = %v", got)
	}
	checkSlots(t, s)

	// Clock is at 4s; the next swap is due at 6s.
	s.Advance(2 * time.Second)
	s.Advance(3 * time.Second)
	if got := s.Order(); !slices.Equal(got, []int{2, 0, 1}) {
		t.Fatalf("order after second swap = %v", got)
	}
	checkSlots(t, s)
}

func TestSwapLabels(t *testing.T) {
	tests := []struct {
		name            string
		preset          Preset
		promote, ret      float64
	}{
		{name: "elastic", preset: ElasticPreset(), promote: 0.2, ret: 0.3},
		{name: "smooth", preset: SmoothPreset(), promote: 0.44, ret: 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSwap(3, WithPreset(tt.preset)).(*swapImpl)
			s.SwapNow()
			promote, ok := s.current.LabelTime("promote")
			if !ok || !near(promote, tt.promote) {
				t.Errorf("promote = %v (%v), want %v", promote, ok, tt.promote)
			}
			ret, ok := s.current.LabelTime("return")
			if !ok || !near(ret, tt.ret) {
				t.Errorf("return = %v (%v), want %v", ret, ok, tt.ret)
			}
		})
	}
}

func TestPresetByName(t *testing.T) {
	if p := PresetByName("smooth"); p.DurDrop != 0.8 {
		t.Errorf("smooth DurDrop = %v", p.DurDrop)
	}
	if p := PresetByName("unknown"); p.DurDrop != 2 {
		t.Errorf("fallback DurDrop = %v", p.DurDrop)
	}
}

func TestSwapPauseResume(t *testing.T) {
	s := NewSwap(3, WithDelay(5*time.Second))

	// Pause in the middle of the first swap.
	s.Advance(time.Second)
	s.Advance(time.Second)
	s.Pause()
	if !s.Paused() {
		t.Fatal("not paused")
	}
	s.Advance(10 * time.Second)
	if got := s.Order(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("swap finished while paused: %v", got)
	}

	s.Resume()
	s.Advance(2 * time.Second)
	if got := s.Order(); !slices.Equal(got, []int{1, 2, 0}) {
		t.Fatalf("order after resume = %v", got)
	}
	checkSlots(t, s)

	// Resume restarted the interval at 2s, so the next swap is due at 7s.
	s.Advance(2 * time.Second)
	if impl := s.(*swapImpl); len(impl.running) != 0 {
		t.Errorf("swap started early: %d running", len(impl.running))
	}
	s.Advance(time.Second)
	if impl := s.(*swapImpl); len(impl.running) != 1 {
		t.Errorf("running swaps = %d, want 1", len(impl.running))
	}
}

func TestSwapFewerThanTwoCards(t *testing.T) {
	s := NewSwap(1)
	before := s.Cards()
	s.SwapNow()
	s.Advance(10 * time.Second)
	if !slices.Equal(s.Order(), []int{0}) || s.Cards()[0] != before[0] {
		t.Errorf("single card moved: %+v", s.Cards())
	}
}

func TestSwapKill(t *testing.T) {
	s := NewSwap(3)
	s.Advance(time.Second)
	s.Kill()
	before := s.Cards()
	s.Advance(5 * time.Second)
	s.SwapNow()
	if !slices.Equal(s.Cards(), before) {
		t.Error("killed carousel kept animating")
	}
}
