package scroll

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scheduler"
)

func newTestObserver(sched scheduler.Scheduler) Observer {
	// 1000px viewport, 5 pages: scrollable range is [0, 4000].
	return NewObserver(sched, WithViewportHeight(1000), WithPages(5), WithLineHeight(100))
}

func TestRawProgressFollowsScroll(t *testing.T) {
	o := newTestObserver(nil)
	var got []float64
	sub := o.Observe(func(p float64) { got = append(got, p) })

	if o.MaxScroll() != 4000 {
		t.Fatalf("MaxScroll() = %v, want 4000", o.MaxScroll())
	}
	o.ScrollTo(1000)
	o.ScrollTo(4000)
	o.ScrollTo(9000)
	o.ScrollTo(-50)

	want := []float64{0, 0.25, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("updates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("update %d = %v, want %v", i, got[i], want[i])
		}
	}
	if sub.Progress() != 0 {
		t.Errorf("Progress() = %v, want 0", sub.Progress())
	}
}

func TestJumpToEndDeliversExactlyOne(t *testing.T) {
	o := newTestObserver(nil)
	var last float64
	o.Observe(func(p float64) { last = p })
	o.ScrollTo(o.MaxScroll())
	if last != 1 {
		t.Errorf("progress at the bottom = %v, want exactly 1", last)
	}
}

func TestWheelAndKeys(t *testing.T) {
	tests := []struct {
		name  string
		apply func(o Observer)
		want  float64
	}{
		{"wheel down", func(o Observer) { o.HandleWheel(-3) }, 300},
		{"wheel up clamps", func(o Observer) { o.HandleWheel(2) }, 0},
		{"arrow down", func(o Observer) { o.HandleKey(common.KeyDown) }, 100},
		{"page down", func(o Observer) { o.HandleKey(common.KeyPageDown) }, 1000},
		{"space", func(o Observer) { o.HandleKey(common.KeySpace) }, 1000},
		{"end", func(o Observer) { o.HandleKey(common.KeyEnd) }, 4000},
		{"end then home", func(o Observer) { o.HandleKey(common.KeyEnd); o.HandleKey(common.KeyHome) }, 0},
		{"end then page up", func(o Observer) { o.HandleKey(common.KeyEnd); o.HandleKey(common.KeyPageUp) }, 3000},
		{"unrelated key", func(o Observer) { o.HandleKey(common.KeyP) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestObserver(nil)
			tt.apply(o)
			if o.ScrollY() != tt.want {
				t.Errorf("ScrollY() = %v, want %v", o.ScrollY(), tt.want)
			}
		})
	}
}

func TestCustomTrigger(t *testing.T) {
	o := newTestObserver(nil)
	var last float64
	o.Observe(func(p float64) { last = p }, WithTrigger(1000, 2000))
	o.ScrollTo(500)
	if last != 0 {
		t.Errorf("before trigger = %v, want 0", last)
	}
	o.ScrollTo(1500)
	if last != 0.5 {
		t.Errorf("mid trigger = %v, want 0.5", last)
	}
	o.ScrollTo(3000)
	if last != 1 {
		t.Errorf("past trigger = %v, want 1", last)
	}
}

func TestSetViewportReclamps(t *testing.T) {
	o := newTestObserver(nil)
	var last float64
	o.Observe(func(p float64) { last = p })
	o.ScrollTo(4000)
	o.SetViewport(500) // scrollable range becomes [0, 2000]
	if o.ScrollY() != 2000 {
		t.Errorf("ScrollY() = %v, want 2000", o.ScrollY())
	}
	if last != 1 {
		t.Errorf("progress = %v, want 1", last)
	}
	o.SetViewport(0)
	if o.MaxScroll() != 2000 {
		t.Errorf("zero viewport should be ignored, MaxScroll() = %v", o.MaxScroll())
	}
}

func TestScrubSmoothsAndSettles(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := newTestObserver(sched)
	var updates []float64
	o.Observe(func(p float64) { updates = append(updates, p) }, WithScrub(1))

	o.ScrollTo(o.MaxScroll())
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want one tick queued", sched.Pending())
	}

	sched.Pump(0)
	first := updates[len(updates)-1]
	if first <= 0 || first >= 1 {
		t.Fatalf("first smoothed value = %v, want strictly between 0 and 1", first)
	}

	for range 600 {
		sched.Pump(0)
	}
	for i := 1; i < len(updates); i++ {
		if updates[i] < updates[i-1] {
			t.Fatalf("critically damped progress decreased: %v then %v", updates[i-1], updates[i])
		}
	}
	if last := updates[len(updates)-1]; last != 1 {
		t.Errorf("settled progress = %v, want exactly 1", last)
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after settling, want 0", sched.Pending())
	}
}

func TestScrubTakesAboutScrubSeconds(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := newTestObserver(sched)
	var last float64
	o.Observe(func(p float64) { last = p }, WithScrub(1))
	o.ScrollTo(o.MaxScroll())
	for range 30 { // half a second at 60 fps
		sched.Pump(0)
	}
	if last < 0.5 || last > 0.99 {
		t.Errorf("progress after 0.5s = %v, want partway", last)
	}
	for range 60 {
		sched.Pump(0)
	}
	if math.Abs(last-1) > 0.05 {
		t.Errorf("progress after 1.5s = %v, want within 5%% of 1", last)
	}
}

func TestKill(t *testing.T) {
	sched := scheduler.NewScheduler()
	o := newTestObserver(sched)
	calls := 0
	sub := o.Observe(func(float64) { calls++ }, WithScrub(1))
	calls = 0

	o.ScrollTo(2000)
	sub.Kill()
	sub.Kill()
	if !sub.Killed() {
		t.Error("Killed() = false after Kill")
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after the last subscription died, want 0", sched.Pending())
	}
	sched.Pump(0)
	o.ScrollTo(0)
	if calls != 0 {
		t.Errorf("killed subscription received %d updates", calls)
	}
}

func TestKillAll(t *testing.T) {
	o := newTestObserver(nil)
	calls := 0
	subs := []Subscription{
		o.Observe(func(float64) { calls++ }),
		o.Observe(func(float64) { calls++ }),
		o.Observe(func(float64) { calls++ }),
	}
	calls = 0
	o.KillAll()
	o.KillAll()
	o.ScrollTo(1000)
	if calls != 0 {
		t.Errorf("updates after KillAll = %d", calls)
	}
	for i, s := range subs {
		if !s.Killed() {
			t.Errorf("subscription %d not killed", i)
		}
	}
}
