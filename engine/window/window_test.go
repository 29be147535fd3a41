package window

import (
	"slices"
	"testing"
)

func TestListenerSetOrderAndRemoval(t *testing.T) {
	s := newListenerSet[func(int)]()
	var calls []string
	unA := s.add(func(v int) { calls = append(calls, "a") })
	s.add(func(v int) { calls = append(calls, "b") })
	unC := s.add(func(v int) { calls = append(calls, "c") })

	for _, fn := range s.snapshot() {
		fn(0)
	}
	if !slices.Equal(calls, []string{"a", "b", "c"}) {
		t.Fatalf("dispatch order = %v", calls)
	}

	unA()
	unA()
	unC()
	if s.len() != 1 {
		t.Fatalf("len = %d, want 1", s.len())
	}
	calls = nil
	for _, fn := range s.snapshot() {
		fn(0)
	}
	if !slices.Equal(calls, []string{"b"}) {
		t.Errorf("dispatch after removal = %v", calls)
	}
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	w := newEngineWindow()
	var first, second int
	var unSecond func()
	w.OnKey(func(uint32) {
		first++
		unSecond()
	})
	unSecond = w.OnKey(func(uint32) { second++ })

	w.emitKey(80)
	w.emitKey(80)
	if first != 2 {
		t.Errorf("first listener ran %d times, want 2", first)
	}
	if second != 1 {
		t.Errorf("removed listener ran %d times, want 1", second)
	}
}

func TestEmitters(t *testing.T) {
	w := newEngineWindow(WithSize(640, 480), WithTitle("test"))
	if w.Width() != 640 || w.Height() != 480 || w.title != "test" {
		t.Fatalf("options not applied: %dx%d %q", w.Width(), w.Height(), w.title)
	}

	var (
		size    [2]int
		pointer [2]float64
		notches float64
		key     uint32
	)
	unsub := []func(){
		w.OnResize(func(width, height int) { size = [2]int{width, height} }),
		w.OnMouseMove(func(x, y float64) { pointer = [2]float64{x, y} }),
		w.OnScroll(func(n float64) { notches = n }),
		w.OnKey(func(k uint32) { key = k }),
	}
	if w.ListenerCount() != 4 {
		t.Fatalf("ListenerCount = %d, want 4", w.ListenerCount())
	}

	w.emitResize(800, 600)
	w.emitMouseMove(12.5, 40)
	w.emitScroll(-1)
	w.emitKey(268)

	if size != [2]int{800, 600} || w.Width() != 800 || w.Height() != 600 {
		t.Errorf("resize = %v, window %dx%d", size, w.Width(), w.Height())
	}
	if pointer != [2]float64{12.5, 40} {
		t.Errorf("pointer = %v", pointer)
	}
	if notches != -1 || key != 268 {
		t.Errorf("scroll = %v key = %v", notches, key)
	}

	for _, u := range unsub {
		u()
	}
	if w.ListenerCount() != 0 {
		t.Errorf("ListenerCount after unsubscribe = %d", w.ListenerCount())
	}
}

func TestWithSizeIgnoresNonPositive(t *testing.T) {
	w := newEngineWindow(WithSize(0, -5), WithMinSize(100, 50))
	if w.Width() != 1280 || w.Height() != 720 {
		t.Errorf("size = %dx%d, want defaults", w.Width(), w.Height())
	}
	if w.minWidth != 100 || w.minHeight != 50 {
		t.Errorf("min size = %dx%d", w.minWidth, w.minHeight)
	}
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	if w.IsRunning() {
		t.Error("window without a platform handle reports running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("surface descriptor without a platform handle")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
	w.RequestClose()
	w.ProcessMessages()
}
