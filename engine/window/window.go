package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Every On* method adds a listener and returns a func that removes it; calling the returned func
// more than once is a no-op.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// OnResize subscribes to framebuffer size changes.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	//
	// Returns:
	//   - func(): removes the listener
	OnResize(callback func(width, height int)) func()

	// OnMouseMove subscribes to pointer movement.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in framebuffer pixels
	//
	// Returns:
	//   - func(): removes the listener
	OnMouseMove(callback func(x, y float64)) func()

	// OnScroll subscribes to mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical wheel delta in notches (positive = up)
	//
	// Returns:
	//   - func(): removes the listener
	OnScroll(callback func(notches float64)) func()

	// OnKey subscribes to key presses and repeats. Escape is handled by the window and closes it.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	//
	// Returns:
	//   - func(): removes the listener
	OnKey(callback func(keyCode uint32)) func()

	// ListenerCount returns the number of subscribed listeners across all events.
	//
	// Returns:
	//   - int: the listener count
	ListenerCount() int

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close destroys the window and releases platform resources. A second call is a no-op.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event listeners.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound the window size during resize.
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	resize    *listenerSet[func(width, height int)]
	mouseMove *listenerSet[func(x, y float64)]
	scroll    *listenerSet[func(notches float64)]
	key       *listenerSet[func(keyCode uint32)]
}

var _ Window = &engineWindow{}

// newEngineWindow applies the defaults and options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-tunnel",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
		resize:    newListenerSet[func(width, height int)](),
		mouseMove: newListenerSet[func(x, y float64)](),
		scroll:    newListenerSet[func(notches float64)](),
		key:       newListenerSet[func(keyCode uint32)](),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) OnResize(callback func(width, height int)) func() {
	return w.resize.add(callback)
}

func (w *engineWindow) OnMouseMove(callback func(x, y float64)) func() {
	return w.mouseMove.add(callback)
}

func (w *engineWindow) OnScroll(callback func(notches float64)) func() {
	return w.scroll.add(callback)
}

func (w *engineWindow) OnKey(callback func(keyCode uint32)) func() {
	return w.key.add(callback)
}

func (w *engineWindow) ListenerCount() int {
	return w.resize.len() + w.mouseMove.len() + w.scroll.len() + w.key.len()
}

// emitResize records the new framebuffer size and notifies listeners.
func (w *engineWindow) emitResize(width, height int) {
	w.width, w.height = width, height
	for _, fn := range w.resize.snapshot() {
		fn(width, height)
	}
}

func (w *engineWindow) emitMouseMove(x, y float64) {
	for _, fn := range w.mouseMove.snapshot() {
		fn(x, y)
	}
}

func (w *engineWindow) emitScroll(notches float64) {
	for _, fn := range w.scroll.snapshot() {
		fn(notches)
	}
}

func (w *engineWindow) emitKey(keyCode uint32) {
	for _, fn := range w.key.snapshot() {
		fn(keyCode)
	}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
