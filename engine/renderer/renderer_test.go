package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeSurface struct {
	width, height int
}

func (f *fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (f *fakeSurface) Width() int                                 { return f.width }
func (f *fakeSurface) Height() int                                { return f.height }

type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	uploads     int
	draws       int
	releases    int

	configureErr error
	uploadErr    error
	drawErr      error
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.configured = append(f.configured, [2]int{width, height})
	return f.configureErr
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }

func (f *fakeBackend) UploadScene(scene.Scene) error {
	f.uploads++
	return f.uploadErr
}

func (f *fakeBackend) DrawFrame(scene.Scene) error {
	f.draws++
	return f.drawErr
}

func (f *fakeBackend) Release() error {
	f.releases++
	return nil
}

func newTestRenderer(surface *fakeSurface, backend *fakeBackend, opts ...RendererBuilderOption) Renderer {
	factory := withBackendFactory(func() (RendererBackend, error) { return backend, nil })
	return NewRenderer(BackendTypeWGPU, surface, append(opts, factory)...)
}

func testScene(t *testing.T) scene.Scene {
	t.Helper()
	cfg := config.Default()
	cfg.Tube.TubularSegments = 20
	cfg.Tube.RadialSegments = 6
	cfg.Wireframe.TubularSegments = 10
	cfg.Wireframe.RadialSegments = 6
	cfg.Particles.Count = 30
	cfg.Tube.ProceduralSize = 16
	p, err := scene.BuildPath(cfg.Path)
	if err != nil {
		t.Fatalf("BuildPath: %v", err)
	}
	s, err := scene.Build(cfg, p, scene.WithViewport(800, 600))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestRenderBeforeInit(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(&fakeSurface{width: 800, height: 600}, backend)

	if err := r.Render(testScene(t)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Render before Init = %v, want ErrNotReady", err)
	}
	if backend.draws != 0 {
		t.Error("backend drew before Init")
	}
	if err := r.Dispose(); err != nil {
		t.Errorf("Dispose before Init = %v", err)
	}
}

func TestInitRenderDispose(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(&fakeSurface{width: 800, height: 600}, backend, WithPresentMode(PresentModeUncapped))
	s := testScene(t)

	if err := r.Init(s); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := r.Init(s); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if backend.uploads != 1 {
		t.Errorf("uploads = %d, want 1", backend.uploads)
	}
	if len(backend.configured) != 1 || backend.configured[0] != [2]int{800, 600} {
		t.Errorf("configured = %v", backend.configured)
	}
	if backend.presentMode != PresentModeUncapped {
		t.Errorf("present mode = %v", backend.presentMode)
	}
	if !r.Ready() {
		t.Fatal("renderer not ready after Init")
	}

	for range 3 {
		if err := r.Render(s); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if backend.draws != 3 {
		t.Errorf("draws = %d, want 3", backend.draws)
	}

	if err := r.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := r.Dispose(); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}
	if backend.releases != 1 {
		t.Errorf("releases = %d, want 1", backend.releases)
	}
	if err := r.Render(s); !errors.Is(err, ErrNotReady) {
		t.Errorf("Render after Dispose = %v, want ErrNotReady", err)
	}
}

func TestResize(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(&fakeSurface{}, backend)
	s := testScene(t)

	if err := r.Init(s); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.Ready() || len(backend.configured) != 0 {
		t.Fatal("zero-size surface should not be configured")
	}
	if err := r.Render(s); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Render with zero size = %v", err)
	}

	r.Resize(640, 480)
	if !r.Ready() {
		t.Fatal("not ready after resize")
	}
	r.Resize(0, 480)
	if r.Ready() {
		t.Error("ready with zero width")
	}

	backend.configureErr = errors.New("lost surface")
	r.Resize(1024, 768)
	if r.Ready() {
		t.Error("ready after failed configure")
	}
	backend.configureErr = nil
	r.Resize(1024, 768)
	if !r.Ready() {
		t.Error("not ready after successful configure")
	}

	want := [][2]int{{640, 480}, {1024, 768}, {1024, 768}}
	if len(backend.configured) != len(want) {
		t.Fatalf("configured = %v, want %v", backend.configured, want)
	}
	for i := range want {
		if backend.configured[i] != want[i] {
			t.Errorf("configure %d = %v, want %v", i, backend.configured[i], want[i])
		}
	}
}

func TestInitFailureReleasesBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
	}{
		{"configure", &fakeBackend{configureErr: errors.New("configure")}},
		{"upload", &fakeBackend{uploadErr: errors.New("upload")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(&fakeSurface{width: 10, height: 10}, tt.backend)
			if err := r.Init(testScene(t)); err == nil {
				t.Fatal("expected Init to fail")
			}
			if tt.backend.releases != 1 {
				t.Errorf("releases = %d, want 1", tt.backend.releases)
			}
			if r.Ready() {
				t.Error("ready after failed Init")
			}
			if err := r.Dispose(); err != nil || tt.backend.releases != 1 {
				t.Errorf("Dispose after failed Init released again (%v)", err)
			}
		})
	}
}

func TestInitFactoryError(t *testing.T) {
	r := NewRenderer(BackendTypeWGPU, &fakeSurface{width: 1, height: 1},
		withBackendFactory(func() (RendererBackend, error) { return nil, errors.New("no adapter") }))
	if err := r.Init(testScene(t)); err == nil {
		t.Fatal("expected factory error")
	}
	if err := r.Init(nil); err == nil {
		t.Error("Init(nil) should fail")
	}
}

func TestDescribePipelines(t *testing.T) {
	pipelines, err := describePipelines(MSAA4x, wgpu.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("describePipelines: %v", err)
	}

	tests := []struct {
		key       string
		groups    int
		entries   []int
		samples   uint32
		blend     string
		hasDepth  bool
		targetFmt wgpu.TextureFormat
	}{
		{pipelineTube, 2, []int{4, 3}, 4, "opaque", true, sceneColorFormat},
		{pipelineWire, 2, []int{3, 1}, 4, "alpha", true, sceneColorFormat},
		{pipelineParticles, 2, []int{5, 1}, 4, "additive", true, sceneColorFormat},
		{pipelineBright, 1, []int{3}, 1, "opaque", false, sceneColorFormat},
		{pipelineBlur, 1, []int{3}, 1, "opaque", false, sceneColorFormat},
		{pipelineComposite, 1, []int{4}, 1, "opaque", false, wgpu.TextureFormatBGRA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, ok := pipelines[tt.key]
			if !ok {
				t.Fatalf("pipeline %q missing", tt.key)
			}
			s := p.Shader()
			if s.GroupCount() != tt.groups {
				t.Fatalf("groups = %d, want %d", s.GroupCount(), tt.groups)
			}
			for g, n := range tt.entries {
				if got := len(s.BindGroupLayoutDescriptor(g).Entries); got != n {
					t.Errorf("group %d entries = %d, want %d", g, got, n)
				}
			}
			d := p.Descriptor(nil, nil)
			if d.Multisample.Count != tt.samples {
				t.Errorf("samples = %d, want %d", d.Multisample.Count, tt.samples)
			}
			if (d.DepthStencil != nil) != tt.hasDepth {
				t.Errorf("depth attachment = %v, want %v", d.DepthStencil != nil, tt.hasDepth)
			}
			if d.Fragment.Targets[0].Format != tt.targetFmt {
				t.Errorf("target format = %v", d.Fragment.Targets[0].Format)
			}
			blend := map[string]bool{
				"opaque":   d.Fragment.Targets[0].Blend == nil,
				"alpha":    d.Fragment.Targets[0].Blend != nil && d.Fragment.Targets[0].Blend.Color.DstFactor == wgpu.BlendFactorOneMinusSrcAlpha,
				"additive": d.Fragment.Targets[0].Blend != nil && d.Fragment.Targets[0].Blend.Color.DstFactor == wgpu.BlendFactorOne,
			}
			if !blend[tt.blend] {
				t.Errorf("blend state does not match %s", tt.blend)
			}
		})
	}

	if pipelines[pipelineTube].CullMode() != wgpu.CullModeFront {
		t.Error("tube should cull front faces")
	}
	if pipelines[pipelineWire].Topology() != wgpu.PrimitiveTopologyLineList {
		t.Error("wire should draw a line list")
	}
	particles := pipelines[pipelineParticles].Descriptor(nil, nil)
	if particles.Vertex.Buffers[0].StepMode != wgpu.VertexStepModeInstance {
		t.Error("particle centers should step per instance")
	}
}

func TestGPUTypeSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"scene params", (&GPUSceneParams{}).Size(), 32},
		{"tube params", (&GPUTubeParams{}).Size(), 32},
		{"color params", (&GPUColorParams{}).Size(), 16},
		{"bloom params", (&GPUBloomParams{}).Size(), 32},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s size = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestNewFrameUniforms(t *testing.T) {
	s := testScene(t)
	s.Animate()
	frame := newFrameUniforms(s)

	if len(frame.camera) != 144 {
		t.Errorf("camera bytes = %d, want 144", len(frame.camera))
	}
	if len(frame.lights) != light.LightBufferSize() {
		t.Errorf("light bytes = %d, want %d", len(frame.lights), light.LightBufferSize())
	}
	if count := binary.LittleEndian.Uint32(frame.lights[12:]); count != 1 {
		t.Errorf("light count = %d, want 1", count)
	}

	fog := s.Fog()
	if got := float32At(frame.scene, 12); got != fog.Near {
		t.Errorf("fog near = %v, want %v", got, fog.Near)
	}
	if got := float32At(frame.scene, 16); got != fog.Far {
		t.Errorf("fog far = %v, want %v", got, fog.Far)
	}

	mat := s.TubeMaterial()
	if got := float32At(frame.tube, 12); got != mat.Shininess {
		t.Errorf("shininess = %v, want %v", got, mat.Shininess)
	}
	if got := float32At(frame.tube, 16); got != s.TextureOffset()[0] || got == 0 {
		t.Errorf("uv offset x = %v, want the animated offset %v", got, s.TextureOffset()[0])
	}
	if got := float32At(frame.tube, 24); got != mat.Repeat[0] {
		t.Errorf("uv repeat x = %v, want %v", got, mat.Repeat[0])
	}
	if got := float32At(frame.line, 12); got != s.WireframeStyle().Opacity {
		t.Errorf("line opacity = %v", got)
	}
	if got := float32At(frame.point, 12); got != s.PointStyle().Size {
		t.Errorf("point size = %v", got)
	}
}

func TestBloomPasses(t *testing.T) {
	passes := bloomPasses(scene.Bloom{Threshold: 0.2, Strength: 0.9, Radius: 0.5}, 800, 600, true)

	if passes[passBright].TexelSize != [2]float32{1.0 / 800, 1.0 / 600} {
		t.Errorf("bright texel = %v", passes[passBright].TexelSize)
	}
	if passes[passBlurH].TexelSize != [2]float32{1.0 / 400, 1.0 / 300} {
		t.Errorf("blur texel = %v", passes[passBlurH].TexelSize)
	}
	if passes[passBlurH].Direction != [2]float32{1, 0} || passes[passBlurV].Direction != [2]float32{0, 1} {
		t.Errorf("blur directions = %v, %v", passes[passBlurH].Direction, passes[passBlurV].Direction)
	}
	if passes[passComposite].Direction != [2]float32{} {
		t.Errorf("composite direction = %v", passes[passComposite].Direction)
	}
	for i, p := range passes {
		if p.Threshold != 0.2 || p.Strength != 0.9 || p.Spread != 3 || p.EncodeSRGB != 1 {
			t.Errorf("pass %d = %+v", i, p)
		}
	}

	tiny := bloomPasses(scene.Bloom{}, 1, 1, false)
	if tiny[passBlurH].TexelSize != [2]float32{1, 1} || tiny[passBlurH].EncodeSRGB != 0 {
		t.Errorf("1x1 blur pass = %+v", tiny[passBlurH])
	}
}

func TestIsSRGB(t *testing.T) {
	tests := []struct {
		format wgpu.TextureFormat
		want   bool
	}{
		{wgpu.TextureFormatBGRA8UnormSrgb, true},
		{wgpu.TextureFormatRGBA8UnormSrgb, true},
		{wgpu.TextureFormatBGRA8Unorm, false},
		{wgpu.TextureFormatRGBA16Float, false},
	}
	for _, tt := range tests {
		if got := isSRGB(tt.format); got != tt.want {
			t.Errorf("isSRGB(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}
