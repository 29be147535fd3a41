package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/model"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// sceneColorFormat is the HDR format of the scene and bloom targets.
	sceneColorFormat = wgpu.TextureFormatRGBA16Float
	depthFormat      = wgpu.TextureFormatDepth24Plus

	pipelineTube      = "tube"
	pipelineWire      = "wire"
	pipelineParticles = "particles"
	pipelineBright    = "bright"
	pipelineBlur      = "blur"
	pipelineComposite = "composite"
)

// Pass indices into the bloom parameter buffers and post-process providers.
const (
	passBright = iota
	passBlurH
	passBlurV
	passComposite
)

var (
	meshVertexLayout = wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}

	lineVertexLayout = wgpu.VertexBufferLayout{
		ArrayStride: model.GPUPositionSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}},
	}

	// Particle centers advance once per instance; the shader expands each into a quad.
	pointInstanceLayout = wgpu.VertexBufferLayout{
		ArrayStride: model.GPUPositionSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}},
	}
)

// describePipelines builds the pipeline descriptions of every pass. Nothing is created on the GPU.
func describePipelines(sampleCount MSAASampleCount, surfaceFormat wgpu.TextureFormat) (map[string]pipeline.Pipeline, error) {
	samples := pipeline.WithSampleCount(uint32(sampleCount))
	specs := []struct {
		key    string
		source string
		target wgpu.TextureFormat
		opts   []pipeline.PipelineBuilderOption
	}{
		{pipelineTube, tubeShaderSource, sceneColorFormat, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayouts(meshVertexLayout),
			pipeline.WithDepth(depthFormat, true, true),
			pipeline.WithCullMode(wgpu.CullModeFront),
			samples,
		}},
		{pipelineWire, wireShaderSource, sceneColorFormat, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayouts(lineVertexLayout),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithDepth(depthFormat, true, true),
			pipeline.WithBlend(pipeline.BlendAlpha),
			samples,
		}},
		{pipelineParticles, particlesShaderSource, sceneColorFormat, []pipeline.PipelineBuilderOption{
			pipeline.WithVertexLayouts(pointInstanceLayout),
			pipeline.WithDepth(depthFormat, true, true),
			pipeline.WithBlend(pipeline.BlendAdditive),
			samples,
		}},
		{pipelineBright, brightShaderSource, sceneColorFormat, nil},
		{pipelineBlur, blurShaderSource, sceneColorFormat, nil},
		{pipelineComposite, compositeShaderSource, surfaceFormat, nil},
	}

	pipelines := make(map[string]pipeline.Pipeline, len(specs))
	for _, spec := range specs {
		s, err := shader.NewShader(spec.key, spec.source, shader.WithSnippets(snippets()))
		if err != nil {
			return nil, fmt.Errorf("shader %s: %w", spec.key, err)
		}
		pipelines[spec.key] = pipeline.NewPipeline(spec.key, s, spec.target, spec.opts...)
	}
	return pipelines, nil
}

// isSRGB reports whether the hardware encodes to sRGB when writing the format.
func isSRGB(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}

// drawable is one uploaded model.
type drawable struct {
	model  model.Model
	vertex *wgpu.Buffer
	index  *wgpu.Buffer
	// count is the index count of a mesh, the vertex count of lines, or the instance count of points.
	count  uint32
	object bind_group_provider.BindGroupProvider
}

// sceneResources holds everything uploaded for one scene.
type sceneResources struct {
	cameraBuf, lightBuf, paramsBuf, tubeBuf, lineBuf, pointBuf *wgpu.Buffer

	tubeGlobals  bind_group_provider.BindGroupProvider
	wireGlobals  bind_group_provider.BindGroupProvider
	pointGlobals bind_group_provider.BindGroupProvider

	tube   *drawable
	wire   *drawable
	clouds []*drawable

	buffers  []*wgpu.Buffer
	textures []*wgpu.Texture
	views    []*wgpu.TextureView
}

func (r *sceneResources) providers() []bind_group_provider.BindGroupProvider {
	out := []bind_group_provider.BindGroupProvider{r.tubeGlobals, r.wireGlobals, r.pointGlobals}
	for _, d := range append([]*drawable{r.tube, r.wire}, r.clouds...) {
		if d != nil {
			out = append(out, d.object)
		}
	}
	return out
}

func (r *sceneResources) release() {
	for _, p := range r.providers() {
		if p != nil {
			p.Release()
		}
	}
	for _, v := range r.views {
		v.Release()
	}
	for _, t := range r.textures {
		t.Release()
	}
	for _, b := range r.buffers {
		b.Release()
	}
	*r = sceneResources{}
}

// renderTargets are the size-dependent textures, recreated on every resize.
type renderTargets struct {
	width, height int

	textures []*wgpu.Texture
	views    []*wgpu.TextureView

	msaaView   *wgpu.TextureView
	colorView  *wgpu.TextureView
	depthView  *wgpu.TextureView
	bloomAView *wgpu.TextureView
	bloomBView *wgpu.TextureView
}

func (t *renderTargets) release() {
	for _, v := range t.views {
		v.Release()
	}
	for _, tex := range t.textures {
		tex.Release()
	}
	*t = renderTargets{}
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	encodeSRGB    bool

	pipelines     map[string]pipeline.Pipeline
	repeatSampler *wgpu.Sampler
	clampSampler  *wgpu.Sampler

	bloomParams [4]*wgpu.Buffer
	post        [4]bind_group_provider.BindGroupProvider
	targets     *renderTargets
	scene       *sceneResources
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the device for the surface and compiles every pipeline.
// The surface is not configured until ConfigureSurface.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (RendererBackend, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: max(sampleCount, MSAAOff),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("request adapter: %w", err), b.Release())
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Tunnel Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("request device: %w", err), b.Release())
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return nil, errors.Join(errors.New("surface reports no formats"), b.Release())
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.encodeSRGB = !isSRGB(b.surfaceFormat)

	if err := b.createStaticResources(); err != nil {
		return nil, errors.Join(err, b.Release())
	}
	common.Logger().Info("wgpu backend ready", "surfaceFormat", b.surfaceFormat, "fallback", forceFallbackAdapter)
	return b, nil
}

// createStaticResources creates the pipelines, samplers and bloom parameter buffers, none of which
// depend on the surface size or the scene.
func (b *wgpuRendererBackendImpl) createStaticResources() error {
	pipelines, err := describePipelines(b.sampleCount, b.surfaceFormat)
	if err != nil {
		return err
	}
	b.pipelines = make(map[string]pipeline.Pipeline, len(pipelines))
	for key, p := range pipelines {
		if err := p.Create(b.device); err != nil {
			return err
		}
		b.pipelines[key] = p
	}

	if b.repeatSampler, err = b.createSampler("Repeat", common.RepeatSampler); err != nil {
		return err
	}
	if b.clampSampler, err = b.createSampler("Clamp", common.ClampSampler); err != nil {
		return err
	}

	labels := [4]string{"Bright", "Blur H", "Blur V", "Composite"}
	for i := range b.bloomParams {
		buf, err := b.createBuffer(labels[i]+" Params", uint64((&GPUBloomParams{}).Size()), wgpu.BufferUsageUniform)
		if err != nil {
			return err
		}
		b.bloomParams[i] = buf
		// The composite pass reads two textures, which moves its sampler to binding 3.
		samplerBinding := 2
		if i == passComposite {
			samplerBinding = 3
		}
		b.post[i] = bind_group_provider.NewBindGroupProvider(labels[i],
			bind_group_provider.WithBuffer(0, buf),
			bind_group_provider.WithSampler(samplerBinding, b.clampSampler),
		)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) createSampler(label string, staging common.SamplerStagingData) (*wgpu.Sampler, error) {
	return b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   staging.LodMinClamp,
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	})
}

// createBuffer creates a buffer that can be written from the CPU.
func (b *wgpuRendererBackendImpl) createBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("buffer %s: %w", label, err)
	}
	return buf, nil
}

// createTarget creates a render attachment texture and its view.
func (b *wgpuRendererBackendImpl) createTarget(t *renderTargets, label string, width, height int, format wgpu.TextureFormat, samples uint32, sampled bool) (*wgpu.TextureView, error) {
	usage := wgpu.TextureUsageRenderAttachment
	if sampled {
		usage |= wgpu.TextureUsageTextureBinding
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", label, err)
	}
	t.textures = append(t.textures, tex)

	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("texture view %s: %w", label, err)
	}
	t.views = append(t.views, view)
	return view, nil
}

// uploadTexture creates a sampled sRGB texture from staging pixels. A nil staging image uploads a
// single white texel.
func (b *wgpuRendererBackendImpl) uploadTexture(res *sceneResources, label string, staging *common.TextureStagingData) (*wgpu.TextureView, error) {
	if staging == nil || staging.Width == 0 || staging.Height == 0 {
		staging = &common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", label, err)
	}
	res.textures = append(res.textures, tex)

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("texture view %s: %w", label, err)
	}
	res.views = append(res.views, view)
	return view, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.targets != nil {
		b.targets.release()
	}
	t := &renderTargets{width: width, height: height}
	b.targets = t

	var err error
	samples := uint32(b.sampleCount)
	if samples > 1 {
		if t.msaaView, err = b.createTarget(t, "MSAA Color", width, height, sceneColorFormat, samples, false); err != nil {
			return err
		}
	}
	if t.colorView, err = b.createTarget(t, "Scene Color", width, height, sceneColorFormat, 1, true); err != nil {
		return err
	}
	if t.depthView, err = b.createTarget(t, "Scene Depth", width, height, depthFormat, samples, false); err != nil {
		return err
	}
	bw, bh := bloomSize(width, height)
	if t.bloomAView, err = b.createTarget(t, "Bloom A", bw, bh, sceneColorFormat, 1, true); err != nil {
		return err
	}
	if t.bloomBView, err = b.createTarget(t, "Bloom B", bw, bh, sceneColorFormat, 1, true); err != nil {
		return err
	}

	// Bright reads the scene, the blurs ping-pong A -> B -> A, composite reads scene + A.
	b.post[passBright].SetTextureView(1, t.colorView)
	b.post[passBlurH].SetTextureView(1, t.bloomAView)
	b.post[passBlurV].SetTextureView(1, t.bloomBView)
	b.post[passComposite].SetTextureView(1, t.colorView)
	b.post[passComposite].SetTextureView(2, t.bloomAView)

	keys := [4]string{pipelineBright, pipelineBlur, pipelineBlur, pipelineComposite}
	for i, p := range b.post {
		pl := b.pipelines[keys[i]]
		if err := p.Build(b.device, pl.BindGroupLayout(0), pl.Shader().BindGroupLayoutDescriptor(0)); err != nil {
			return err
		}
	}
	common.Logger().Debug("surface configured", "width", width, "height", height, "bloomWidth", bw, "bloomHeight", bh)
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

// uploadModel creates the vertex, index and model-matrix buffers of one model and builds its
// group 1 bind group.
func (b *wgpuRendererBackendImpl) uploadModel(res *sceneResources, m model.Model, key string, extra ...bind_group_provider.BindGroupProviderOption) (*drawable, error) {
	vertexData := m.VertexData()
	if len(vertexData) == 0 {
		return nil, fmt.Errorf("model %s has no vertices", m.Name())
	}

	usage := wgpu.BufferUsageVertex
	vertex, err := b.createBuffer(m.Name()+" Vertex Buffer", uint64(len(vertexData)), usage)
	if err != nil {
		return nil, err
	}
	res.buffers = append(res.buffers, vertex)
	b.queue.WriteBuffer(vertex, 0, vertexData)

	d := &drawable{model: m, vertex: vertex}
	switch m.Topology() {
	case model.TopologyTriangles:
		indexData := m.IndexData()
		index, err := b.createBuffer(m.Name()+" Index Buffer", uint64(len(indexData)), wgpu.BufferUsageIndex)
		if err != nil {
			return nil, err
		}
		res.buffers = append(res.buffers, index)
		b.queue.WriteBuffer(index, 0, indexData)
		d.index = index
		d.count = uint32(m.IndexCount())
	default:
		d.count = uint32(m.VertexCount())
	}

	objectBuf, err := b.createBuffer(m.Name()+" Model Data", uint64((&model.GPUModelData{}).Size()), wgpu.BufferUsageUniform)
	if err != nil {
		return nil, err
	}
	res.buffers = append(res.buffers, objectBuf)

	opts := append([]bind_group_provider.BindGroupProviderOption{bind_group_provider.WithBuffer(0, objectBuf)}, extra...)
	d.object = bind_group_provider.NewBindGroupProvider(m.Name(), opts...)
	if err := b.build(d.object, key, 1); err != nil {
		return nil, err
	}
	return d, nil
}

// build creates a provider's bind group against one group of a pipeline.
func (b *wgpuRendererBackendImpl) build(p bind_group_provider.BindGroupProvider, key string, group int) error {
	pl := b.pipelines[key]
	return p.Build(b.device, pl.BindGroupLayout(group), pl.Shader().BindGroupLayoutDescriptor(group))
}

func (b *wgpuRendererBackendImpl) UploadScene(s scene.Scene) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.scene != nil {
		b.scene.release()
		b.scene = nil
	}
	res := &sceneResources{}
	if err := b.uploadScene(res, s); err != nil {
		res.release()
		return err
	}
	b.scene = res
	common.Logger().Info("scene uploaded", "scene", s.Name(), "clouds", len(res.clouds), "buffers", len(res.buffers))
	return nil
}

func (b *wgpuRendererBackendImpl) uploadScene(res *sceneResources, s scene.Scene) error {
	frame := newFrameUniforms(s)
	uniforms := []struct {
		dst  **wgpu.Buffer
		name string
		data []byte
	}{
		{&res.cameraBuf, "Camera", frame.camera},
		{&res.lightBuf, "Lights", frame.lights},
		{&res.paramsBuf, "Scene Params", frame.scene},
		{&res.tubeBuf, "Tube Params", frame.tube},
		{&res.lineBuf, "Line Params", frame.line},
		{&res.pointBuf, "Point Params", frame.point},
	}
	for _, u := range uniforms {
		buf, err := b.createBuffer(u.name, uint64(len(u.data)), wgpu.BufferUsageUniform)
		if err != nil {
			return err
		}
		res.buffers = append(res.buffers, buf)
		*u.dst = buf
	}

	wallView, err := b.uploadTexture(res, "Wall", s.TubeTexture())
	if err != nil {
		return err
	}
	spriteView, err := b.uploadTexture(res, "Sprite", s.SpriteTexture())
	if err != nil {
		return err
	}

	res.tubeGlobals = bind_group_provider.NewBindGroupProvider("Tube Globals",
		bind_group_provider.WithBuffer(0, res.cameraBuf),
		bind_group_provider.WithBuffer(1, res.lightBuf),
		bind_group_provider.WithBuffer(2, res.paramsBuf),
		bind_group_provider.WithBuffer(3, res.tubeBuf),
	)
	res.wireGlobals = bind_group_provider.NewBindGroupProvider("Wire Globals",
		bind_group_provider.WithBuffer(0, res.cameraBuf),
		bind_group_provider.WithBuffer(1, res.paramsBuf),
		bind_group_provider.WithBuffer(2, res.lineBuf),
	)
	res.pointGlobals = bind_group_provider.NewBindGroupProvider("Point Globals",
		bind_group_provider.WithBuffer(0, res.cameraBuf),
		bind_group_provider.WithBuffer(1, res.paramsBuf),
		bind_group_provider.WithBuffer(2, res.pointBuf),
		bind_group_provider.WithTextureView(3, spriteView),
		bind_group_provider.WithSampler(4, b.clampSampler),
	)
	for _, g := range []struct {
		p   bind_group_provider.BindGroupProvider
		key string
	}{
		{res.tubeGlobals, pipelineTube},
		{res.wireGlobals, pipelineWire},
		{res.pointGlobals, pipelineParticles},
	} {
		if err := b.build(g.p, g.key, 0); err != nil {
			return err
		}
	}

	if m := s.Tube(); m != nil {
		if res.tube, err = b.uploadModel(res, m, pipelineTube,
			bind_group_provider.WithTextureView(1, wallView),
			bind_group_provider.WithSampler(2, b.repeatSampler),
		); err != nil {
			return err
		}
	}
	if m := s.Wireframe(); m != nil {
		if res.wire, err = b.uploadModel(res, m, pipelineWire); err != nil {
			return err
		}
	}
	for _, m := range s.Clouds() {
		d, err := b.uploadModel(res, m, pipelineParticles)
		if err != nil {
			return err
		}
		res.clouds = append(res.clouds, d)
	}
	return nil
}

// writeFrame uploads the uniforms that change per frame.
func (b *wgpuRendererBackendImpl) writeFrame(s scene.Scene) {
	res := b.scene
	frame := newFrameUniforms(s)

	writes := []bind_group_provider.BufferWrite{
		{Provider: res.tubeGlobals, Binding: 0, Data: frame.camera},
		{Provider: res.tubeGlobals, Binding: 1, Data: frame.lights},
		{Provider: res.tubeGlobals, Binding: 2, Data: frame.scene},
		{Provider: res.tubeGlobals, Binding: 3, Data: frame.tube},
		{Provider: res.wireGlobals, Binding: 2, Data: frame.line},
		{Provider: res.pointGlobals, Binding: 2, Data: frame.point},
	}
	for _, d := range append([]*drawable{res.tube, res.wire}, res.clouds...) {
		if d == nil {
			continue
		}
		data := model.GPUModelData{Model: d.model.ModelMatrix()}
		writes = append(writes, bind_group_provider.BufferWrite{Provider: d.object, Binding: 0, Data: data.Marshal()})
	}

	t := b.targets
	for i, params := range bloomPasses(s.Bloom(), t.width, t.height, b.encodeSRGB) {
		writes = append(writes, bind_group_provider.BufferWrite{Provider: b.post[i], Binding: 0, Data: params.Marshal()})
	}
	bind_group_provider.WriteBuffers(b.queue, writes)
}

func (b *wgpuRendererBackendImpl) DrawFrame(s scene.Scene) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.targets == nil || b.scene == nil {
		return ErrNotReady
	}
	b.writeFrame(s)

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		common.Logger().Debug("surface texture unavailable", "error", err)
		return ErrNotReady
	}
	defer surfaceTexture.Release()

	surfaceView, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer surfaceView.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	b.encodeScenePass(encoder)
	t := b.targets
	b.encodePostPass(encoder, passBright, pipelineBright, t.bloomAView)
	b.encodePostPass(encoder, passBlurH, pipelineBlur, t.bloomBView)
	b.encodePostPass(encoder, passBlurV, pipelineBlur, t.bloomAView)
	b.encodePostPass(encoder, passComposite, pipelineComposite, surfaceView)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

// encodeScenePass draws the tube, the wireframe and the particle clouds into the scene target,
// resolving MSAA when enabled.
func (b *wgpuRendererBackendImpl) encodeScenePass(encoder *wgpu.CommandEncoder) {
	t := b.targets
	color := wgpu.RenderPassColorAttachment{
		View:       t.colorView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{A: 1.0},
	}
	if t.msaaView != nil {
		color.View = t.msaaView
		color.ResolveTarget = t.colorView
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Scene Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            t.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	res := b.scene
	if d := res.tube; d != nil {
		pass.SetPipeline(b.pipelines[pipelineTube].RenderPipeline())
		pass.SetBindGroup(0, res.tubeGlobals.BindGroup(), nil)
		pass.SetBindGroup(1, d.object.BindGroup(), nil)
		pass.SetVertexBuffer(0, d.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.count, 1, 0, 0, 0)
	}
	if d := res.wire; d != nil {
		pass.SetPipeline(b.pipelines[pipelineWire].RenderPipeline())
		pass.SetBindGroup(0, res.wireGlobals.BindGroup(), nil)
		pass.SetBindGroup(1, d.object.BindGroup(), nil)
		pass.SetVertexBuffer(0, d.vertex, 0, wgpu.WholeSize)
		pass.Draw(d.count, 1, 0, 0)
	}
	if len(res.clouds) > 0 {
		pass.SetPipeline(b.pipelines[pipelineParticles].RenderPipeline())
		pass.SetBindGroup(0, res.pointGlobals.BindGroup(), nil)
		for _, d := range res.clouds {
			pass.SetBindGroup(1, d.object.BindGroup(), nil)
			pass.SetVertexBuffer(0, d.vertex, 0, wgpu.WholeSize)
			pass.Draw(6, d.count, 0, 0)
		}
	}
	pass.End()
}

// encodePostPass draws one fullscreen triangle into target.
func (b *wgpuRendererBackendImpl) encodePostPass(encoder *wgpu.CommandEncoder, pass int, key string, target *wgpu.TextureView) {
	rp := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: key + " Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{A: 1.0},
			},
		},
	})
	rp.SetPipeline(b.pipelines[key].RenderPipeline())
	rp.SetBindGroup(0, b.post[pass].BindGroup(), nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
}

// Release frees resources in reverse order of creation. Safe to call more than once and on a
// partially constructed backend. WebGPU releases cannot fail, so the error is always nil.
func (b *wgpuRendererBackendImpl) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.scene != nil {
		b.scene.release()
		b.scene = nil
	}
	if b.targets != nil {
		b.targets.release()
		b.targets = nil
	}
	for i := range b.post {
		if b.post[i] != nil {
			b.post[i].Release()
			b.post[i] = nil
		}
		if b.bloomParams[i] != nil {
			b.bloomParams[i].Release()
			b.bloomParams[i] = nil
		}
	}
	for _, s := range []**wgpu.Sampler{&b.repeatSampler, &b.clampSampler} {
		if *s != nil {
			(*s).Release()
			*s = nil
		}
	}
	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	runtime.UnlockOSThread()
	return nil
}
