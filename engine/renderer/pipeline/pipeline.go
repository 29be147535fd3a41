package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// BlendMode selects how a pipeline's output combines with the render target.
type BlendMode int

const (
	// BlendOpaque replaces the target color.
	BlendOpaque BlendMode = iota

	// BlendAlpha mixes by source alpha (src * a + dst * (1 - a)).
	BlendAlpha

	// BlendAdditive adds source color scaled by source alpha onto the target.
	BlendAdditive
)

// State returns the wgpu blend state for the mode, or nil for opaque output.
//
// Returns:
//   - *wgpu.BlendState: the blend state
func (m BlendMode) State() *wgpu.BlendState {
	switch m {
	case BlendAlpha:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	case BlendAdditive:
		return &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorZero,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	default:
		return nil
	}
}

type pipeline struct {
	pipelineKey string
	shader      shader.Shader

	vertexLayouts []wgpu.VertexBufferLayout
	targetFormat  wgpu.TextureFormat
	depthFormat   wgpu.TextureFormat
	sampleCount   uint32

	depthTestEnabled  bool
	depthWriteEnabled bool
	blend             BlendMode
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace

	module           *wgpu.ShaderModule
	bindGroupLayouts []*wgpu.BindGroupLayout
	pipelineLayout   *wgpu.PipelineLayout
	renderPipeline   *wgpu.RenderPipeline
}

// Pipeline describes one render pipeline: its shader, fixed-function state and render target
// formats. The description is plain data until Create builds the GPU objects; Release frees them
// and leaves the description reusable.
type Pipeline interface {
	// PipelineKey returns the unique key of the pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the WGSL module the pipeline runs.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Blend returns the blend mode of the color target.
	Blend() BlendMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// TargetFormat returns the color target format.
	TargetFormat() wgpu.TextureFormat

	// DepthFormat returns the depth attachment format, TextureFormatUndefined when the pipeline has
	// no depth attachment.
	DepthFormat() wgpu.TextureFormat

	// SampleCount returns the multisample count.
	SampleCount() uint32

	// Descriptor assembles the render pipeline descriptor from the description.
	//
	// Parameters:
	//   - layout: the pipeline layout
	//   - module: the compiled shader module
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor

	// Create compiles the shader, creates one bind group layout per reflected group and builds
	// the render pipeline. Calling Create on a created pipeline is a no-op.
	//
	// Parameters:
	//   - device: the device to create the objects on
	//
	// Returns:
	//   - error: error if any GPU object fails to create
	Create(device *wgpu.Device) error

	// Created reports whether the GPU objects exist.
	Created() bool

	// RenderPipeline returns the GPU pipeline, nil before Create.
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the layout of one bind group, nil before Create.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// Release frees the GPU objects. Safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline description.
// Defaults: triangle list, counter-clockwise front faces, no culling, opaque blending, a single
// sample and no depth attachment.
//
// Parameters:
//   - pipelineKey: unique key of the pipeline
//   - s: the shader to run
//   - targetFormat: the color target format
//   - opts: functional options
//
// Returns:
//   - Pipeline: the description
func NewPipeline(pipelineKey string, s shader.Shader, targetFormat wgpu.TextureFormat, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		shader:       s,
		targetFormat: targetFormat,
		depthFormat:  wgpu.TextureFormatUndefined,
		sampleCount:  1,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		frontFace:    wgpu.FrontFaceCCW,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Blend() BlendMode {
	return p.blend
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) TargetFormat() wgpu.TextureFormat {
	return p.targetFormat
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.shader.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    p.targetFormat,
					Blend:     p.blend.State(),
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}

	if p.depthFormat != wgpu.TextureFormatUndefined {
		depthCompare := wgpu.CompareFunctionLess
		if !p.depthTestEnabled {
			depthCompare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}
	return desc
}

func (p *pipeline) Create(device *wgpu.Device) error {
	if p.renderPipeline != nil {
		return nil
	}
	if device == nil {
		return errors.New("pipeline: nil device")
	}

	module, err := device.CreateShaderModule(p.shader.Module())
	if err != nil {
		return fmt.Errorf("pipeline %s: shader module: %w", p.pipelineKey, err)
	}
	p.module = module

	p.bindGroupLayouts = make([]*wgpu.BindGroupLayout, p.shader.GroupCount())
	for g := range p.bindGroupLayouts {
		desc := p.shader.BindGroupLayoutDescriptor(g)
		layout, layoutErr := device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			p.Release()
			return fmt.Errorf("pipeline %s: bind group layout %d: %w", p.pipelineKey, g, layoutErr)
		}
		p.bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.pipelineKey,
		BindGroupLayouts: p.bindGroupLayouts,
	})
	if err != nil {
		p.Release()
		return fmt.Errorf("pipeline %s: layout: %w", p.pipelineKey, err)
	}
	p.pipelineLayout = pipelineLayout

	created, err := device.CreateRenderPipeline(p.Descriptor(pipelineLayout, module))
	if err != nil {
		p.Release()
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, err)
	}
	p.renderPipeline = created
	return nil
}

func (p *pipeline) Created() bool {
	return p.renderPipeline != nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	for _, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
	}
	p.bindGroupLayouts = nil
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}
