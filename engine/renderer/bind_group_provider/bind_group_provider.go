package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

type bindGroupProvider struct {
	label string

	// bindGroup is owned by the provider; the resources it references are not.
	bindGroup *wgpu.BindGroup

	buffers      map[int]*wgpu.Buffer
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler
}

// BindGroupProvider collects the resources bound at each binding of one bind group and builds the
// bind group from a reflected layout. Buffers, texture views and samplers are shared between
// providers and owned by the caller; the provider only owns the bind group it builds.
type BindGroupProvider interface {
	// Label returns the debug label used for the bind group.
	//
	// Returns:
	//   - string: the label
	Label() string

	// BindGroup returns the built bind group, nil before Build.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer bound at binding, or nil.
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the texture view bound at binding, or nil.
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler bound at binding, or nil.
	Sampler(binding int) *wgpu.Sampler

	// SetBuffer binds a buffer.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView binds a texture view.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - tv: the texture view
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler binds a sampler.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - s: the sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// Entries matches every entry of the layout to a bound resource of the right kind.
	//
	// Parameters:
	//   - layout: the reflected layout descriptor
	//
	// Returns:
	//   - []wgpu.BindGroupEntry: one entry per layout entry, in layout order
	//   - error: error naming the first binding with no matching resource
	Entries(layout wgpu.BindGroupLayoutDescriptor) ([]wgpu.BindGroupEntry, error)

	// Build creates the bind group, replacing and releasing any previous one.
	//
	// Parameters:
	//   - device: the device to create the bind group on
	//   - layout: the GPU bind group layout
	//   - desc: the layout descriptor the GPU layout was created from
	//
	// Returns:
	//   - error: error if a resource is missing or creation fails
	Build(device *wgpu.Device, layout *wgpu.BindGroupLayout, desc wgpu.BindGroupLayoutDescriptor) error

	// Release frees the bind group. Bound resources are left alone.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label
//   - options: functional options binding initial resources
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) Entries(layout wgpu.BindGroupLayoutDescriptor) ([]wgpu.BindGroupEntry, error) {
	entries := make([]wgpu.BindGroupEntry, len(layout.Entries))
	for i, e := range layout.Entries {
		binding := int(e.Binding)
		switch {
		case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := p.textureViews[binding]
			if tv == nil {
				return nil, fmt.Errorf("%s: binding %d needs a texture view", p.label, binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, TextureView: tv}
		case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := p.samplers[binding]
			if s == nil {
				return nil, fmt.Errorf("%s: binding %d needs a sampler", p.label, binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, Sampler: s}
		default:
			buf := p.buffers[binding]
			if buf == nil {
				return nil, fmt.Errorf("%s: binding %d needs a buffer", p.label, binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, Buffer: buf, Offset: 0, Size: wgpu.WholeSize}
		}
	}
	return entries, nil
}

func (p *bindGroupProvider) Build(device *wgpu.Device, layout *wgpu.BindGroupLayout, desc wgpu.BindGroupLayoutDescriptor) error {
	entries, err := p.Entries(desc)
	if err != nil {
		return err
	}
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.label + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", p.label, err)
	}
	p.Release()
	p.bindGroup = bg
	return nil
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}
