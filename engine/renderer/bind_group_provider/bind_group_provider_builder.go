package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option for configuring a BindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer binds a buffer at construction.
//
// Parameters:
//   - binding: the @binding index
//   - buf: the buffer
//
// Returns:
//   - BindGroupProviderOption: a function that binds the buffer
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithTextureView binds a texture view at construction.
//
// Parameters:
//   - binding: the @binding index
//   - tv: the texture view
//
// Returns:
//   - BindGroupProviderOption: a function that binds the texture view
func WithTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textureViews[binding] = tv
	}
}

// WithSampler binds a sampler at construction.
//
// Parameters:
//   - binding: the @binding index
//   - s: the sampler
//
// Returns:
//   - BindGroupProviderOption: a function that binds the sampler
func WithSampler(binding int, s *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = s
	}
}
