package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingEntryPoint is returned when a shader lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader is missing an entry point")

// shader is the implementation of the Shader interface.
type shader struct {
	key                string
	source             string
	vertexEntryPoint   string
	fragmentEntryPoint string
	layouts            map[int]wgpu.BindGroupLayoutDescriptor
	declarations       []Annotation
	module             *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader is a pre-processed WGSL module holding one vertex and one fragment entry point.
// The bind group layouts are reflected from the module's declarations, with every entry visible
// to both stages, so a pipeline can be created without hand-written layouts.
type Shader interface {
	// Key returns the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the pre-processed WGSL source.
	//
	// Returns:
	//   - string: the expanded source
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptor returns the reflected layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every reflected layout keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// GroupCount returns one more than the highest declared group index.
	GroupCount() int

	// Declarations returns the @oxy:group annotations found while pre-processing.
	Declarations() []Annotation

	// Module returns the shader module descriptor for device creation.
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects a WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the raw WGSL source, usually embedded
//   - options: functional options, such as extra snippets for the pre-processor
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if pre-processing fails or an entry point is missing
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key: key,
		pp:  NewPreProcessor(),
	}
	for _, opt := range options {
		opt(s)
	}

	expanded, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s.source = expanded
	s.declarations = append([]Annotation(nil), s.pp.Declarations()...)

	s.vertexEntryPoint = parseEntryPoint(stripComments(expanded), vertexEntryRegex)
	s.fragmentEntryPoint = parseEntryPoint(stripComments(expanded), fragmentEntryRegex)
	if s.vertexEntryPoint == "" || s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %s: %w", key, ErrMissingEntryPoint)
	}

	s.layouts = parseBindGroupLayouts(expanded, key, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.layouts[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.layouts
}

func (s *shader) GroupCount() int {
	n := 0
	for g := range s.layouts {
		if g+1 > n {
			n = g + 1
		}
	}
	return n
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
