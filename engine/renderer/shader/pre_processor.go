package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/model"
)

// Snippet is a piece of WGSL registered with the pre-processor.
type Snippet struct {
	// Source is the WGSL spliced in by @oxy:include.
	Source string

	// Type is the struct name used by @oxy:group declarations. Empty for snippets that only
	// hold functions.
	Type string
}

type preProcessor struct {
	registry     map[string]Snippet
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
// The engine's GPU types (camera, light, vertex, model data) are registered by default; callers
// add their own snippets with Register.
type PreProcessor interface {
	// Process expands every annotation in source.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: error if an annotation is malformed or names an unregistered key
	Process(source string) (string, error)

	// Declarations returns the group annotations found by the last Process call.
	//
	// Returns:
	//   - []Annotation: the binding declarations in source order
	Declarations() []Annotation

	// Register adds or replaces a snippet.
	//
	// Parameters:
	//   - key: the annotation key
	//   - snippet: the WGSL snippet
	Register(key string, snippet Snippet)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU types registered.
//
// Returns:
//   - PreProcessor: the new pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]Snippet{
			"camera":     {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			"light":      {Source: light.GPULightSource, Type: "Light"},
			"vertex":     {Source: model.GPUVertexSource, Type: "VertexInput"},
			"model_data": {Source: model.GPUModelDataSource, Type: "ModelData"},
		},
	}
}

func (p *preProcessor) Register(key string, snippet Snippet) {
	p.registry[key] = snippet
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		entry, ok := p.registry[a.Key]
		if !ok {
			return "", fmt.Errorf("line %d: unknown @oxy:%s key %q", a.Line, a.Type, a.Key)
		}
		switch a.Type {
		case AnnotationTypeInclude:
			if included[a.Key] {
				continue
			}
			included[a.Key] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			if entry.Type == "" {
				return "", fmt.Errorf("line %d: key %q has no struct type to declare", a.Line, a.Key)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, addressSpaces[a.AddressSpace], a.VarName, entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
