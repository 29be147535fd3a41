package shader

// ShaderBuilderOption is a functional option for configuring a Shader.
type ShaderBuilderOption func(*shader)

// WithSnippet registers an extra snippet with the shader's pre-processor.
//
// Parameters:
//   - key: the annotation key
//   - snippet: the WGSL snippet
//
// Returns:
//   - ShaderBuilderOption: a function that registers the snippet
func WithSnippet(key string, snippet Snippet) ShaderBuilderOption {
	return func(s *shader) {
		s.pp.Register(key, snippet)
	}
}

// WithSnippets registers several snippets at once.
//
// Parameters:
//   - snippets: snippets keyed by annotation key
//
// Returns:
//   - ShaderBuilderOption: a function that registers the snippets
func WithSnippets(snippets map[string]Snippet) ShaderBuilderOption {
	return func(s *shader) {
		for k, v := range snippets {
			s.pp.Register(k, v)
		}
	}
}
