// annotations.go defines the @oxy: annotations understood by the WGSL pre-processor.
// Annotations are single-line WGSL comments that either splice a registered snippet into the
// shader or generate a @group/@binding declaration for a registered struct type.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL line comment.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude splices the WGSL source registered under the given key into the shader.
	// A key included more than once is only emitted the first time.
	//
	// Syntax: //@oxy:include <key>
	//
	// Example: //@oxy:include camera
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration whose type is the
	// struct registered under the given key, and records the declaration.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <key>
	//
	// Example: //@oxy:group 0 0 uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// addressSpaces maps annotation address space arguments to WGSL variable qualifiers.
var addressSpaces = map[string]string{
	"uniform":    "var<uniform>",
	"read":       "var<storage, read>",
	"read_write": "var<storage, read_write>",
}

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Key is the registry key of the included snippet or declared struct.
	Key string

	// AddressSpace and VarName are only set for group annotations.
	AddressSpace string
	VarName      string

	// Line is the 1-based source line, used for error reporting.
	Line int

	// Group and Binding are -1 for include annotations.
	Group   int
	Binding int
}

// parseAnnotation parses one WGSL source line.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	comment, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy:include takes exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Key: args[1], Line: lineNum, Group: -1, Binding: -1}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy:group takes group, binding, address space, name and type", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group number %q", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding number %q", lineNum, args[2])
		}
		if _, ok := addressSpaces[args[3]]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		return &Annotation{
			Type:         AnnotationTypeBindingGroup,
			Key:          args[5],
			AddressSpace: args[3],
			VarName:      args[4],
			Line:         lineNum,
			Group:        group,
			Binding:      binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
