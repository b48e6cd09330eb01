// Package liquid resolves the templating constructs embedded in LookML SQL.
// Rendering is strictly best-effort: any template the engine cannot parse or
// evaluate leaves the original text untouched, because a single vendor-specific
// tag must never sink the lineage of an entire view corpus.
package liquid

import (
	"regexp"
	"strings"

	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"

	"github.com/sid-acryl/lookml-lineage/pkg/logger"
)

// NullLiteral is what an undefined variable renders as, so that downstream SQL
// parsing sees a valid expression instead of a hole.
const NullLiteral = "NULL"

var (
	// Dotted paths ending in one of the reserved boolean suffixes, e.g.
	// order.region._is_selected. These mirror Looker's implicit selection
	// and filter state and default to true when the caller supplied no
	// value.
	specialVariablePattern = regexp.MustCompile(`\b\w+(?:\.\w+)*\._(?:is_selected|in_query|is_filtered)\b`)

	// Variable paths referenced by an interpolation, e.g. {{ filters.date }}.
	interpolationPattern = regexp.MustCompile(`\{\{-?\s*([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)`)
)

type Renderer struct {
	variables map[string]interface{}
	log       logger.Logger
}

func NewRenderer(variables map[string]interface{}, log logger.Logger) *Renderer {
	if variables == nil {
		variables = map[string]interface{}{}
	}

	return &Renderer{variables: variables, log: log}
}

// Resolve renders the variable references in text against the configured
// variable dictionary. Undefined-variable handling is owned by this call: the
// dictionary is extended per render so that special boolean variables default
// to true and any other unresolved interpolation renders as NULL. Template
// errors are logged and the original text is returned unchanged.
func (r *Renderer) Resolve(text string) string {
	if !strings.Contains(text, "{{") && !strings.Contains(text, "{%") {
		return text
	}

	variables := deepCopyVariables(r.variables)
	applySpecialVariableDefaults(text, variables)
	applyNullDefaults(text, variables)

	tpl, err := gonja.FromString(text)
	if err != nil {
		r.log.Warnf("unsupported template encountered, keeping the raw text: %v", err)
		return text
	}

	out, err := tpl.ExecuteToString(exec.NewContext(variables))
	if err != nil {
		r.log.Warnf("failed to render template, keeping the raw text: %v", err)
		return text
	}

	return out
}

// applySpecialVariableDefaults injects boolean-true defaults for every special
// suffix path the text references and the dictionary does not define,
// creating intermediate mappings as needed.
func applySpecialVariableDefaults(text string, variables map[string]interface{}) {
	for _, path := range specialVariablePattern.FindAllString(text, -1) {
		setDefault(variables, strings.Split(path, "."), true)
	}
}

// applyNullDefaults makes every interpolated path that is still unresolved
// render as the NULL literal. Paths inside condition tags are left alone so
// that undefined values stay falsy there.
func applyNullDefaults(text string, variables map[string]interface{}) {
	for _, match := range interpolationPattern.FindAllStringSubmatch(text, -1) {
		setDefault(variables, strings.Split(match[1], "."), NullLiteral)
	}
}

// setDefault sets the leaf of a dotted path if the path is not already bound.
// A path that traverses an existing non-mapping value is left untouched.
func setDefault(variables map[string]interface{}, keys []string, value interface{}) {
	current := variables
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key]
		if !ok {
			child := map[string]interface{}{}
			current[key] = child
			current = child
			continue
		}

		childMap, ok := next.(map[string]interface{})
		if !ok {
			return
		}
		current = childMap
	}

	leaf := keys[len(keys)-1]
	if _, ok := current[leaf]; !ok {
		current[leaf] = value
	}
}

func deepCopyVariables(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for key, value := range src {
		if nested, ok := value.(map[string]interface{}); ok {
			dst[key] = deepCopyVariables(nested)
			continue
		}

		dst[key] = value
	}

	return dst
}
