package parser

import (
	"fmt"

	"github.com/weftlog/weft/selflog"
)

// ApplyDefaultSpec returns the format specifier that should be used for a
// placeholder named name when the source template supplied none, given the
// formatter (by name, e.g. "json", "standard") currently rendering the
// entry. It implements the Template Engine's documented default-spec table.
func ApplyDefaultSpec(name string, activeFormatter string, jsonPretty bool) string {
	switch name {
	case "InputParameters", "OutputValue":
		return "j"
	case "Duration":
		return "F2"
	case "Metadata":
		if activeFormatter == "json" && !jsonPretty {
			return "j"
		}
		return ""
	default:
		return ""
	}
}

// WithDefaultSpecs rewrites prop tokens in tmpl that have no explicit
// format, filling in ApplyDefaultSpec's result. The template itself is not
// mutated; a new template whose token slice reuses the unaffected tokens is
// returned, so the result is safe to reuse alongside the original.
func WithDefaultSpecs(tmpl *MessageTemplate, activeFormatter string, jsonPretty bool) *MessageTemplate {
	out := make([]MessageTemplateToken, len(tmpl.Tokens))
	changed := false
	for i, tok := range tmpl.Tokens {
		prop, ok := tok.(*PropertyToken)
		if !ok || prop.Format != "" {
			out[i] = tok
			continue
		}
		spec := ApplyDefaultSpec(prop.PropertyName, activeFormatter, jsonPretty)
		if spec == "" {
			out[i] = tok
			continue
		}
		changed = true
		clone := *prop
		clone.Format = spec
		out[i] = &clone
	}
	if !changed {
		return tmpl
	}
	return &MessageTemplate{Raw: tmpl.Raw, Tokens: out}
}

// AlignArguments builds the positional argument vector a compiled
// template's renderer consumes, given the runtime property map for an
// entry and the template's parameter names in left-to-right order. A name
// with no matching entry becomes nil.
func AlignArguments(names []string, properties map[string]any) []any {
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = properties[name]
	}
	return args
}

// IsBareMetadataTemplate reports whether tmpl is exactly the single
// placeholder {Metadata}, the special case that bypasses string coercion
// and hands the structured metadata value through for native
// destructuring by the sink.
func IsBareMetadataTemplate(tmpl *MessageTemplate) bool {
	if len(tmpl.Tokens) != 1 {
		return false
	}
	prop, ok := tmpl.Tokens[0].(*PropertyToken)
	return ok && prop.PropertyName == "Metadata"
}

// NoopRenderer is installed in place of a template whose compilation
// failed. It reports a diagnostic on every use and renders nothing, so a
// broken template degrades the message instead of the pipeline.
type NoopRenderer struct {
	Reason string
}

// Render implements the same contract as MessageTemplate.Render.
func (n NoopRenderer) Render(map[string]any) string {
	if selflog.IsEnabled() {
		selflog.Printf("[parser] template unusable: %s", n.Reason)
	}
	return ""
}

// CompileSafe parses template, recovering from any panic raised while
// parsing or post-processing it. On success it returns the cached,
// default-spec-applied template; on failure it returns ok=false and the
// caller should fall back to a NoopRenderer.
func CompileSafe(template string, activeFormatter string, jsonPretty bool) (tmpl *MessageTemplate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[parser] compile panic for template %q: %v", template, r)
			}
			tmpl, ok = nil, false
		}
	}()

	parsed, err := ParseCached(template)
	if err != nil {
		if selflog.IsEnabled() {
			selflog.Printf("[parser] compile error for template %q: %v", template, err)
		}
		return nil, false
	}
	return WithDefaultSpecs(parsed, activeFormatter, jsonPretty), true
}

// PrecompileDefaults compiles the built-in template set the lifecycle
// controller warms at startup, plus any extra templates supplied by
// configuration. Failures are reported via selflog and do not abort
// precompilation of the remaining templates.
func PrecompileDefaults(extra ...string) {
	builtins := []string{
		"Method {TypeName}.{MethodName} started",
		"Method {TypeName}.{MethodName} completed in {Duration:F2}ms",
		"Method {TypeName}.{MethodName} failed after {Duration:F2}ms: {Exception}",
		"✅ {TypeName}.{MethodName} completed in {Duration:F2}ms",
		"❌ {TypeName}.{MethodName} failed: {Exception}",
		"{TypeName}.{MethodName} success={Success} id={Id}",
	}
	all := append(builtins, extra...)
	for _, t := range all {
		if _, ok := CompileSafe(t, "standard", false); !ok {
			if selflog.IsEnabled() {
				selflog.Printf("[parser] precompile skipped unusable template %q", t)
			}
		}
	}
}

// This blank reference is the file's only use of fmt; it keeps the import
// valid.
var _ = fmt.Sprintf
