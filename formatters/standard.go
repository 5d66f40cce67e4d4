package formatters

import (
	"sync"

	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/parser"
)

// StandardFormatter renders a single-line summary shared by successful and
// failed calls alike, in the plain "TypeName.MethodName ... " style the
// fallback template (configuration.Config.FallbackTemplate) also uses.
type StandardFormatter struct {
	once     sync.Once
	template any // *parser.MessageTemplate or parser.NoopRenderer
}

// NewStandardFormatter creates the default formatter.
func NewStandardFormatter() *StandardFormatter {
	return &StandardFormatter{}
}

// Name returns "standard".
func (f *StandardFormatter) Name() string { return "standard" }

func (f *StandardFormatter) compiled() any {
	f.once.Do(func() {
		tmpl, ok := parser.CompileSafe(
			"{TypeName}.{MethodName} success={Success} duration={Duration:F2}ms{Exception}",
			"standard", false,
		)
		if !ok {
			f.template = parser.NoopRenderer{Reason: "standard formatter template"}
			return
		}
		f.template = tmpl
	})
	return f.template
}

// Format renders entry using the compiled standard template.
func (f *StandardFormatter) Format(entry *core.LogEntry) string {
	props := entryProperties(entry)
	if exc, _ := props["Exception"].(string); exc != "" {
		props["Exception"] = ": " + exc
	}

	switch t := f.compiled().(type) {
	case *parser.MessageTemplate:
		return t.Render(props)
	case parser.NoopRenderer:
		return t.Render(props)
	default:
		return ""
	}
}
