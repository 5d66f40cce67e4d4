package formatters

import (
	"sync"

	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/parser"
)

// SuccessErrorFormatter renders a different template for successful and
// failed completions, matching the distilled spec's "success and error
// templates diverge" requirement.
type SuccessErrorFormatter struct {
	once        sync.Once
	successTmpl any
	errorTmpl   any
}

// NewSuccessErrorFormatter creates the formatter with its built-in
// success/error templates.
func NewSuccessErrorFormatter() *SuccessErrorFormatter {
	return &SuccessErrorFormatter{}
}

// Name returns "success-error".
func (f *SuccessErrorFormatter) Name() string { return "success-error" }

func (f *SuccessErrorFormatter) ensureCompiled() {
	f.once.Do(func() {
		if t, ok := parser.CompileSafe("{TypeName}.{MethodName} completed in {Duration:F2}ms", "standard", false); ok {
			f.successTmpl = t
		} else {
			f.successTmpl = parser.NoopRenderer{Reason: "success-error success template"}
		}
		if t, ok := parser.CompileSafe("{TypeName}.{MethodName} failed after {Duration:F2}ms: {Exception}", "standard", false); ok {
			f.errorTmpl = t
		} else {
			f.errorTmpl = parser.NoopRenderer{Reason: "success-error error template"}
		}
	})
}

// Format renders entry with the success template when it completed without
// error, or the error template otherwise.
func (f *SuccessErrorFormatter) Format(entry *core.LogEntry) string {
	f.ensureCompiled()
	props := entryProperties(entry)

	tmpl := f.successTmpl
	if entry.Success == core.TriFalse {
		tmpl = f.errorTmpl
	}

	switch t := tmpl.(type) {
	case *parser.MessageTemplate:
		return t.Render(props)
	case parser.NoopRenderer:
		return t.Render(props)
	default:
		return ""
	}
}
