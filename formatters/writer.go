package formatters

import (
	"fmt"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/parser"
	"github.com/weftlog/weft/selflog"
)

// Writer is the Log Entry Writer (C8): it selects a Formatter for an entry
// through Registry.Select, renders it, and recovers from any panic the
// formatter raises so a single malformed entry never stalls the drain
// worker. When EnableFallbackFormatting is set and rendering fails (panic
// or empty result from a formatter that reports failure that way), Writer
// substitutes Config.FallbackTemplate instead of dropping the line.
type Writer struct {
	registry *Registry
	cfg      *configuration.Config
}

// NewWriter creates a Writer over registry, using cfg for fallback
// behavior.
func NewWriter(registry *Registry, cfg *configuration.Config) *Writer {
	return &Writer{registry: registry, cfg: cfg}
}

// Render returns the final text for entry.
func (w *Writer) Render(entry *core.LogEntry) (rendered string) {
	f := w.registry.Select(entry)

	var failed bool
	func() {
		defer func() {
			if r := recover(); r != nil {
				if selflog.IsEnabled() {
					selflog.Printf("[formatters] formatter %q panicked for %s.%s: %v", f.Name(), entry.TypeName, entry.MethodName, r)
				}
				failed = true
			}
		}()
		rendered = f.Format(entry)
	}()

	if !failed && rendered != "" {
		return rendered
	}

	if !w.cfg.EnableFallbackFormatting {
		return fmt.Sprintf("[Formatting Error: %s.%s via %q]", entry.TypeName, entry.MethodName, f.Name())
	}

	return w.renderFallback(entry, f.Name(), failed)
}

func (w *Writer) renderFallback(entry *core.LogEntry, formatterName string, failed bool) string {
	tmpl, ok := parser.CompileSafe(w.cfg.FallbackTemplate, "standard", false)
	if !ok {
		return fmt.Sprintf("[Formatting Error: %s.%s via %q]", entry.TypeName, entry.MethodName, formatterName)
	}
	if selflog.IsEnabled() && failed {
		selflog.Printf("[formatters] using fallback template for %s.%s after %q failed", entry.TypeName, entry.MethodName, formatterName)
	}
	return tmpl.Render(entryProperties(entry))
}
