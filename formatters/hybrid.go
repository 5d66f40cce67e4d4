package formatters

import (
	"encoding/json"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/parser"
	"github.com/weftlog/weft/selflog"
)

// HybridFormatter pairs StandardFormatter's human-readable line with a
// compact JSON metadata suffix, for sinks that want both a readable
// message and a machine-parseable tail on the same line.
type HybridFormatter struct {
	cfg      *configuration.Config
	standard *StandardFormatter
}

// NewHybridFormatter creates the formatter over cfg.
func NewHybridFormatter(cfg *configuration.Config) *HybridFormatter {
	return &HybridFormatter{cfg: cfg, standard: NewStandardFormatter()}
}

// Name returns "hybrid".
func (f *HybridFormatter) Name() string { return "hybrid" }

// Format renders the standard line, then appends a suffix built from
// Formatters.Hybrid.MessageTemplate (defaulting to a {Metadata:json}
// summary when no template is configured).
func (f *HybridFormatter) Format(entry *core.LogEntry) string {
	line := f.standard.Format(entry)
	props := entryProperties(entry)

	suffixTmpl := f.cfg.Formatters.Hybrid.MessageTemplate
	if suffixTmpl == "" {
		buf, err := json.Marshal(props["Metadata"])
		if err != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[formatters] hybrid metadata marshal failed for %s.%s: %v", entry.TypeName, entry.MethodName, err)
			}
			return line
		}
		if string(buf) == "{}" {
			return line
		}
		return line + " " + string(buf)
	}

	tmpl, ok := parser.CompileSafe(suffixTmpl, "hybrid", false)
	if !ok {
		if selflog.IsEnabled() {
			selflog.Printf("[formatters] hybrid suffix template unusable: %q", suffixTmpl)
		}
		return line
	}
	suffix := tmpl.Render(props)
	if suffix == "" {
		return line
	}
	return line + " " + suffix
}
