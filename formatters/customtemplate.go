package formatters

import (
	"encoding/json"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/internal/parser"
	"github.com/weftlog/weft/selflog"
)

// CustomTemplateFormatter renders an entry through a per-service template
// taken from Config.Formatters.CustomTemplate.ServiceTemplates (resolved
// by longest-selector-prefix against entry.TypeName) or, absent a match,
// DefaultTemplate.
type CustomTemplateFormatter struct {
	cfg *configuration.Config
}

// NewCustomTemplateFormatter creates the formatter over cfg.
func NewCustomTemplateFormatter(cfg *configuration.Config) *CustomTemplateFormatter {
	return &CustomTemplateFormatter{cfg: cfg}
}

// Name returns "custom-template".
func (f *CustomTemplateFormatter) Name() string { return "custom-template" }

// Format compiles (via the shared, cached compiler) and renders the
// template selected for entry.TypeName. A template that consists solely of
// the {Metadata} placeholder bypasses string rendering and instead hands
// the structured metadata map through as JSON, so a host-configured
// "just give me the structured payload" template does not pay for a
// string round-trip it immediately has to re-parse.
func (f *CustomTemplateFormatter) Format(entry *core.LogEntry) string {
	raw := f.cfg.MatchFormatterTemplate(entry.TypeName)
	if raw == "" {
		return ""
	}

	tmpl, ok := parser.CompileSafe(raw, "custom-template", f.cfg.Formatters.JSON.PrettyPrint)
	if !ok {
		if selflog.IsEnabled() {
			selflog.Printf("[formatters] custom template unusable for %s: %q", entry.TypeName, raw)
		}
		return ""
	}

	props := entryProperties(entry)

	if parser.IsBareMetadataTemplate(tmpl) {
		buf, err := json.Marshal(props["Metadata"])
		if err != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[formatters] metadata marshal failed for %s.%s: %v", entry.TypeName, entry.MethodName, err)
			}
			return "{}"
		}
		return string(buf)
	}

	return tmpl.Render(props)
}
