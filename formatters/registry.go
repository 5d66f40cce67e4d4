// Package formatters turns a completed core.LogEntry into the string a
// sink ultimately writes (C6/C8). It mirrors the teacher's internal
// template-cache discipline (see internal/parser) while adding the
// decision-oriented formatter selection the interception pipeline needs:
// each LogEntry names, via Decision.Formatter or configuration, which of
// the registered Formatters should render it.
package formatters

import (
	"sync"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
)

// Formatter renders a completed LogEntry to its final text form.
type Formatter interface {
	// Name identifies this formatter for Decision.Formatter /
	// configuration lookups (e.g. "standard", "json", "custom-template").
	Name() string

	// Format renders entry to its final string form. It must not panic;
	// Writer recovers defensively regardless, but a well-behaved Formatter
	// reports its own errors by returning a degraded string.
	Format(entry *core.LogEntry) string
}

// Registry holds the formatters available to the Log Entry Writer,
// resolved by name.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]Formatter
	defaultFmt string
}

// NewRegistry builds a Registry seeded with the standard set of built-in
// formatters (standard, success-error, json, custom-template, hybrid),
// compiled against cfg.
func NewRegistry(cfg *configuration.Config) *Registry {
	r := &Registry{
		byName:     make(map[string]Formatter),
		defaultFmt: cfg.DefaultFormatter,
	}
	r.Register(NewStandardFormatter())
	r.Register(NewSuccessErrorFormatter())
	r.Register(NewJSONFormatter(cfg))
	r.Register(NewCustomTemplateFormatter(cfg))
	r.Register(NewHybridFormatter(cfg))
	return r
}

// Register adds or replaces a formatter under its own Name().
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[f.Name()] = f
}

// Select resolves the formatter that should render entry: Decision.Formatter
// (carried on entry.Formatter) wins when set and registered, otherwise the
// registry's configured default, falling back to the standard formatter if
// even that name is unregistered.
func (r *Registry) Select(entry *core.LogEntry) Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry.Formatter != nil {
		if f, ok := r.byName[*entry.Formatter]; ok {
			return f
		}
	}
	if f, ok := r.byName[r.defaultFmt]; ok {
		return f
	}
	return r.byName["standard"]
}
