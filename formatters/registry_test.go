package formatters

import (
	"testing"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
)

func newEntry(typeName, method string) *core.LogEntry {
	e := core.NewLogEntry(typeName, method)
	e.Success = core.TriTrue
	return e
}

func TestRegistrySelect_DecisionOverrideWins(t *testing.T) {
	cfg := configuration.DefaultConfig()
	r := NewRegistry(cfg)

	e := newEntry("Svc", "Do")
	name := "json"
	e.Formatter = &name

	if got := r.Select(e).Name(); got != "json" {
		t.Errorf("Select = %q, want json", got)
	}
}

func TestRegistrySelect_FallsBackToDefault(t *testing.T) {
	cfg := configuration.DefaultConfig()
	cfg.DefaultFormatter = "hybrid"
	r := NewRegistry(cfg)

	e := newEntry("Svc", "Do")
	if got := r.Select(e).Name(); got != "hybrid" {
		t.Errorf("Select = %q, want hybrid", got)
	}
}

func TestRegistrySelect_UnregisteredOverrideFallsBackToDefault(t *testing.T) {
	cfg := configuration.DefaultConfig()
	r := NewRegistry(cfg)

	e := newEntry("Svc", "Do")
	name := "does-not-exist"
	e.Formatter = &name

	if got := r.Select(e).Name(); got != cfg.DefaultFormatter {
		t.Errorf("Select = %q, want %q", got, cfg.DefaultFormatter)
	}
}
