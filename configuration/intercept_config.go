package configuration

import (
	"strings"
	"time"

	"github.com/weftlog/weft/core"
)

// Config is the flat, host-agnostic configuration consumed by the
// interception pipeline (cache, queue, drain worker, formatters, router).
type Config struct {
	AutoIntercept bool

	QueueCapacity int
	MaxBatchSize  int
	BatchTimeout  time.Duration

	DefaultTarget            string
	DefaultFormatter         string
	FallbackTemplate         string
	EnableFallbackFormatting bool

	ActivitySourceName string
	ShutdownTimeout    time.Duration

	Services  map[string]ServicePattern
	Targets   map[string]TargetConfig
	Templates map[string]TemplateConfig

	Formatters FormattersConfig
}

// ServicePattern is one `Services.<selector>` configuration entry. Selector
// is either an exact fully-qualified type name or a `prefix*` wildcard.
type ServicePattern struct {
	Selector string

	LogInput  bool
	LogOutput bool
	LogBoth   bool

	Level                 core.LogEventLevel
	ExceptionLevel        core.LogEventLevel
	Target                string
	Formatter             string
	ExcludeMethodPatterns []string
}

// Behavior derives the core.Behavior implied by the LogInput/LogOutput/LogBoth flags.
func (s ServicePattern) Behavior() core.Behavior {
	switch {
	case s.LogBoth:
		return core.BehaviorLogBoth
	case s.LogOutput:
		return core.BehaviorLogOutput
	case s.LogInput:
		return core.BehaviorLogInput
	default:
		return core.BehaviorNone
	}
}

// TargetConfig is one `Targets.<name>` configuration entry, passed through
// to whatever sink factory the host registers for Type.
type TargetConfig struct {
	Type       string
	Enabled    bool
	Properties map[string]any
}

// TemplateConfig is one `Templates.<name>` configuration entry.
type TemplateConfig struct {
	Enabled          bool
	SuccessTemplate  string
	ErrorTemplate    string
	GeneralTemplate  string
}

// FormattersConfig groups per-formatter settings.
type FormattersConfig struct {
	JSON struct {
		PrettyPrint bool
	}
	CustomTemplate struct {
		DefaultTemplate  string
		ServiceTemplates map[string]string
	}
	Hybrid struct {
		MessageTemplate string
	}
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		QueueCapacity:            10000,
		MaxBatchSize:             100,
		BatchTimeout:             time.Second,
		DefaultTarget:            "Console",
		DefaultFormatter:         "standard",
		FallbackTemplate:         "{TypeName}.{MethodName} success={Success} id={Id}",
		EnableFallbackFormatting: true,
		ShutdownTimeout:          5 * time.Second,
		Services:                 make(map[string]ServicePattern),
		Targets:                 make(map[string]TargetConfig),
		Templates:                make(map[string]TemplateConfig),
	}
}

// MatchService resolves the ServicePattern applicable to typeName using the
// precedence rule: an exact match beats any wildcard; among wildcards, the
// longest matching prefix wins.
func (c *Config) MatchService(typeName string) (ServicePattern, bool) {
	if exact, ok := c.Services[typeName]; ok {
		return exact, true
	}

	var best ServicePattern
	bestLen := -1
	found := false
	for selector, pattern := range c.Services {
		if !strings.HasSuffix(selector, "*") {
			continue
		}
		prefix := selector[:len(selector)-1]
		if strings.HasPrefix(typeName, prefix) && len(prefix) > bestLen {
			best = pattern
			bestLen = len(prefix)
			found = true
		}
	}
	return best, found
}

// MatchFormatterTemplate resolves Formatters.CustomTemplate.ServiceTemplates
// using the same longest-prefix rule as MatchService, falling back to the
// configured default template.
func (c *Config) MatchFormatterTemplate(typeName string) string {
	if exact, ok := c.Formatters.CustomTemplate.ServiceTemplates[typeName]; ok {
		return exact
	}
	best := ""
	bestLen := -1
	for selector, tmpl := range c.Formatters.CustomTemplate.ServiceTemplates {
		if !strings.HasSuffix(selector, "*") {
			continue
		}
		prefix := selector[:len(selector)-1]
		if strings.HasPrefix(typeName, prefix) && len(prefix) > bestLen {
			best = tmpl
			bestLen = len(prefix)
		}
	}
	if bestLen >= 0 {
		return best
	}
	return c.Formatters.CustomTemplate.DefaultTemplate
}

// MatchTarget resolves Services.<selector>.Target for typeName, falling
// back to DefaultTarget.
func (c *Config) MatchTarget(typeName string) string {
	if p, ok := c.MatchService(typeName); ok && p.Target != "" {
		return p.Target
	}
	return c.DefaultTarget
}

// FromMap builds a Config from a flat key/value map, starting from
// DefaultConfig. It reads AutoIntercept, QueueCapacity, MaxBatchSize,
// BatchTimeout, DefaultTarget, DefaultFormatter, FallbackTemplate,
// EnableFallbackFormatting, ActivitySourceName, ShutdownTimeout and the
// dotted keys Formatters.Json.PrettyPrint,
// Formatters.CustomTemplate.DefaultTemplate and
// Formatters.Hybrid.MessageTemplate; a value of the wrong type is ignored.
// Services, Targets, Templates and ServiceTemplates are not populated from
// the map. Unknown keys are ignored.
func FromMap(m map[string]any) *Config {
	cfg := DefaultConfig()

	if v, ok := m["AutoIntercept"].(bool); ok {
		cfg.AutoIntercept = v
	}
	if v, ok := m["QueueCapacity"].(int); ok && v > 0 {
		cfg.QueueCapacity = v
	}
	if v, ok := m["MaxBatchSize"].(int); ok && v > 0 {
		cfg.MaxBatchSize = v
	}
	if v, ok := m["BatchTimeout"].(time.Duration); ok {
		cfg.BatchTimeout = v
	}
	if v, ok := m["DefaultTarget"].(string); ok {
		cfg.DefaultTarget = v
	}
	if v, ok := m["DefaultFormatter"].(string); ok {
		cfg.DefaultFormatter = v
	}
	if v, ok := m["FallbackTemplate"].(string); ok {
		cfg.FallbackTemplate = v
	}
	if v, ok := m["EnableFallbackFormatting"].(bool); ok {
		cfg.EnableFallbackFormatting = v
	}
	if v, ok := m["ActivitySourceName"].(string); ok {
		cfg.ActivitySourceName = v
	}
	if v, ok := m["ShutdownTimeout"].(time.Duration); ok {
		cfg.ShutdownTimeout = v
	}
	if v, ok := m["Formatters.Json.PrettyPrint"].(bool); ok {
		cfg.Formatters.JSON.PrettyPrint = v
	}
	if v, ok := m["Formatters.CustomTemplate.DefaultTemplate"].(string); ok {
		cfg.Formatters.CustomTemplate.DefaultTemplate = v
	}
	if v, ok := m["Formatters.Hybrid.MessageTemplate"].(string); ok {
		cfg.Formatters.Hybrid.MessageTemplate = v
	}

	return cfg
}
