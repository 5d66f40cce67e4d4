package interceptor

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/selflog"
)

// Cache is the decision cache (C1): a write-once, lock-free-on-read map
// from MethodKey to *core.Decision, populated lazily (or eagerly via
// Precompute) and never mutated after a key is first written.
type Cache struct {
	decisions sync.Map // MethodKey -> *core.Decision (typed nil means "no decision")

	registry *Registry
	cfg      *configuration.Config
}

// NewCache builds a decision cache over the given registry and
// configuration. The configuration is read only during resolution and is
// never mutated by the cache.
func NewCache(registry *Registry, cfg *configuration.Config) *Cache {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	return &Cache{registry: registry, cfg: cfg}
}

// DecisionFor returns the cached decision for m, resolving and caching it
// on first touch. A nil return means m must run without logging overhead.
func (c *Cache) DecisionFor(m MethodKey) *core.Decision {
	if v, ok := c.decisions.Load(m); ok {
		return v.(*core.Decision)
	}

	d := c.resolve(m)
	// LoadOrStore so a race between two first-touches still converges on a
	// single cached value; resolve is pure so either value is equivalent.
	actual, _ := c.decisions.LoadOrStore(m, d)
	return actual.(*core.Decision)
}

// Precompute eagerly resolves decisions for every registered concrete
// type's exported methods. Called by the Lifecycle Controller at startup
// so the first real invocation of any registered method never pays the
// resolution cost.
func (c *Cache) Precompute() {
	for _, reg := range c.registry.snapshot() {
		t := reg.concrete
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			key := MethodKey{DeclaringType: t, Name: m.Name}
			c.DecisionFor(key)
		}
	}
}

// resolve computes the three-tier precedence decision for m. It never
// panics: any internal error is reported once via selflog and yields "no
// decision."
func (c *Cache) resolve(m MethodKey) (decision *core.Decision) {
	defer func() {
		if r := recover(); r != nil {
			if selflog.IsEnabled() {
				selflog.Printf("[interceptor] cache resolution panic for %s.%s: %v", methodTypeName(m.DeclaringType), m.Name, r)
			}
			decision = nil
		}
	}()

	reg := c.registry.findByConcreteType(m.DeclaringType)
	if reg == nil && m.DeclaringType != nil && m.DeclaringType.Kind() == reflect.Interface {
		reg = c.registry.findByInterface(m.DeclaringType)
	}

	if reg != nil && reg.manualLogger {
		// The type declared it logs explicitly through the manual facade;
		// it must never be auto-intercepted.
		return nil
	}

	typeName := methodTypeName(m.DeclaringType)

	// Tier 1: registration tags.
	if reg != nil {
		if reg.noLogType || reg.noAutoLogType {
			return nil
		}
		if d, ok := reg.methodDecisions[m.Name]; ok {
			// An explicit entry of nil means "no-log this method."
			return d
		}
	}

	// Tier 2: configuration patterns.
	if pattern, ok := c.cfg.MatchService(typeName); ok {
		if matchesAny(pattern.ExcludeMethodPatterns, m.Name) {
			return nil
		}
		behavior := pattern.Behavior()
		if behavior == core.BehaviorNone {
			return nil
		}
		d := &core.Decision{
			Behavior:              behavior,
			Level:                 pattern.Level,
			ErrorLevel:            pattern.ExceptionLevel,
			ExcludeMethodPatterns: pattern.ExcludeMethodPatterns,
		}
		if pattern.Target != "" {
			d.Target = &pattern.Target
		}
		if pattern.Formatter != "" {
			d.Formatter = &pattern.Formatter
		}
		return d
	}

	// Tier 3: auto-interception default.
	if !c.cfg.AutoIntercept {
		return nil
	}

	return &core.Decision{
		Behavior:   core.BehaviorLogInput,
		Level:      core.InformationLevel,
		ErrorLevel: core.ErrorLevel,
	}
}

func methodTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
}
