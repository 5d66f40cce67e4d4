package interceptor

import (
	"reflect"
	"sync"

	"github.com/weftlog/weft/core"
)

// MethodKey identifies a candidate method for interception. Call sites
// (typically generated or hand-written shims) build a MethodKey once and
// reuse it, so DecisionFor never allocates on the hot path.
type MethodKey struct {
	DeclaringType reflect.Type
	Name          string
}

// typeRegistration holds everything a single Register[T] call recorded
// about a concrete type.
type typeRegistration struct {
	concrete     reflect.Type
	interfaces   []reflect.Type
	manualLogger bool

	// methodDecisions holds tier-1 overrides keyed by method name. A value
	// of nil means "no-log" was declared for that method.
	methodDecisions map[string]*core.Decision
	noLogType       bool
	noAutoLogType   bool
}

// Registry is the host-maintained set of candidate concrete types.
// It is the Go stand-in for the distilled spec's dependency-injection
// container scan: instead of reflecting over an assembly at startup, the
// host calls Register[T] once per type it wants eligible for interception.
type Registry struct {
	mu    sync.Mutex
	types []*typeRegistration
	// byInterface maps an interface type to every concrete type registered
	// as implementing it, built lazily as registrations land.
	byInterface map[reflect.Type][]*typeRegistration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byInterface: make(map[reflect.Type][]*typeRegistration)}
}

// registrationBuilder accumulates RegisterOption effects before the final
// typeRegistration is committed to the Registry.
type registrationBuilder struct {
	interfaces      []reflect.Type
	manualLogger    bool
	methodDecisions map[string]*core.Decision
	noLogType       bool
	noAutoLogType   bool
}

// RegisterOption configures a Register[T] call.
type RegisterOption func(*registrationBuilder)

// DecisionOption refines a per-method Decision built by LogInput/LogOutput/LogBoth.
type DecisionOption func(*core.Decision)

// AtLevel sets the success-path severity.
func AtLevel(level core.LogEventLevel) DecisionOption {
	return func(d *core.Decision) { d.Level = level }
}

// WithErrorLevel sets the failure-path severity.
func WithErrorLevel(level core.LogEventLevel) DecisionOption {
	return func(d *core.Decision) { d.ErrorLevel = level }
}

// ToTarget overrides the sink target name.
func ToTarget(name string) DecisionOption {
	return func(d *core.Decision) { d.Target = &name }
}

// WithFormatterName overrides the formatter name.
func WithFormatterName(name string) DecisionOption {
	return func(d *core.Decision) { d.Formatter = &name }
}

func newDecision(behavior core.Behavior, opts []DecisionOption) *core.Decision {
	d := &core.Decision{
		Behavior:   behavior,
		Level:      core.InformationLevel,
		ErrorLevel: core.ErrorLevel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NoLog vetoes interception for a single method, regardless of any lower
// precedence tier.
func NoLog(methodName string) RegisterOption {
	return func(b *registrationBuilder) {
		b.ensureMethods()
		b.methodDecisions[methodName] = nil
	}
}

// NoAutoLog vetoes interception for a single method at every tier, exactly
// like NoLog: configuration patterns and the auto-interception default do
// not apply to it.
func NoAutoLog(methodName string) RegisterOption {
	return NoLog(methodName)
}

// LogInput declares a method logs its input parameters.
func LogInput(methodName string, opts ...DecisionOption) RegisterOption {
	return func(b *registrationBuilder) {
		b.ensureMethods()
		b.methodDecisions[methodName] = newDecision(core.BehaviorLogInput, opts)
	}
}

// LogOutput declares a method logs its return value.
func LogOutput(methodName string, opts ...DecisionOption) RegisterOption {
	return func(b *registrationBuilder) {
		b.ensureMethods()
		b.methodDecisions[methodName] = newDecision(core.BehaviorLogOutput, opts)
	}
}

// LogBoth declares a method logs both input and output.
func LogBoth(methodName string, opts ...DecisionOption) RegisterOption {
	return func(b *registrationBuilder) {
		b.ensureMethods()
		b.methodDecisions[methodName] = newDecision(core.BehaviorLogBoth, opts)
	}
}

// NoLogType vetoes interception for every method of the registered type.
func NoLogType() RegisterOption {
	return func(b *registrationBuilder) { b.noLogType = true }
}

// NoAutoLogType vetoes interception for every method of the registered type
// at every tier, like NoLogType.
func NoAutoLogType() RegisterOption {
	return func(b *registrationBuilder) { b.noAutoLogType = true }
}

// WithManualLogger marks the type as choosing explicit logging through the
// manual facade. Such types are never auto-intercepted.
func WithManualLogger() RegisterOption {
	return func(b *registrationBuilder) { b.manualLogger = true }
}

// Implements records that the registered concrete type satisfies Iface,
// enabling the cache to resolve an interface-typed call site to the
// concrete type's decisions. It panics at registration time (not on the
// hot path) if the concrete type does not actually implement Iface.
func Implements[Iface any]() RegisterOption {
	return func(b *registrationBuilder) {
		ifaceType := reflect.TypeOf((*Iface)(nil)).Elem()
		b.interfaces = append(b.interfaces, ifaceType)
	}
}

func (b *registrationBuilder) ensureMethods() {
	if b.methodDecisions == nil {
		b.methodDecisions = make(map[string]*core.Decision)
	}
}

// Register records T as a candidate for interception.
func Register[T any](r *Registry, opts ...RegisterOption) {
	b := &registrationBuilder{}
	for _, opt := range opts {
		opt(b)
	}

	concrete := reflect.TypeOf((*T)(nil)).Elem()

	for _, iface := range b.interfaces {
		if !concrete.Implements(iface) && !reflect.PointerTo(concrete).Implements(iface) {
			panic("interceptor: registered type does not implement declared interface")
		}
	}

	reg := &typeRegistration{
		concrete:        concrete,
		interfaces:      b.interfaces,
		manualLogger:    b.manualLogger,
		methodDecisions: b.methodDecisions,
		noLogType:       b.noLogType,
		noAutoLogType:   b.noAutoLogType,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, reg)
	for _, iface := range b.interfaces {
		r.byInterface[iface] = append(r.byInterface[iface], reg)
	}
}

// findByConcreteType returns the registration for exactly t, if any.
func (r *Registry) findByConcreteType(t reflect.Type) *typeRegistration {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.types {
		if reg.concrete == t {
			return reg
		}
	}
	return nil
}

// findByInterface resolves an interface type to its first registered
// implementation, matching the distilled spec's "scan known implementations"
// resolution step.
func (r *Registry) findByInterface(t reflect.Type) *typeRegistration {
	r.mu.Lock()
	defer r.mu.Unlock()
	impls := r.byInterface[t]
	if len(impls) == 0 {
		return nil
	}
	return impls[0]
}

// snapshot returns a copy of the registered types for precomputation.
func (r *Registry) snapshot() []*typeRegistration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*typeRegistration, len(r.types))
	copy(out, r.types)
	return out
}
