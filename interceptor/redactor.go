package interceptor

import "reflect"

// ParameterDescriptor identifies the parameter or property a value came
// from, so a Redactor can make masking decisions without inspecting the
// value itself.
type ParameterDescriptor struct {
	Name     string
	TypeName string
	Index    int
}

// Redactor masks sensitive values before they enter a LogEntry. The core
// never defines redaction policy; it only guarantees values never bypass
// the configured Redactor.
type Redactor interface {
	Redact(declaringType reflect.Type, p ParameterDescriptor, value any) any
}

// PassthroughRedactor returns every value unchanged. It is installed
// automatically when a host registers no Redactor, so the hot path never
// has to nil-check.
type PassthroughRedactor struct{}

// Redact returns value unchanged.
func (PassthroughRedactor) Redact(declaringType reflect.Type, p ParameterDescriptor, value any) any {
	return value
}
