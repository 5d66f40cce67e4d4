package formatters

import (
	"fmt"

	"github.com/weftlog/weft/core"
)

// entryProperties projects a LogEntry onto the flat property map the
// template engine renders placeholders against. Every field a built-in or
// custom template can reference is added here once so each Formatter
// doesn't have to re-derive it.
func entryProperties(entry *core.LogEntry) map[string]any {
	props := map[string]any{
		"Id":         entry.ID.String(),
		"TypeName":   entry.TypeName,
		"MethodName": entry.MethodName,
		"ActivityId": entry.ActivityID,
		"ThreadId":   entry.ThreadID,
		"Timestamp":  entry.TimestampStart,
		"Duration":   entry.DurationTicks.Seconds() * 1000,
		"Success":    entry.Success.String(),
	}

	if entry.InputParameters != nil {
		props["InputParameters"] = entry.InputParameters
	}
	if entry.HasOutput {
		props["OutputValue"] = entry.OutputValue
	}
	if entry.Exception != nil {
		props["Exception"] = exceptionText(entry.Exception)
	} else {
		props["Exception"] = ""
	}

	props["Metadata"] = entryMetadata(entry)

	return props
}

// entryMetadata collects the structured, non-message payload of entry
// (its captured arguments, return value, and failure) under a single key
// so a template can reference {Metadata} as one unit instead of naming
// each field, matching the fallback a host falls back to when it wants
// the whole structured record rather than a curated subset.
func entryMetadata(entry *core.LogEntry) map[string]any {
	m := map[string]any{}
	if entry.InputParameters != nil {
		m["inputParameters"] = entry.InputParameters
	}
	if entry.HasOutput {
		m["outputValue"] = entry.OutputValue
	}
	if entry.Exception != nil {
		m["exception"] = entry.Exception
	}
	return m
}

func exceptionText(ex *core.ExceptionInfo) string {
	if ex.BaseCauseKindName != "" && ex.BaseCauseKindName != ex.KindName {
		return fmt.Sprintf("%s: %s (caused by %s)", ex.KindName, ex.Message, ex.BaseCauseKindName)
	}
	return fmt.Sprintf("%s: %s", ex.KindName, ex.Message)
}
