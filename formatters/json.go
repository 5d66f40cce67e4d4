package formatters

import (
	"encoding/json"

	"github.com/weftlog/weft/configuration"
	"github.com/weftlog/weft/core"
	"github.com/weftlog/weft/selflog"
)

// JSONFormatter renders a LogEntry as a single compact (or, when
// configured, pretty-printed) JSON object, grounded on the teacher's CLEF
// formatter (internal/formatters/clef.go) but keyed by the LogEntry's own
// field names rather than CLEF's reserved "@" fields, since entries here
// describe method invocations rather than generic log events.
type JSONFormatter struct {
	pretty bool
}

// NewJSONFormatter creates a JSON formatter honoring
// Config.Formatters.JSON.PrettyPrint.
func NewJSONFormatter(cfg *configuration.Config) *JSONFormatter {
	return &JSONFormatter{pretty: cfg.Formatters.JSON.PrettyPrint}
}

// Name returns "json".
func (f *JSONFormatter) Name() string { return "json" }

type jsonEntry struct {
	ID              string           `json:"id"`
	TypeName        string           `json:"typeName"`
	MethodName      string           `json:"methodName"`
	ActivityID      string           `json:"activityId,omitempty"`
	TimestampStart  string           `json:"timestamp"`
	DurationMs      float64          `json:"durationMs"`
	Success         string           `json:"success"`
	InputParameters []core.Parameter `json:"inputParameters,omitempty"`
	OutputValue     any              `json:"outputValue,omitempty"`
	Exception       *core.ExceptionInfo `json:"exception,omitempty"`
}

// Format renders entry as JSON. A marshal failure (which would require a
// pathologically uncooperative Parameter.Value) is reported via selflog and
// degrades to a minimal JSON object rather than an empty string, so the
// sink still receives valid JSON.
func (f *JSONFormatter) Format(entry *core.LogEntry) string {
	je := jsonEntry{
		ID:              entry.ID.String(),
		TypeName:        entry.TypeName,
		MethodName:      entry.MethodName,
		ActivityID:      entry.ActivityID,
		TimestampStart:  entry.TimestampStart.UTC().Format("2006-01-02T15:04:05.000000000Z"),
		DurationMs:      entry.DurationTicks.Seconds() * 1000,
		Success:         entry.Success.String(),
		InputParameters: entry.InputParameters,
		Exception:       entry.Exception,
	}
	if entry.HasOutput {
		je.OutputValue = entry.OutputValue
	}

	var (
		buf []byte
		err error
	)
	if f.pretty {
		buf, err = json.MarshalIndent(je, "", "  ")
	} else {
		buf, err = json.Marshal(je)
	}
	if err != nil {
		if selflog.IsEnabled() {
			selflog.Printf("[formatters] json marshal failed for %s.%s: %v", entry.TypeName, entry.MethodName, err)
		}
		return `{"typeName":"` + entry.TypeName + `","methodName":"` + entry.MethodName + `","success":"` + entry.Success.String() + `"}`
	}
	return string(buf)
}
