package formatters

import (
	"strings"
	"testing"

	"github.com/weftlog/weft/configuration"
)

func TestHybridFormatter_DefaultSuffixIsMetadataJSON(t *testing.T) {
	cfg := configuration.DefaultConfig()
	f := NewHybridFormatter(cfg)

	e := newEntry("Svc", "Do")
	e.OutputValue = "result"
	e.HasOutput = true

	out := f.Format(e)
	if !strings.Contains(out, "Svc.Do") {
		t.Errorf("missing standard prefix: %q", out)
	}
	if !strings.Contains(out, `"outputValue":"result"`) {
		t.Errorf("missing metadata suffix: %q", out)
	}
}

func TestHybridFormatter_NoSuffixWhenMetadataEmpty(t *testing.T) {
	cfg := configuration.DefaultConfig()
	f := NewHybridFormatter(cfg)

	out := f.Format(newEntry("Svc", "Do"))
	if strings.Contains(out, "{") {
		t.Errorf("expected no JSON suffix for an entry with no metadata, got %q", out)
	}
}

func TestHybridFormatter_ConfiguredTemplateSuffix(t *testing.T) {
	cfg := configuration.DefaultConfig()
	cfg.Formatters.Hybrid.MessageTemplate = "tag={TypeName}"
	f := NewHybridFormatter(cfg)

	out := f.Format(newEntry("Svc", "Do"))
	if !strings.HasSuffix(out, "tag=Svc") {
		t.Errorf("out = %q", out)
	}
}
