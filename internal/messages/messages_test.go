package messages

import (
	"strings"
	"testing"
)

func TestDefault_AllTextsPresent(t *testing.T) {
	msgs := Default()

	if msgs.NotConfigured == "" || msgs.UnknownState == "" || msgs.DefaultAnswer == "" || msgs.NoMatch == "" {
		t.Fatalf("Default() has empty texts: %+v", msgs)
	}
	if !strings.Contains(msgs.SelectedFormat, "%q") {
		t.Errorf("SelectedFormat = %q, want a %%q verb for the option name", msgs.SelectedFormat)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	msgs, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Whatever the embedded file overrides, no field may come back empty.
	if msgs.NotConfigured == "" || msgs.UnknownState == "" || msgs.DefaultAnswer == "" || msgs.SelectedFormat == "" || msgs.NoMatch == "" {
		t.Fatalf("Load() left empty texts: %+v", msgs)
	}
}
