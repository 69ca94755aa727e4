package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalString(t *testing.T) {
	type payload struct {
		Name OptionalString `json:"name"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{name: "absent", body: `{}`, wantPresent: false},
		{name: "null clears", body: `{"name": null}`, wantPresent: true, wantValue: nil},
		{name: "value", body: `{"name": "bot"}`, wantPresent: true, wantValue: strPtr("bot")},
		{name: "empty string is a value", body: `{"name": ""}`, wantPresent: true, wantValue: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Name.Present != tt.wantPresent {
				t.Fatalf("Present = %v, want %v", p.Name.Present, tt.wantPresent)
			}
			if tt.wantValue == nil {
				if p.Name.Value != nil {
					t.Errorf("Value = %q, want nil", *p.Name.Value)
				}
				return
			}
			if p.Name.Value == nil || *p.Name.Value != *tt.wantValue {
				t.Errorf("Value = %v, want %q", p.Name.Value, *tt.wantValue)
			}
		})
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var o OptionalString
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("non-string value accepted")
	}
}

func strPtr(s string) *string { return &s }
