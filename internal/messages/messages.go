// Package messages holds the canned conversation texts the resolver falls
// back to. They ship as an embedded YAML file so a deployment can re-skin the
// bot's voice without touching resolver code.
package messages

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"botflow/internal/flow"
)

//go:embed config/messages.yaml
var configFiles embed.FS

// Default returns the built-in fallback texts.
func Default() flow.Messages {
	return flow.Messages{
		NotConfigured:  "I'm sorry, I'm not configured properly. Please contact support.",
		UnknownState:   "Thank you for your message. Our team will get back to you soon.",
		DefaultAnswer:  "Thank you for your message. Our team will get back to you soon.",
		SelectedFormat: "Thank you for selecting %q. Our team will help you with this request.",
		NoMatch:        "I'm not sure how to help with that. Can you please rephrase your question?",
	}
}

// Load reads the embedded messages file. Fields left empty there fall back
// to the defaults, so the file only needs to name what it overrides.
func Load() (flow.Messages, error) {
	data, err := configFiles.ReadFile("config/messages.yaml")
	if err != nil {
		return flow.Messages{}, fmt.Errorf("read messages file: %w", err)
	}

	var loaded flow.Messages
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return flow.Messages{}, fmt.Errorf("unmarshal messages file: %w", err)
	}

	msgs := Default()
	if loaded.NotConfigured != "" {
		msgs.NotConfigured = loaded.NotConfigured
	}
	if loaded.UnknownState != "" {
		msgs.UnknownState = loaded.UnknownState
	}
	if loaded.DefaultAnswer != "" {
		msgs.DefaultAnswer = loaded.DefaultAnswer
	}
	if loaded.SelectedFormat != "" {
		msgs.SelectedFormat = loaded.SelectedFormat
	}
	if loaded.NoMatch != "" {
		msgs.NoMatch = loaded.NoMatch
	}
	return msgs, nil
}
