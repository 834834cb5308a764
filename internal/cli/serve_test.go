package cli

import "testing"

func TestResolveModelPath(t *testing.T) {
	withModel := Config{Server: ServerConfig{Model: "configured.json"}}

	// The positional argument wins over the config value.
	got, err := resolveModelPath([]string{"cli.json"}, withModel)
	if err != nil {
		t.Fatalf("resolveModelPath error: %v", err)
	}
	if got != "cli.json" {
		t.Errorf("path = %s, want cli.json", got)
	}

	// Without an argument the config supplies the model.
	got, err = resolveModelPath(nil, withModel)
	if err != nil {
		t.Fatalf("resolveModelPath error: %v", err)
	}
	if got != "configured.json" {
		t.Errorf("path = %s, want configured.json", got)
	}

	// Neither source set is an error, not an empty path.
	if _, err := resolveModelPath(nil, Config{}); err == nil {
		t.Error("expected an error when no model is configured")
	}
}
