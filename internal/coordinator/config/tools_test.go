package config

import "testing"

func TestAllTools_UniqueNames(t *testing.T) {
	tools := AllTools()
	if len(tools) != 13 {
		t.Fatalf("expected 13 tools, got %d", len(tools))
	}

	seen := make(map[string]bool, len(tools))
	for _, name := range tools {
		if name == "" {
			t.Error("empty tool name")
		}
		if seen[name] {
			t.Errorf("duplicate tool name %q", name)
		}
		seen[name] = true
	}
}
