package guidance

import (
	"strings"
	"testing"
)

func TestLoadKnownTemplates(t *testing.T) {
	for _, name := range []string{"interviewer", "context_builder", "syllabus_builder", "reflection"} {
		got := Load(name)
		if got == "" {
			t.Errorf("Load(%q) returned empty template", name)
		}
		if strings.Contains(got, "not found") {
			t.Errorf("Load(%q) returned the placeholder", name)
		}
	}
}

func TestLoadUnknownTemplate(t *testing.T) {
	got := Load("does_not_exist")
	if got != "Prompt 'does_not_exist' not found" {
		t.Errorf("Load on unknown name = %q", got)
	}
}
