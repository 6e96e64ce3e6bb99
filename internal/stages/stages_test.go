package stages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typestage/internal/config"
	"github.com/verte-zerg/typestage/internal/model"
)

func TestBuiltinCatalog(t *testing.T) {
	c := NewCatalog()
	ids := c.IDs()
	if len(ids) != 3 || ids[0] != "words" || ids[1] != "phrases" || ids[2] != "paragraph" {
		t.Fatalf("unexpected builtin ids: %v", ids)
	}
	words, ok := c.Lookup("words")
	if !ok {
		t.Fatalf("expected words stage")
	}
	if len(words.Prompts) != 10 || words.Prompts[0] != "cat" {
		t.Fatalf("unexpected words prompts: %v", words.Prompts)
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Fatalf("expected unknown stage lookup to fail")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c := NewCatalog()
	s, _ := c.Lookup("words")
	s.Prompts[0] = "dog"
	again, _ := c.Lookup("words")
	if again.Prompts[0] != "cat" {
		t.Fatalf("catalog mutated through lookup result")
	}
}

func TestAddCustomStage(t *testing.T) {
	c := NewCatalog()
	if err := c.Add(model.Stage{ID: " Drill ", Prompts: []string{"asdf"}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	s, ok := c.Lookup("drill")
	if !ok {
		t.Fatalf("expected custom stage")
	}
	if s.Title != "drill" {
		t.Fatalf("expected title to default to id, got %q", s.Title)
	}
	if err := c.Add(model.Stage{ID: "words", Prompts: []string{"x"}}); err == nil {
		t.Fatalf("expected builtin shadowing to fail")
	}
	if err := c.Add(model.Stage{ID: "empty"}); err == nil {
		t.Fatalf("expected empty stage to fail")
	}
	if got := c.IDs(); got[len(got)-1] != "drill" {
		t.Fatalf("expected custom stage appended last, got %v", got)
	}
}

func TestFromConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(filepath.Join(dir, "drill.txt"), []byte("one\n\n  two  \nbad\ttab\n"), 0o644); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	s, err := FromConfig("drill", config.StageConfig{
		Title:       "Drill",
		Prompts:     []string{"zero", "  "},
		PromptsFile: "drill.txt",
	}, cfgPath)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	want := []string{"zero", "one", "two"}
	if len(s.Prompts) != len(want) {
		t.Fatalf("expected %v, got %v", want, s.Prompts)
	}
	for i := range want {
		if s.Prompts[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, s.Prompts)
		}
	}
}

func TestFromConfigMissingFile(t *testing.T) {
	_, err := FromConfig("drill", config.StageConfig{PromptsFile: "missing.txt"}, filepath.Join(t.TempDir(), "config.toml"))
	if err == nil {
		t.Fatalf("expected missing prompt file to fail")
	}
}
