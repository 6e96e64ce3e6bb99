package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/typestage/internal/config"
	"github.com/verte-zerg/typestage/internal/game"
	"github.com/verte-zerg/typestage/internal/handoff"
	"github.com/verte-zerg/typestage/internal/model"
)

func TestValidateConfig(t *testing.T) {
	d, err := validateConfig(model.Config{Difficulty: "Easy"})
	if err != nil || d != game.Easy {
		t.Fatalf("expected easy, got %q err=%v", d, err)
	}
	_, err = validateConfig(model.Config{Difficulty: "brutal"})
	if err == nil || err.Error() != "--difficulty must be one of easy, normal, hard" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildHistoryConfig(t *testing.T) {
	cfg, err := buildHistoryConfig(" Words ", "HARD", "2024-02-03", 10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Stage != "words" || cfg.Difficulty != "hard" || cfg.Last != 10 || cfg.CurveWindow != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2024-02-03" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}

	bad := []struct {
		difficulty, since string
		last, window      int
	}{
		{"nope", "", 0, 1},
		{"", "03/02/2024", 0, 1},
		{"", "", -1, 1},
		{"", "", 0, 0},
	}
	for _, b := range bad {
		if _, err := buildHistoryConfig("", b.difficulty, b.since, b.last, b.window); err == nil {
			t.Fatalf("expected error for %+v", b)
		}
	}
}

func TestLoadCatalogAddsCustomStages(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("first line\n\nsecond line\n"), 0o644); err != nil {
		t.Fatalf("write prompts: %v", err)
	}
	fileCfg := config.FileConfig{Stages: map[string]config.StageConfig{
		"zeta":  {Title: "Zeta", Prompts: []string{"z"}},
		"alpha": {PromptsFile: "extra.txt"},
	}}
	catalog, err := loadCatalog(fileCfg, configPath)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	ids := catalog.IDs()
	want := []string{"words", "phrases", "paragraph", "alpha", "zeta"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected ids: %v", ids)
	}
	alpha, _ := catalog.Lookup("alpha")
	if len(alpha.Prompts) != 2 || alpha.Title != "alpha" {
		t.Fatalf("unexpected custom stage: %+v", alpha)
	}

	_, err = loadCatalog(config.FileConfig{Stages: map[string]config.StageConfig{
		"words": {Prompts: []string{"shadow"}},
	}}, configPath)
	if err == nil {
		t.Fatalf("expected built-in ids to be protected")
	}
}

func TestFormatStageList(t *testing.T) {
	lines := formatStageList([]model.Stage{
		{ID: "words", Title: "Stage 1: Words", Prompts: make([]string, 10)},
		{ID: "abc", Title: "ABC", Prompts: make([]string, 1)},
	}, "abc")
	if lines[0] != "  words  Stage 1: Words (10 prompts)" {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	if lines[1] != "* abc    ABC (1 prompts)" {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}

func TestStageSelectionErrorKeepsCause(t *testing.T) {
	err := stageSelectionError(handoff.ErrNoStageSelected)
	if !errors.Is(err, handoff.ErrNoStageSelected) {
		t.Fatalf("expected wrapped sentinel")
	}
	if !strings.Contains(err.Error(), "Run: typestage stages") {
		t.Fatalf("expected redirect hint, got %q", err.Error())
	}
}
