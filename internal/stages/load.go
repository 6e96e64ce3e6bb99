package stages

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/typestage/internal/config"
	"github.com/verte-zerg/typestage/internal/model"
)

// LoadPrompts reads one prompt per line from the provided file path.
func LoadPrompts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only prompt file.
			_ = cerr
		}
	}()

	var prompts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompt file is empty")
	}
	return prompts, nil
}

// FromConfig builds a custom stage from its config entry. Relative prompt files are
// resolved against the config file's directory.
func FromConfig(id string, sc config.StageConfig, configPath string) (model.Stage, error) {
	prompts := FilterPrompts(sc.Prompts, Printable)
	if sc.PromptsFile != "" {
		path := config.ResolvePath(configPath, sc.PromptsFile)
		loaded, err := LoadPrompts(path)
		if err != nil {
			return model.Stage{}, fmt.Errorf("failed to load prompts for stage %q from %s: %w", id, path, err)
		}
		prompts = append(prompts, FilterPrompts(loaded, Printable)...)
	}
	if len(prompts) == 0 {
		return model.Stage{}, fmt.Errorf("stage %q has no usable prompts", id)
	}
	return model.Stage{ID: id, Title: sc.Title, Prompts: prompts}, nil
}
