// Package stages holds the stage catalog: built-in stages plus user-defined ones.
package stages

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/typestage/internal/model"
)

var builtin = []model.Stage{
	{
		ID:    "words",
		Title: "Stage 1: Words",
		Prompts: []string{
			"cat", "river", "light", "focus", "frame",
			"sound", "quick", "apple", "storm", "clear",
		},
	},
	{
		ID:    "phrases",
		Title: "Stage 2: Phrases",
		Prompts: []string{
			"type fast but stay accurate",
			"practice makes improvement",
			"keep your hands relaxed",
			"consistency beats intensity",
			"errors teach more than success",
		},
	},
	{
		ID:    "paragraph",
		Title: "Stage 3: Paragraphs",
		Prompts: []string{
			"Typing is a skill that improves with deliberate practice. Focus on accuracy first, then add speed.",
			"When learning to type, resist the urge to chase speed early. A steady approach builds durable skill.",
			"Good typists correct mistakes quickly without losing flow. They value precision under pressure.",
		},
	},
}

// Catalog is an ordered, id-keyed set of stages.
type Catalog struct {
	order []string
	byID  map[string]model.Stage
}

// NewCatalog returns a catalog seeded with the built-in stages.
func NewCatalog() *Catalog {
	c := &Catalog{byID: map[string]model.Stage{}}
	for _, s := range builtin {
		c.order = append(c.order, s.ID)
		c.byID[s.ID] = copyStage(s)
	}
	return c
}

// Add registers a custom stage. Ids are case-insensitive and may not shadow an existing stage.
func (c *Catalog) Add(stage model.Stage) error {
	id := normalizeID(stage.ID)
	if id == "" {
		return fmt.Errorf("stage id must not be empty")
	}
	if _, ok := c.byID[id]; ok {
		return fmt.Errorf("stage %q already exists", id)
	}
	if len(stage.Prompts) == 0 {
		return fmt.Errorf("stage %q has no prompts", id)
	}
	stage.ID = id
	if strings.TrimSpace(stage.Title) == "" {
		stage.Title = id
	}
	c.order = append(c.order, id)
	c.byID[id] = copyStage(stage)
	return nil
}

// Lookup returns the stage with the given id.
func (c *Catalog) Lookup(id string) (model.Stage, bool) {
	s, ok := c.byID[normalizeID(id)]
	if !ok {
		return model.Stage{}, false
	}
	return copyStage(s), true
}

// Stages returns all stages in catalog order.
func (c *Catalog) Stages() []model.Stage {
	out := make([]model.Stage, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyStage(c.byID[id]))
	}
	return out
}

// IDs returns stage ids in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func copyStage(s model.Stage) model.Stage {
	s.Prompts = append([]string(nil), s.Prompts...)
	return s
}
