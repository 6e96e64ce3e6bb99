// Package generator arranges the prompt order of a stage.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/typestage/internal/model"
)

// Generator produces randomized prompt orders.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a copy of prompts in random order.
func (g *Generator) Shuffle(prompts []string) []string {
	out := append([]string(nil), prompts...)
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Arrange returns the stage with its prompts shuffled when shuffle is set.
func (g *Generator) Arrange(stage model.Stage, shuffle bool) model.Stage {
	if !shuffle {
		return stage
	}
	stage.Prompts = g.Shuffle(stage.Prompts)
	return stage
}
