// Package game implements the typing session engine: difficulty profiles, the
// per-prompt countdown, scoring, and the session state machine.
package game

import (
	"fmt"
	"strings"
)

// Difficulty names a difficulty profile.
type Difficulty string

// Supported difficulties.
const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Profile holds the difficulty-dependent numbers.
type Profile struct {
	TimePerPrompt int // seconds
	ComboBonus    int
	MissPenalty   int
}

var profiles = map[Difficulty]Profile{
	Easy:   {TimePerPrompt: 24, ComboBonus: 5, MissPenalty: 8},
	Normal: {TimePerPrompt: 18, ComboBonus: 8, MissPenalty: 10},
	Hard:   {TimePerPrompt: 14, ComboBonus: 12, MissPenalty: 12},
}

// Difficulties lists difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Normal, Hard}
}

// ParseDifficulty resolves a difficulty name.
func ParseDifficulty(name string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := profiles[d]; !ok {
		return "", fmt.Errorf("unknown difficulty %q (available: easy, normal, hard)", name)
	}
	return d, nil
}

// Profile returns the profile for d. Unknown names fall back to normal.
func (d Difficulty) Profile() Profile {
	if p, ok := profiles[d]; ok {
		return p
	}
	return profiles[Normal]
}

// Next returns the following difficulty, wrapping from hard to easy.
func (d Difficulty) Next() Difficulty {
	all := Difficulties()
	for i, v := range all {
		if v == d {
			return all[(i+1)%len(all)]
		}
	}
	return Normal
}

func (d Difficulty) String() string {
	return string(d)
}
