// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Stage      string
	Difficulty string
	Shuffle    bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Stage       string
	Difficulty  string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Stage is an ordered collection of prompts under one title.
type Stage struct {
	ID      string
	Title   string
	Prompts []string
}

// ResultSummary is the snapshot handed to the results view when a stage ends.
type ResultSummary struct {
	Stage    string `json:"stage"`
	Progress string `json:"progress"`
	Score    int    `json:"score"`
	Accuracy int    `json:"accuracy"`
	WPM      int    `json:"wpm"`
	Misses   int    `json:"misses"`
	MaxCombo int    `json:"maxCombo"`
	TimeLeft string `json:"timeLeft"`
}

// ResultRecord captures a finished session for history.
type ResultRecord struct {
	ID              string
	StageID         string
	Difficulty      string
	StartedAt       time.Time
	FinishedAt      time.Time
	PromptsDone     int
	PromptsTotal    int
	TimeLeftSeconds int
	Summary         ResultSummary
}
