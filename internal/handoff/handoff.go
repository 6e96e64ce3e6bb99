// Package handoff passes the selected stage into a session and the finished result out
// to the results view through a small key-value store.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/typestage/internal/model"
)

// Keys used in the hand-off store.
const (
	SelectedStageKey = "selectedStage"
	ResultKey        = "gameResult"
)

var (
	// ErrNoStageSelected means no stage id has been handed off yet.
	ErrNoStageSelected = errors.New("no stage selected")
	// ErrUnknownStage means the handed-off id is not in the catalog.
	ErrUnknownStage = errors.New("unknown stage")
)

// KV is the hand-off store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Catalog resolves stage ids.
type Catalog interface {
	Lookup(id string) (model.Stage, bool)
}

// HistoryWriter persists finished sessions.
type HistoryWriter interface {
	InsertResult(ctx context.Context, rec model.ResultRecord) error
}

// SelectStage validates id against the catalog and stores it as the selection.
func SelectStage(ctx context.Context, kv KV, catalog Catalog, id string) (model.Stage, error) {
	stage, ok := catalog.Lookup(id)
	if !ok {
		return model.Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	if err := kv.Set(ctx, SelectedStageKey, stage.ID); err != nil {
		return model.Stage{}, fmt.Errorf("failed to store stage selection: %w", err)
	}
	return stage, nil
}

// SelectedStage resolves the stored selection. A missing or unrecognized id is a
// precondition failure; callers send the player back to stage selection.
func SelectedStage(ctx context.Context, kv KV, catalog Catalog) (model.Stage, error) {
	id, ok, err := kv.Get(ctx, SelectedStageKey)
	if err != nil {
		return model.Stage{}, fmt.Errorf("failed to read stage selection: %w", err)
	}
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return model.Stage{}, ErrNoStageSelected
	}
	stage, ok := catalog.Lookup(id)
	if !ok {
		return model.Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	return stage, nil
}

// LoadResult reads the last exported summary.
func LoadResult(ctx context.Context, kv KV) (model.ResultSummary, bool, error) {
	raw, ok, err := kv.Get(ctx, ResultKey)
	if err != nil {
		return model.ResultSummary{}, false, fmt.Errorf("failed to read result: %w", err)
	}
	if !ok {
		return model.ResultSummary{}, false, nil
	}
	var summary model.ResultSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return model.ResultSummary{}, false, fmt.Errorf("failed to decode result: %w", err)
	}
	return summary, true, nil
}

// Exporter writes finished sessions to the hand-off store and, when configured, history.
type Exporter struct {
	kv      KV
	history HistoryWriter
	newID   func() string
}

// NewExporter returns an exporter. history may be nil.
func NewExporter(kv KV, history HistoryWriter) *Exporter {
	return &Exporter{
		kv:      kv,
		history: history,
		newID:   func() string { return uuid.New().String() },
	}
}

// Export stores rec's summary as JSON under ResultKey and appends rec to history.
// It returns the record with its assigned ID.
func (e *Exporter) Export(ctx context.Context, rec model.ResultRecord) (model.ResultRecord, error) {
	payload, err := json.Marshal(rec.Summary)
	if err != nil {
		return rec, fmt.Errorf("failed to encode result: %w", err)
	}
	if err := e.kv.Set(ctx, ResultKey, string(payload)); err != nil {
		return rec, fmt.Errorf("failed to store result: %w", err)
	}
	if e.history == nil {
		return rec, nil
	}
	if rec.ID == "" {
		rec.ID = e.newID()
	}
	if err := e.history.InsertResult(ctx, rec); err != nil {
		return rec, fmt.Errorf("failed to save result history: %w", err)
	}
	return rec, nil
}
