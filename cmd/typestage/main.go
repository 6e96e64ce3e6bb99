// Package main provides the CLI entrypoint for typestage.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typestage/internal/config"
	"github.com/verte-zerg/typestage/internal/game"
	"github.com/verte-zerg/typestage/internal/generator"
	"github.com/verte-zerg/typestage/internal/handoff"
	"github.com/verte-zerg/typestage/internal/model"
	"github.com/verte-zerg/typestage/internal/resultui"
	"github.com/verte-zerg/typestage/internal/stages"
	"github.com/verte-zerg/typestage/internal/stats"
	"github.com/verte-zerg/typestage/internal/store"
	"github.com/verte-zerg/typestage/internal/tui"
)

const (
	defaultDifficulty  = "normal"
	defaultCurveWindow = 5
)

var (
	playStage      string
	playDifficulty string
	playShuffle    bool

	historyStage       string
	historyDifficulty  string
	historySince       string
	historyLast        int
	historyCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typestage",
		Short:         "Stage-based typing game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playStage, "stage", "", "stage id to select before playing")
	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty (easy, normal, hard)")
	rootCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "shuffle prompt order")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStagesCmd())
	rootCmd.AddCommand(newSelectCmd())
	rootCmd.AddCommand(newResultCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "stage", &playStage, fileCfg.Play.Stage)
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Play.Difficulty)
	applyBoolConfig(cmd, "shuffle", &playShuffle, fileCfg.Play.Shuffle)

	cfg := model.Config{
		Stage:      strings.TrimSpace(playStage),
		Difficulty: playDifficulty,
		Shuffle:    playShuffle,
	}
	difficulty, err := validateConfig(cfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(fileCfg, configPath)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	if cfg.Stage != "" {
		if _, err := handoff.SelectStage(ctx, st, catalog, cfg.Stage); err != nil {
			return stageSelectionError(err)
		}
	}
	stage, err := handoff.SelectedStage(ctx, st, catalog)
	if err != nil {
		return stageSelectionError(err)
	}
	stage = generator.New().Arrange(stage, cfg.Shuffle)

	session, err := game.NewSession(stage, difficulty)
	if err != nil {
		return fmt.Errorf("failed to start stage %q: %w", stage.ID, err)
	}
	screen := tui.NewModel(session, handoff.NewExporter(st, st))
	program := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := screen.Err(); err != nil {
		return err
	}
	if !screen.Exported() {
		return nil
	}
	return runResultView(st, screen.Record().Summary, stage.ID)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List available stages",
		Args:  cobra.NoArgs,
		RunE:  runStagesCmd,
	}
}

func runStagesCmd(cmd *cobra.Command, _ []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	catalog, err := loadCatalog(fileCfg, configPath)
	if err != nil {
		return err
	}

	selected := ""
	if st, err := openStore(); err != nil {
		logErrf("%v\n", err)
	} else {
		if stage, err := handoff.SelectedStage(context.Background(), st, catalog); err == nil {
			selected = stage.ID
		}
		closeStore(st)
	}

	for _, line := range formatStageList(catalog.Stages(), selected) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <stage>",
		Short: "Select the stage to play",
		Args:  cobra.ExactArgs(1),
		RunE:  runSelectCmd,
	}
}

func runSelectCmd(cmd *cobra.Command, args []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	catalog, err := loadCatalog(fileCfg, configPath)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	stage, err := handoff.SelectStage(context.Background(), st, catalog, args[0])
	if err != nil {
		return stageSelectionError(err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Selected %s: %s\n", stage.ID, stage.Title); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result",
		Short: "Show the last result",
		Args:  cobra.NoArgs,
		RunE:  runResultCmd,
	}
}

func runResultCmd(_ *cobra.Command, _ []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	catalog, err := loadCatalog(fileCfg, configPath)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	summary, ok, err := handoff.LoadResult(ctx, st)
	if err != nil {
		return err
	}
	if !ok {
		logErrln("Play a stage first: typestage --stage <id>")
		return fmt.Errorf("no result found")
	}
	stageID := ""
	if stage, err := handoff.SelectedStage(ctx, st, catalog); err == nil {
		stageID = stage.ID
	}
	return runResultView(st, summary, stageID)
}

func runResultView(st *store.Store, summary model.ResultSummary, stageID string) error {
	view := resultui.NewModel(st, summary, stageID)
	program := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run result TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyStage, "stage", "", "stage filter")
	cmd.Flags().StringVar(&historyDifficulty, "difficulty", "", "difficulty filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&historyCurveWindow, "window", defaultCurveWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildHistoryConfig(historyStage, historyDifficulty, historySince, historyLast, historyCurveWindow)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), cfg.CurveWindow, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func buildHistoryConfig(stage, difficulty, since string, last, window int) (model.HistoryConfig, error) {
	cfg := model.HistoryConfig{
		Stage:       strings.ToLower(strings.TrimSpace(stage)),
		Last:        last,
		CurveWindow: window,
	}
	if strings.TrimSpace(difficulty) != "" {
		d, err := game.ParseDifficulty(difficulty)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("--difficulty must be one of %s", difficultyNames())
		}
		cfg.Difficulty = d.String()
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return model.HistoryConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return cfg, nil
}

func loadCatalog(fileCfg config.FileConfig, configPath string) (*stages.Catalog, error) {
	catalog := stages.NewCatalog()
	ids := make([]string, 0, len(fileCfg.Stages))
	for id := range fileCfg.Stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		stage, err := stages.FromConfig(id, fileCfg.Stages[id], configPath)
		if err != nil {
			return nil, err
		}
		if err := catalog.Add(stage); err != nil {
			return nil, fmt.Errorf("failed to add stage from config: %w", err)
		}
	}
	return catalog, nil
}

func formatStageList(list []model.Stage, selected string) []string {
	idWidth := 0
	for _, s := range list {
		idWidth = max(idWidth, len(s.ID))
	}
	lines := make([]string, 0, len(list))
	for _, s := range list {
		marker := " "
		if s.ID == selected {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %-*s  %s (%d prompts)", marker, idWidth, s.ID, s.Title, len(s.Prompts)))
	}
	return lines
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typestage configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# stage = "words"          # Stage id to select before playing (see: typestage stages)
# difficulty = %q      # One of %s
# shuffle = false          # Shuffle prompt order

# Custom stages are added after the built-in ones and cannot reuse their ids.
# [stages.home-row]
# title = "Home Row"
# prompts = ["asdf jkl", "a sad lad"]
# prompts-file = "home-row.txt"   # One prompt per line, relative to this file
`,
		defaultDifficulty,
		difficultyNames(),
	)
}

func validateConfig(cfg model.Config) (game.Difficulty, error) {
	d, err := game.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		return "", fmt.Errorf("--difficulty must be one of %s", difficultyNames())
	}
	return d, nil
}

func difficultyNames() string {
	all := game.Difficulties()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func stageSelectionError(err error) error {
	var lines []string
	switch {
	case errors.Is(err, handoff.ErrNoStageSelected):
		lines = append(lines, "Select a stage before playing.")
	case errors.Is(err, handoff.ErrUnknownStage):
		lines = append(lines, "The selected stage does not exist.")
	}
	lines = append(lines,
		"Run: typestage stages",
		"Select: typestage select <id>",
	)
	return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
