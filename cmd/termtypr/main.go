// Package main provides the CLI entrypoint for termtypr.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/termtypr/termtypr/internal/config"
	"github.com/termtypr/termtypr/internal/generator"
	"github.com/termtypr/termtypr/internal/history"
	"github.com/termtypr/termtypr/internal/model"
	"github.com/termtypr/termtypr/internal/stats"
	"github.com/termtypr/termtypr/internal/statsui"
	"github.com/termtypr/termtypr/internal/tui"
	"github.com/termtypr/termtypr/internal/words"
)

const (
	defaultMode    = string(model.ModeWords)
	defaultRecentN = 15
)

var (
	practiceMode      string
	practiceWords     int
	practiceSkipSep   bool
	practiceSkipError bool

	statsPlain  bool
	statsLast   int
	trendWindow int
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "termtypr",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "game mode: words or phrase")
	rootCmd.Flags().IntVar(&practiceWords, "words", model.DefaultWordCount, "words per session")
	rootCmd.Flags().BoolVar(&practiceSkipSep, "separator-skips", true, "space mid-word skips to the next word")
	rootCmd.Flags().BoolVar(&practiceSkipError, "skip-counts-as-error", false, "count a word skip as one error")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	prefs := fileCfg.Preferences()
	applyIntFlag(cmd, "words", &prefs.WordCount, practiceWords)
	applyBoolFlag(cmd, "separator-skips", &prefs.SeparatorSkips, practiceSkipSep)
	applyBoolFlag(cmd, "skip-counts-as-error", &prefs.SkipCountsAsError, practiceSkipError)
	if err := prefs.Validate(); err != nil {
		return err
	}
	if fileCfg.Practice.Mode != nil && !cmd.Flags().Changed("mode") {
		practiceMode = *fileCfg.Practice.Mode
	}
	mode, err := model.ParseMode(practiceMode)
	if err != nil {
		return err
	}

	// Persist-on-change: flag overrides become the new stored preferences.
	if cmd.Flags().Changed("words") || cmd.Flags().Changed("separator-skips") || cmd.Flags().Changed("skip-counts-as-error") {
		if err := config.SavePreferences(config.DefaultConfigPath(), prefs); err != nil {
			logger.Warn("failed to persist preferences", "err", err)
		}
	}

	repo, err := history.Open(config.DefaultDBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Warn("failed to close history", "err", cerr)
		}
	}()

	source := words.NewStorage(config.DefaultWordsPath(), config.DefaultPhrasesPath())
	m, err := tui.NewModel(prefs, mode, repo, generator.New(), source, logger)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show typing stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the TUI")
	cmd.Flags().IntVar(&statsLast, "last", defaultRecentN, "number of recent sessions to show")
	cmd.Flags().IntVar(&trendWindow, "trend-window", stats.DefaultTrendWindow, "sessions per trend window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if fileCfg.Practice.TrendWindow != nil && !cmd.Flags().Changed("trend-window") {
		trendWindow = *fileCfg.Practice.TrendWindow
	}
	if trendWindow <= 0 {
		return fmt.Errorf("--trend-window must be > 0")
	}

	repo, err := history.Open(config.DefaultDBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			logger.Warn("failed to close history", "err", cerr)
		}
	}()

	if statsPlain {
		results, err := repo.LoadAll(cmd.Context())
		if err != nil {
			logger.Warn("failed to load history; showing empty report", "err", err)
			results = nil
		}
		rep := stats.BuildReport(results, repo.Skipped(), trendWindow, statsLast)
		return stats.RenderReport(cmd.OutOrStdout(), rep, stats.ReportWidth())
	}

	program := tea.NewProgram(statsui.NewModel(repo, trendWindow, statsLast), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the word pool",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <word>...",
		Short: "Add words to the pool",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWordsAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all words in the pool",
		Args:  cobra.NoArgs,
		RunE:  runWordsListCmd,
	})
	return cmd
}

func runWordsAddCmd(cmd *cobra.Command, args []string) error {
	source := words.NewStorage(config.DefaultWordsPath(), config.DefaultPhrasesPath())
	added, err := source.AddWords(args)
	if err != nil {
		return fmt.Errorf("failed to add words: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %d word(s) (%d duplicate or empty)\n", added, len(args)-added); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runWordsListCmd(cmd *cobra.Command, _ []string) error {
	source := words.NewStorage(config.DefaultWordsPath(), config.DefaultPhrasesPath())
	pool, err := source.Words()
	if err != nil {
		return fmt.Errorf("failed to load word pool: %w", err)
	}
	sorted := append([]string(nil), pool...)
	sort.Strings(sorted)
	for _, w := range sorted {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# termtypr configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q                  # Game mode: words or phrase
# words = %d                 # Words per session (%d-%d)
# separator-skips = true     # Space mid-word skips to the next word
# skip-counts-as-error = false
# trend-window = %d          # Sessions per trend window
`,
		defaultMode,
		model.DefaultWordCount,
		model.MinWordCount,
		model.MaxWordCount,
		stats.DefaultTrendWindow,
	)
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, flagValue int) {
	if cmd.Flags().Changed(name) {
		*target = flagValue
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, flagValue bool) {
	if cmd.Flags().Changed(name) {
		*target = flagValue
	}
}
