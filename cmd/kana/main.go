// Package main provides the CLI entrypoint for kana.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/kana/internal/config"
	"github.com/verte-zerg/kana/internal/generator"
	"github.com/verte-zerg/kana/internal/kana"
	"github.com/verte-zerg/kana/internal/madlib"
	"github.com/verte-zerg/kana/internal/model"
	"github.com/verte-zerg/kana/internal/stats"
	"github.com/verte-zerg/kana/internal/store"
	"github.com/verte-zerg/kana/internal/tui"
)

const (
	defaultScript     = "hiragana"
	defaultMode       = string(model.ModeCharacters)
	defaultDifficulty = "easy"
)

var defaultGroups = []string{"basic"}

var (
	practiceScript     string
	practiceGroups     []string
	practiceMode       string
	practiceDifficulty string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceCatalog    string
	practiceTemplates  string
	practiceSeed       int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kana",
		Short:         "TUI hiragana and katakana trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	addFilterFlags(rootCmd)
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode (characters or madlibs)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "mad libs difficulty")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "draw prompts from the most missed kana")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", generator.DefaultWeakTop, "number of weak kana to focus on")
	rootCmd.Flags().StringVar(&practiceTemplates, "templates", "", "mad libs templates TOML (default: built-in)")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed (0: time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newListCmd())

	return rootCmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceScript, "script", defaultScript, "script (hiragana, katakana or both)")
	cmd.Flags().StringSliceVar(&practiceGroups, "groups", defaultGroups, "character groups")
	cmd.Flags().StringVar(&practiceCatalog, "catalog", "", "kana catalog TOML (default: built-in)")
}

func loadPracticeConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "script", &practiceScript, fileCfg.Practice.Script)
	applyStringSliceConfig(cmd, "groups", &practiceGroups, fileCfg.Practice.Groups)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	applyStringConfig(cmd, "templates", &practiceTemplates, fileCfg.Practice.Templates)

	return model.Config{
		Script:        practiceScript,
		Groups:        practiceGroups,
		Mode:          model.Mode(strings.ToLower(practiceMode)),
		Difficulty:    strings.ToLower(practiceDifficulty),
		FocusWeak:     practiceFocusWeak,
		WeakTop:       practiceWeakTop,
		CatalogPath:   practiceCatalog,
		TemplatesPath: practiceTemplates,
		Seed:          practiceSeed,
	}, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg, cat, templates); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("kana needs an interactive terminal; try `kana list` for plain output")
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close journal: %v\n", cerr)
		}
	}()

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(cfg.Seed)
	}

	m := tui.NewModel(cfg, cat, templates, gen, st)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, m.Mastery()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	aggs, err := st.ListCharAggregates(cmd.Context(), m.SessionID())
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}
	if len(aggs) > 0 {
		if err := stats.RenderCharTable(out, aggs); err != nil {
			return fmt.Errorf("failed to write kana table: %w", err)
		}
	}
	return nil
}

func loadCatalog(path string) (*kana.Catalog, error) {
	if path == "" {
		return kana.Default(), nil
	}
	cat, err := kana.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func loadTemplates(path string) (*madlib.Templates, error) {
	if path == "" {
		return madlib.DefaultTemplates(), nil
	}
	templates, err := madlib.LoadTemplates(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return templates, nil
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List character groups",
		Args:  cobra.NoArgs,
		RunE:  runGroupsCmd,
	}
	cmd.Flags().StringVar(&practiceCatalog, "catalog", "", "kana catalog TOML (default: built-in)")
	return cmd
}

func runGroupsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	cat, err := loadCatalog(practiceCatalog)
	if err != nil {
		return err
	}
	return writeLines(cmd, groupTable(cat))
}

func groupTable(cat *kana.Catalog) []string {
	rows := make([][]string, 0, len(cat.Groups()))
	for _, g := range cat.Groups() {
		rows = append(rows, []string{
			g,
			fmt.Sprintf("%d", cat.GroupSize(g, kana.Hiragana)),
			fmt.Sprintf("%d", cat.GroupSize(g, kana.Katakana)),
		})
	}
	return stats.FormatTable([]string{"Group", "Hiragana", "Katakana"}, rows, map[int]bool{1: true, 2: true})
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the kana selected by --script and --groups",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	addFilterFlags(cmd)
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	script, err := kana.ParseScript(cfg.Script)
	if err != nil {
		return fmt.Errorf("invalid --script value: %w", err)
	}
	set := cat.Filter(script, cfg.Groups)
	if set.IsEmpty() {
		logErrln("No kana match your filters.")
		return nil
	}
	return writeLines(cmd, practiceSetTable(set))
}

func practiceSetTable(set kana.PracticeSet) []string {
	rows := make([][]string, 0, set.Len())
	for _, e := range set.Entries() {
		rows = append(rows, []string{e.Glyph, e.Romaji, e.Script.String()})
	}
	return stats.FormatTable([]string{"Kana", "Romaji", "Script"}, rows, nil)
}

func writeLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func applyStringSliceConfig(cmd *cobra.Command, name string, target, value *[]string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), (*value)...)
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Lookup(name) == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Lookup(name) == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kana configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# script = %q        # hiragana, katakana or both
# groups = [%q]        # basic, dakuten, combinations
# mode = %q      # characters or madlibs
# difficulty = %q        # easy, medium or hard
# focus-weak = false      # Draw prompts from the most missed kana
# weak-top = %d           # Number of weak kana to focus on
# catalog = ""            # Custom kana catalog TOML
# templates = ""          # Custom mad libs templates TOML
`,
		defaultScript,
		defaultGroups[0],
		defaultMode,
		defaultDifficulty,
		generator.DefaultWeakTop,
	)
}

func validateConfig(cfg model.Config, cat *kana.Catalog, templates *madlib.Templates) error {
	if _, err := kana.ParseScript(cfg.Script); err != nil {
		return fmt.Errorf("invalid --script value: %w", err)
	}
	known := make(map[string]bool, len(cat.Groups()))
	for _, g := range cat.Groups() {
		known[g] = true
	}
	for _, g := range cfg.Groups {
		if !known[g] {
			logErrf("ignoring unknown group %q (available: %s)\n", g, strings.Join(cat.Groups(), ", "))
		}
	}
	switch cfg.Mode {
	case model.ModeCharacters, model.ModeMadLibs:
	default:
		return fmt.Errorf("--mode must be %q or %q", model.ModeCharacters, model.ModeMadLibs)
	}
	if len(templates.For(cfg.Difficulty)) == 0 {
		return fmt.Errorf("--difficulty must be one of: %s", strings.Join(templates.Difficulties(), ", "))
	}
	if cfg.WeakTop <= 0 {
		return fmt.Errorf("--weak-top must be > 0")
	}
	return nil
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
