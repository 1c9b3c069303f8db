package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/config"
	"github.com/showdeck/showdeck/internal/ui"
)

var (
	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const exampleConfig = `[server]
url = "http://localhost:8989"
api_key = "your-api-key"
timeout_seconds = 30

[ui]
debounce_ms = 300
preview_freshness_ms = 1000
`

var rootCmd = &cobra.Command{
	Use:   "showdeck",
	Short: "Terminal client for your media-manager server",
	Long:  getLongDescription(),
	Run:   runBrowse,
}

var renameCmd = &cobra.Command{
	Use:   "rename <show-id>",
	Short: "Open the rename-preview workflow for one show",
	Args:  cobra.ExactArgs(1),
	Run:   runRename,
}

var muxCmd = &cobra.Command{
	Use:   "mux <show-id>",
	Short: "Embed sidecar subtitles into one show's episodes",
	Args:  cobra.ExactArgs(1),
	Run:   runMux,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the server's naming presets",
	Run:   runPresets,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	Run:   runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("showdeck %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(muxCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildEnv loads and validates the config and wires the shared backend state.
func buildEnv() ui.Env {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'showdeck config' to see the config file location.")
		os.Exit(1)
	}

	return ui.Env{
		Backend: api.New(cfg.Server.URL, cfg.Server.APIKey, cfg.Timeout()),
		Cache:   cache.New(),
		Config:  cfg,
	}
}

func runBrowse(cmd *cobra.Command, args []string) {
	env := buildEnv()

	p := tea.NewProgram(ui.NewBrowseModel(env), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runRename(cmd *cobra.Command, args []string) {
	showID := parseShowID(args[0])
	env := buildEnv()
	show := fetchShow(env, showID)

	// nil parent: closing the modal quits the program.
	model := ui.NewRenameModel(env, showID, show.Name, nil)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	m := finalModel.(ui.RenameModel)
	outcome := m.Outcome()
	if outcome == nil {
		fmt.Println("Rename cancelled.")
		return
	}

	fmt.Printf("Renamed %d of %d episodes\n", outcome.Renamed, outcome.Total)
	if len(outcome.Errors) > 0 {
		fmt.Printf("\n⚠ Errors encountered: %d\n", len(outcome.Errors))
		for i, e := range outcome.Errors {
			fmt.Printf("  %d. %s\n", i+1, e)
		}
		os.Exit(1)
	}
}

func runMux(cmd *cobra.Command, args []string) {
	showID := parseShowID(args[0])
	env := buildEnv()
	show := fetchShow(env, showID)

	model := ui.NewMuxModel(env, showID, show.Name, nil)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	m := finalModel.(ui.MuxModel)
	succeeded, total, errs := m.Succeeded()
	if total == 0 {
		fmt.Println("Nothing to mux.")
		return
	}

	fmt.Printf("Muxed subtitles for %d of %d episodes\n", succeeded, total)
	if len(errs) > 0 {
		fmt.Printf("\n⚠ Errors encountered: %d\n", len(errs))
		for i, e := range errs {
			fmt.Printf("  %d. %s\n", i+1, e)
		}
		os.Exit(1)
	}
}

func runPresets(cmd *cobra.Command, args []string) {
	env := buildEnv()

	ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeout())
	defer cancel()
	catalog, err := env.Backend.GetRenamePresets(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching presets: %v\n", err)
		os.Exit(1)
	}

	keys := make([]string, 0, len(catalog.Presets))
	for key := range catalog.Presets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("Naming presets (%d):\n\n", len(keys))
	for _, key := range keys {
		preset := catalog.Presets[key]
		fmt.Printf("  %-12s %s\n", key, preset.Name)
		fmt.Printf("               %s\n", preset.Description)
		fmt.Printf("               %s\n\n", preset.Pattern)
	}

	if len(catalog.Placeholders) > 0 {
		fmt.Println("Placeholders:")
		tokens := make([]string, 0, len(catalog.Placeholders))
		for token := range catalog.Placeholders {
			tokens = append(tokens, token)
		}
		sort.Strings(tokens)
		for _, token := range tokens {
			fmt.Printf("  %-20s %s\n", token, catalog.Placeholders[token])
		}
	}
}

func runConfig(cmd *cobra.Command, args []string) {
	configPath, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration file: %s\n\n", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("Config file does not exist. It is created with defaults on first run,")
		fmt.Println("or create it manually:")
		fmt.Printf("\n  mkdir -p %s\n", configPath[:len(configPath)-len("/config.toml")])
		fmt.Printf("  cat > %s <<EOF\n", configPath)
		fmt.Print(exampleConfig)
		fmt.Println("EOF")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Current configuration:")
	fmt.Printf("\nServer:\n")
	fmt.Printf("  URL:     %s\n", cfg.Server.URL)
	if cfg.Server.APIKey != "" {
		fmt.Printf("  API key: %s...\n", truncateKey(cfg.Server.APIKey))
	} else {
		fmt.Printf("  API key: (not set)\n")
	}
	fmt.Printf("  Timeout: %s\n", cfg.Timeout())

	fmt.Printf("\nUI:\n")
	fmt.Printf("  Debounce:          %s\n", cfg.Debounce())
	fmt.Printf("  Preview freshness: %s\n", cfg.PreviewFreshness())
}

func parseShowID(arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "Invalid show id %q: expected a positive number\n", arg)
		os.Exit(1)
	}
	return id
}

func fetchShow(env ui.Env, showID int) api.ShowDetail {
	ctx, cancel := context.WithTimeout(context.Background(), env.Config.Timeout())
	defer cancel()
	show, err := env.Backend.GetShow(ctx, showID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching show %d: %v\n", showID, err)
		os.Exit(1)
	}
	return show
}

func truncateKey(key string) string {
	if len(key) <= 6 {
		return key
	}
	return key[:6]
}

func getLongDescription() string {
	return ui.FormatBannerWithSubtext("Terminal client for your media-manager server") + "\n\n" +
		"showdeck browses your show library, previews and applies bulk episode renames,\n" +
		"and embeds sidecar subtitles, all against your server's REST API."
}
