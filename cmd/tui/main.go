// Command tui provides the interactive terminal front end for specfuzzer.
//
// Subcommands:
//
//	upload  pick or drop an OpenAPI spec, send it to the analysis service
//	        and browse the report
//	setup   guided wizard that edits and writes the configuration file
//	init    write a default configuration file
//	watch   live monitor that polls a running dashboard's state API
//
// Usage:
//
//	go run ./cmd/tui upload [--config path] [--backend url] [spec.yaml]
//	go run ./cmd/tui setup [--config path]
//	go run ./cmd/tui init [--config path] [--force]
//	go run ./cmd/tui watch [--api localhost:8080] [--interval 2s]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/internal/config"
	"github.com/specfuzzer/specfuzzer/internal/logging"
	"github.com/specfuzzer/specfuzzer/internal/tui/status"
	"github.com/specfuzzer/specfuzzer/internal/tui/uploader"
	"github.com/specfuzzer/specfuzzer/internal/tui/wizard"
	"github.com/specfuzzer/specfuzzer/pkg/analysis"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "upload":
		err = runUpload(os.Args[2:])
	case "setup":
		err = runSetup(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "version", "--version":
		fmt.Println(buildinfo.String())
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("specfuzzer TUI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tui upload [--config path] [--backend url] [file...]")
	fmt.Println("                                     Upload a spec and browse the report")
	fmt.Println("  tui setup [--config path]          Interactive configuration wizard")
	fmt.Println("  tui init [--config path] [--force] Write a default config file")
	fmt.Println("  tui watch [--api addr] [--interval duration]")
	fmt.Println("                                     Live monitor for a running dashboard")
	fmt.Println("  tui version                        Print build information")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %-24s Config file path (default: %s)\n", config.EnvConfig, config.DefaultPath)
	fmt.Printf("  %-24s Analysis service URL\n", config.EnvBackendURL)
}

func runUpload(args []string) error {
	flags := flag.NewFlagSet("upload", flag.ExitOnError)
	configPath := flags.String("config", "", "config file")
	backend := flags.String("backend", "", "analysis service base URL")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.BackendURL = *backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.ForTerminal(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("starting upload screen",
		zap.String("version", buildinfo.Version),
		zap.String("backend", cfg.BackendURL))

	m := uploader.NewModel(newUploaderConfig(cfg, flags.Args(), logger))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func newUploaderConfig(cfg *config.Config, files []string, logger *zap.Logger) uploader.Config {
	opts := []analysis.Option{analysis.WithLogger(logger)}
	if cfg.TargetBaseURL != "" {
		opts = append(opts, analysis.WithTargetBaseURL(cfg.TargetBaseURL))
	}
	client := analysis.NewClient(cfg.BackendURL, opts...)
	return uploader.Config{
		Submitter:  client,
		Health:     client.Health,
		BackendURL: client.BaseURL(),
		StartDir:   cfg.Intake.StartDir,
		Exclusive:  cfg.Intake.ExclusiveUploads,
		Files:      files,
		Logger:     logger,
	}
}

func runSetup(args []string) error {
	flags := flag.NewFlagSet("setup", flag.ExitOnError)
	configPath := flags.String("config", "", "config file to edit")
	if err := flags.Parse(args); err != nil {
		return err
	}
	path := resolveConfigPath(*configPath)

	// Start from the existing file when there is one.
	base, err := config.Load(path)
	if err != nil {
		return err
	}
	m := wizard.NewWizardModel(path, base)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if wm, ok := final.(wizard.WizardModel); ok && wm.Written() {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func resolveConfigPath(path string) string {
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path == "" {
		path = config.DefaultPath
	}
	return path
}

func runInit(args []string) error {
	flags := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := flags.String("config", "", "config file to write")
	force := flags.Bool("force", false, "overwrite an existing file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	path, err := initConfig(*configPath, *force)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// initConfig writes the default configuration and returns where it went.
func initConfig(path string, force bool) (string, error) {
	path = resolveConfigPath(path)
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := config.WriteConfig(path, config.NewDefaultConfig()); err != nil {
		return "", err
	}
	return path, nil
}

func runWatch(args []string) error {
	flags := flag.NewFlagSet("watch", flag.ExitOnError)
	apiAddr := flags.String("api", config.DefaultDashboardAddr, "Dashboard API address (host:port)")
	interval := flags.Duration("interval", 2*time.Second, "Poll interval")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := config.ValidateHostPort(*apiAddr); err != nil {
		return fmt.Errorf("--api: %w", err)
	}

	m := status.NewStatusModel(*apiAddr, *interval)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
