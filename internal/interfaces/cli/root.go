// Package cli implements the obr command tree: the HTTP server plus
// offline commands that summarise, validate and export a dataset without it.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/readiness-dashboard/internal/config"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath    string
	LogLevel      string
	OutputFormat  string
	Verbose       bool
	NoColor       bool
	Timeout       time.Duration
	PrimaryPath   string
	SecondaryPath string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigFile   string // empty when configured from the environment only
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// NewRootCommand creates the root command with its global flags and every
// subcommand.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "obr",
		Short: "Open banking readiness dashboard",
		Long: "obr serves the open banking readiness dashboard and inspects its datasets.\n" +
			"Market size, opportunity and regulatory indices are read from a CSV table\n" +
			"that may live on disk, behind an http(s) URL, or in an s3:// bucket.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./obr.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "timeout for offline commands")
	pf.StringVar(&opts.PrimaryPath, "primary", "", "primary table path or URL; overrides dataset.primary_path")
	pf.StringVar(&opts.SecondaryPath, "secondary", "", "bar chart table path or URL; overrides dataset.secondary_path")

	cmd.AddCommand(
		NewServeCmd(),
		NewSummaryCmd(),
		NewValidateCmd(),
		NewExportCmd(),
		NewReloadCmd(),
	)
	return cmd
}

// persistentPreRun initializes config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, file, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts, cmd.Name() == "serve")
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigFile:   file,
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
// Dataset path flags are applied as OBR_ environment overrides so they take
// part in validation like any other source.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	if opts.PrimaryPath != "" {
		if err := os.Setenv("OBR_DATASET_PRIMARY_PATH", opts.PrimaryPath); err != nil {
			return nil, "", err
		}
	}
	if opts.SecondaryPath != "" {
		if err := os.Setenv("OBR_DATASET_SECONDARY_PATH", opts.SecondaryPath); err != nil {
			return nil, "", err
		}
	}

	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		return cfg, opts.ConfigPath, err
	}

	searchPaths := []string{"./obr.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".obr", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/obr/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			cfg, err := config.Load(p)
			return cfg, p, err
		}
	}
	cfg, err := config.LoadFromEnv()
	return cfg, "", err
}

// initLogger builds the process logger.  The server logs as configured;
// offline commands log to stderr on the console so stdout stays clean.
func initLogger(cfg *config.Config, opts *RootOptions, server bool) (logging.Logger, error) {
	levelName := cfg.Log.Level
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}

	logCfg := logging.LogConfig{Level: level, Format: cfg.Log.Format}
	if cfg.Log.Output != "" {
		logCfg.OutputPaths = []string{cfg.Log.Output}
	}
	if !server {
		logCfg.Format = "console"
		logCfg.OutputPaths = []string{"stderr"}
		if !opts.Verbose && opts.LogLevel == "" {
			logCfg.Level = logging.LevelWarn
		}
	}
	return logging.NewLogger(logCfg)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the command tree against os.Args.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// printJSON outputs data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func wantsJSON(cliCtx *CLIContext) bool {
	return strings.EqualFold(cliCtx.OutputFormat, "json")
}

//Personal.AI order the ending
