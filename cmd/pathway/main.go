package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pathway/internal/config"
	"github.com/vango-dev/pathway/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logFormat  string
	verbose    bool
	noColor    bool
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		format, _ := cmd.PersistentFlags().GetString("log-format")
		noColor, _ := cmd.PersistentFlags().GetBool("no-color")
		reportError(os.Stderr, err, format, !noColor)
		os.Exit(1)
	}
}

// reportError prints err in the same format as the logs. Colors are only
// used when w is a terminal.
func reportError(w io.Writer, err error, format string, color bool) {
	if format == "json" {
		errors.FprintJSON(w, err)
		return
	}
	errors.SetColors(color && isTerminal(w))
	errors.Fprint(w, err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "pathway",
		Short: "Inspect and exercise a client-side route table",
		Long: `Pathway drives the pathway router outside a browser.

  • match     resolve a path or route name against the route table
  • simulate  replay navigation steps on an in-memory history
  • serve     drive remote browser windows over WebSocket

The route table and router options come from pathway.json, pathway.yaml
or pathway.toml in the working directory or one of its parents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: search from the working directory)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		matchCmd(g),
		simulateCmd(g),
		serveCmd(g),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads and validates the configuration named by --config, or
// the nearest one above the working directory.
func (g *globals) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the process logger from --log-format and --verbose.
func (g *globals) logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch g.logFormat {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New("X140").
			WithDetailf("--log-format %q", g.logFormat).
			WithSuggestion("Use text or json")
	}
}
