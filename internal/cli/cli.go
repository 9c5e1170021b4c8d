// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/config"
	"github.com/jeranaias/slashline/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// annotationInteractive marks commands that own the terminal. Their logs
// never go to stderr.
const annotationInteractive = "interactive"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	// Global flags
	configFile string
	verbose    bool
	jsonOutput bool

	cfg    *config.Config
	logger *zap.Logger

	// profile is the colour profile of the stream the command draws on
	profile termenv.Profile
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		jsonMode, _ := root.PersistentFlags().GetBool("json")
		DisplayError(root.ErrOrStderr(), err, jsonMode)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "slashline",
		Short: "Slash commands inside free text",
		Long: `slashline resolves "/command args" written anywhere inside a line of
text, shows a hint for the command under the cursor and replaces it with
the command's output on Tab.

Run without arguments on a terminal to start the interactive input.
When stdin is not a terminal, each input line is resolved and printed
with any ready command at its end applied.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactiveStreams(cmd) {
				return a.runTUI(cmd, "")
			}
			return a.resolveStream(cmd, cmd.InOrStdin(), true)
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default ~/.slashline/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output JSON where supported")

	root.AddCommand(
		a.newTUICommand(),
		a.newREPLCommand(),
		a.newResolveCommand(),
		a.newCommandsCommand(),
		a.newHistoryCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)
	return root
}

// setup loads configuration and builds the logger before any subcommand.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configFile != "" {
		cfg, err = config.LoadFromPath(config.ExpandPath(a.configFile))
		if errors.Is(err, fs.ErrNotExist) {
			// A named file that does not exist yet is created by config set/init
			cfg, err = config.Default(), nil
			cfg.ApplyEnvOverrides()
			cfg.SetDefaults()
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return &CommandError{Command: cmd.Name(), Action: "load configuration", Err: err}
	}
	a.cfg = cfg
	config.SetGlobal(cfg)

	interactive := cmd.Annotations[annotationInteractive] == "true" ||
		(cmd.Parent() == nil && interactiveStreams(cmd))

	logger, err := logging.New(logging.FromConfig(cfg.Logging, a.verbose, interactive))
	if err != nil {
		return &CommandError{Command: cmd.Name(), Action: "initialize logging", Err: err}
	}
	a.logger = logger

	screen := cmd.OutOrStdout()
	if interactive {
		screen = cmd.ErrOrStderr()
	}
	a.profile = colorProfile(cfg.UI, screen)
	lipgloss.SetColorProfile(a.profile)

	a.logger.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config", a.configFile))
	return nil
}

// =============================================================================
// VERSION
// =============================================================================

// VersionData is the JSON shape of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentVersion() VersionData {
	return VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := currentVersion()
			if a.jsonOutput {
				return NewJSONResponse("version", v).Write(cmd.OutOrStdout())
			}
			printVersion(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func printVersion(w io.Writer, v VersionData) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("slashline"), v.Version)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Commit:", 12), v.GitCommit)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Built:", 12), v.BuildDate)
	fmt.Fprintf(w, "%s%s (%s)\n", RenderLabel("Go:", 12), v.GoVersion, v.Platform)
}

// stderrf writes a human-readable note next to machine output.
func stderrf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
}
