// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for slashline.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//
//	show (default)      Display current configuration
//	get <key>           Print one value
//	set <key> <value>   Set a value and save the config file
//	path                Show configuration file path
//	init                Write a default configuration file
//
// Examples:
//
//	slashline config set catalog.file ~/.slashline/commands.yaml
//	slashline config set grammar.dialect re2
//	slashline config get ui.hint_width
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/slashline/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long: `Shows and edits the configuration file. Keys use dot notation,
e.g. grammar.dialect or ui.hint_width.

Keys:
  ` + strings.Join(config.GetAllKeys(), "\n  "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showConfig(cmd)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &ValidationError{
					Field:   "path",
					Value:   path,
					Reason:  "configuration file already exists",
					Example: "slashline config init --force",
				}
			}
			if err := a.saveConfig(path, config.Default()); err != nil {
				return err
			}
			return a.reportSaved(cmd, path, "init")
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Display current configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.showConfig(cmd)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := a.cfg.Get(args[0])
				if err != nil {
					return &NotFoundError{Resource: "config key", ID: args[0]}
				}
				if a.jsonOutput {
					return NewJSONResponse("config get", map[string]any{"key": args[0], "value": value}).Write(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "Set a configuration value",
			Example: "  slashline config set grammar.dialect re2",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.setConfig(cmd, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := a.configPath()
				if err != nil {
					return err
				}
				_, statErr := os.Stat(path)
				if a.jsonOutput {
					return NewJSONResponse("config path", map[string]any{
						"path":   path,
						"exists": statErr == nil,
					}).Write(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		initCmd,
	)
	return cmd
}

// configPath is the --config file, or the default TOML path.
func (a *app) configPath() (string, error) {
	if a.configFile != "" {
		return config.ExpandPath(a.configFile), nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", &CommandError{Command: "config", Action: "locate config file", Err: err}
	}
	return path, nil
}

func (a *app) showConfig(cmd *cobra.Command) error {
	path, err := a.configPath()
	if err != nil {
		return err
	}
	if a.jsonOutput {
		return NewJSONResponse("config", ConfigData{Path: path, Config: a.cfg}).Write(cmd.OutOrStdout())
	}
	printConfig(cmd.OutOrStdout(), path, a.cfg)
	return nil
}

func (a *app) setConfig(cmd *cobra.Command, key, value string) error {
	next := a.cfg.Clone()
	if err := next.Set(key, value); err != nil {
		if _, lookupErr := next.Get(key); lookupErr != nil {
			return &NotFoundError{Resource: "config key", ID: key}
		}
		return &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	if err := next.Validate(); err != nil {
		return err
	}

	path, err := a.configPath()
	if err != nil {
		return err
	}
	if err := a.saveConfig(path, next); err != nil {
		return err
	}
	a.cfg = next
	config.SetGlobal(next)

	if a.jsonOutput {
		return NewJSONResponse("config set", map[string]any{"key": key, "value": value, "path": path}).Write(cmd.OutOrStdout())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", RenderStatus("ok"), key, ValueStyle.Render(value))
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", DimStyle.Render("saved to "+path))
	return nil
}

// saveConfig writes cfg to the default file, or to a --config path as JSON
// or TOML depending on its extension.
func (a *app) saveConfig(path string, cfg *config.Config) error {
	var err error
	switch {
	case a.configFile == "":
		if err := config.EnsureConfigDir(); err != nil {
			return &CommandError{Command: "config", Action: "create config directory", Err: err}
		}
		err = config.Save(cfg)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		err = config.SaveJSON(cfg, path)
	default:
		err = config.SaveTOML(cfg, path)
	}
	if err != nil {
		return &CommandError{Command: "config", Action: "save configuration", Err: err}
	}
	return nil
}

func (a *app) reportSaved(cmd *cobra.Command, path, action string) error {
	if a.jsonOutput {
		return NewJSONResponse("config "+action, map[string]string{"path": path}).Write(cmd.OutOrStdout())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", RenderStatus("ok"), path)
	return nil
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("slashline configuration"))
	fmt.Fprintf(w, "%s\n\n", DimStyle.Render(path))

	section := ""
	for _, key := range config.GetAllKeys() {
		if i := strings.IndexByte(key, '.'); i > 0 && key[:i] != section {
			section = key[:i]
			fmt.Fprintf(w, "\n%s\n", TitleStyle.Render("["+section+"]"))
		}
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		shown := fmt.Sprint(value)
		if shown == "" {
			shown = DimStyle.Render("(unset)")
		}
		fmt.Fprintf(w, "  %s%s\n", RenderLabel(key, 28), shown)
	}
}
