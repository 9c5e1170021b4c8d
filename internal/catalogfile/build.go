// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalogfile

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/jeranaias/slashline/internal/commands"
)

// maxRepeat bounds the repeat template function.
const maxRepeat = 1000

// templateFuncs are available to replacement templates.
var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"unquote": func(s string) string {
		return strings.Trim(s, `"`)
	},
	"repeat": func(n any, s string) (string, error) {
		count, err := toInt(n)
		if err != nil {
			return "", err
		}
		if count < 0 || count > maxRepeat {
			return "", fmt.Errorf("repeat count %d out of range 0-%d", count, maxRepeat)
		}
		return strings.Repeat(s, count), nil
	},
	"add": func(a, b any) (int, error) {
		x, err := toInt(a)
		if err != nil {
			return 0, err
		}
		y, err := toInt(b)
		if err != nil {
			return 0, err
		}
		return x + y, nil
	},
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

// Build turns the file's specs into commands. Templates and parameter
// kinds are checked here; patterns are checked when the commands are
// added to a catalog.
func Build(f *File, logger *zap.Logger) ([]*commands.Command, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cmds := make([]*commands.Command, 0, len(f.Commands))
	for i, spec := range f.Commands {
		cmd, err := buildCommand(spec, logger)
		if err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i+1, spec.Name, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func buildCommand(spec CommandSpec, logger *zap.Logger) (*commands.Command, error) {
	name := strings.TrimPrefix(strings.TrimSpace(spec.Name), string(commands.Marker))
	if !commands.ValidIdentifier(name) {
		return nil, fmt.Errorf("invalid command name %q", spec.Name)
	}

	params := make([]commands.ParamSpec, 0, len(spec.Params))
	seen := make(map[string]bool, len(spec.Params))
	for _, def := range spec.Params {
		if def.Name == "" {
			return nil, fmt.Errorf("parameter without a name")
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("duplicate parameter %q", def.Name)
		}
		seen[def.Name] = true

		if def.Pattern != "" {
			params = append(params, commands.Param(def.Name, def.Pattern))
			continue
		}
		p, err := commands.ParamOfKind(def.Kind, def.Name)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", def.Name, err)
		}
		params = append(params, p)
	}

	cmd := &commands.Command{
		Name:        name,
		Description: spec.Description,
		Category:    spec.Category,
		Hidden:      spec.Hidden,
		Params:      params,
	}
	if cmd.Category == "" {
		cmd.Category = "Custom"
	}

	if spec.Template == "" {
		cmd.Execute = func(*commands.CommandContext) *commands.Update { return nil }
		return cmd, nil
	}

	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(spec.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	cmd.Execute = templateExecutor(tmpl, logger)
	return cmd, nil
}

// templateExecutor renders tmpl with the parameter values keyed by name.
// A failing template declines the completion.
func templateExecutor(tmpl *template.Template, logger *zap.Logger) commands.ExecuteFunc {
	return func(ctx *commands.CommandContext) *commands.Update {
		var b strings.Builder
		if err := tmpl.Execute(&b, ctx.Values()); err != nil {
			logger.Warn("Template failed",
				zap.String("command", ctx.Command.Name),
				zap.Error(err))
			return nil
		}
		return ctx.Replace(b.String())
	}
}
