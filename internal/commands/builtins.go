// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strconv"
	"strings"
)

// maxRepeat bounds /repeat so a typo cannot produce a huge buffer.
const maxRepeat = 1000

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

// Builtins returns the stock command set.
func Builtins() []*Command {
	return []*Command{
		{
			Name:        "add",
			Description: "Add two numbers together",
			Category:    "Math",
			Params:      []ParamSpec{Number("a"), Number("b")},
			Execute:     executeAdd,
		},
		{
			Name:        "shout",
			Description: "Shout from the rooftops",
			Category:    "Text",
			// Preview only
			Execute: func(*CommandContext) *Update { return nil },
		},
		{
			Name:        "repeat",
			Description: "Repeat a phrase n times",
			Category:    "Text",
			Params:      []ParamSpec{Number("count"), Quoted("phrase")},
			Execute:     executeRepeat,
		},
		{
			Name:        "hello",
			Description: "Say hello!",
			Category:    "Text",
			Params:      []ParamSpec{Word("name")},
			Execute:     executeHello,
		},
		{
			Name:        "upper-all",
			Description: "Uppercase everything",
			Category:    "Text",
			Params:      []ParamSpec{Sentence("sentence")},
			Execute:     executeUpperAll,
		},
	}
}

func executeAdd(ctx *CommandContext) *Update {
	return ctx.Replace(strconv.Itoa(ctx.Int("a") + ctx.Int("b")))
}

func executeRepeat(ctx *CommandContext) *Update {
	count := ctx.Int("count")
	if count > maxRepeat {
		return nil
	}
	return ctx.Replace(strings.Repeat(ctx.String("phrase"), count))
}

func executeHello(ctx *CommandContext) *Update {
	return ctx.Replace("Hello, " + ctx.String("name") + "!")
}

func executeUpperAll(ctx *CommandContext) *Update {
	return ctx.Replace(strings.ToUpper(ctx.String("sentence")))
}
