// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package slash

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/jeranaias/slashline/internal/util"
)

// inputSurface exposes a textinput as a controller.Surface. The textinput
// counts its cursor in runes; the surface speaks byte offsets.
type inputSurface struct {
	input *textinput.Model
}

func (s inputSurface) Text() string {
	return s.input.Value()
}

func (s inputSurface) Cursor() int {
	return util.ByteOffset(s.input.Value(), s.input.Position())
}

func (s inputSurface) SetText(text string) {
	s.input.SetValue(text)
}

func (s inputSurface) SetCursor(pos int) {
	s.input.SetCursor(util.RuneOffset(s.input.Value(), pos))
}
