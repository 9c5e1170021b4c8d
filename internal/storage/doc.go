// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the completion journal.
//
// Every completion a controller applies can be recorded with the text before
// and after it. The journal backs the "history" command.
//
// # Key Types
//
//   - Journal: SQLite-backed store (pure Go driver, WAL mode)
//   - Entry: one applied completion
//   - CommandCount: usage totals per command
//
// # Usage
//
//	j, err := storage.Open(path)
//	defer j.Close()
//	err = j.Record(ctx, storage.Entry{Command: "add", Input: "/add 1 2", Output: "3"})
//	recent, err := j.Recent(ctx, "", 10)
//
// # Storage Location
//
// The journal lives in ~/.slashline/journal.db unless journal.path is set.
package storage
