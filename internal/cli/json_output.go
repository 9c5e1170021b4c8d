// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting.
//
// Every command that accepts --json writes one JSONResponse to stdout;
// human-readable notes go to stderr.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// ErrorType categorizes Error (validation_error, not_found_error, ...)
	ErrorType string `json:"error_type,omitempty"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		ErrorType: errorType(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write outputs the indented JSON response to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// ParamData is one extracted parameter.
type ParamData struct {
	Name    string `json:"name"`
	Raw     string `json:"raw"`
	Present bool   `json:"present"`
	Value   any    `json:"value"`
	Error   string `json:"error,omitempty"`
}

// ResolveData is the JSON shape of the resolve command.
type ResolveData struct {
	Input    string      `json:"input"`
	Cursor   int         `json:"cursor"`
	Resolved bool        `json:"resolved"`
	Command  string      `json:"command,omitempty"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Full     string      `json:"full,omitempty"`
	Valid    bool        `json:"valid"`
	Params   []ParamData `json:"params,omitempty"`
	Pre      string      `json:"pre,omitempty"`
	Post     string      `json:"post,omitempty"`
	Hint     string      `json:"hint,omitempty"`
	Output   *string     `json:"output,omitempty"`
}

// CommandData describes one catalog command.
type CommandData struct {
	Name        string   `json:"name"`
	Usage       string   `json:"usage"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Params      []string `json:"params,omitempty"`
	Grammar     string   `json:"grammar"`
	Hidden      bool     `json:"hidden,omitempty"`
}

// ConfigData is the JSON shape of config show.
type ConfigData struct {
	Path   string      `json:"path"`
	Config interface{} `json:"config"`
}
