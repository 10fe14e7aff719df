package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonOutput mirrors the global --json flag.
var jsonOutput bool

// Response is the envelope every JSON-mode command writes to stdout.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo carries a machine-readable code plus human-readable context.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning is a non-fatal problem attached to an otherwise successful
// response. File, Line, and Selector locate the problem when known.
type Warning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// Meta carries response-level counters.
type Meta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

func isJSONOutput() bool {
	return jsonOutput
}

func emit(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// outputSuccess emits a successful envelope. meta may be nil.
func outputSuccess(data interface{}, meta *Meta) {
	emit(Response{OK: true, Data: data, Meta: meta})
}

// outputSuccessWithWarnings emits a successful envelope carrying warnings.
func outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	emit(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

// fail emits an error envelope.
func fail(code, message, suggestion string, details interface{}) {
	emit(Response{OK: false, Error: &ErrorInfo{
		Code:       code,
		Message:    message,
		Details:    details,
		Suggestion: suggestion,
	}})
}

// handleError reports err in the active output mode: as a JSON error
// envelope (returning nil so cobra does not print it again), or as the
// error itself for cobra to surface.
func handleError(code string, err error, suggestion string) error {
	if jsonOutput {
		fail(code, err.Error(), suggestion, nil)
		return nil
	}
	return err
}

// handleErrorMsg is handleError for a message with no underlying error.
func handleErrorMsg(code, message, suggestion string) error {
	if jsonOutput {
		fail(code, message, suggestion, nil)
		return nil
	}
	return fmt.Errorf("%s", message)
}

// handleErrorWithDetails attaches structured details to the JSON error.
func handleErrorWithDetails(code, message, suggestion string, details interface{}) error {
	if jsonOutput {
		fail(code, message, suggestion, details)
		return nil
	}
	return fmt.Errorf("%s", message)
}
