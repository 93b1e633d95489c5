// Copyright 2026 The EQForge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without an extra error line.
// Commands that already printed their own report (like "archive
// verify" on a failed check) return it so main exits with the code
// silently.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode is checked by main on returned errors to distinguish a
// handled non-zero exit from an unexpected error to display.
func (e *ExitError) ExitCode() int {
	return e.Code
}
