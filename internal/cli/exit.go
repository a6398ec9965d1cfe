package cli

import (
	"errors"
	"fmt"

	flokerrors "flok.dev/flok/internal/errors"
	"flok.dev/flok/internal/output"
)

// Exit codes of the flok binary
const (
	// CodeOK means success and nothing needed changing
	CodeOK = 0
	// CodeUsage means a usage, syntax, structural or identity error; the
	// repository was not modified
	CodeUsage = 1
	// CodeChanged means success with changes applied
	CodeChanged = 2
	// CodeConflict means a cherry-pick conflict stopped execution; the
	// repository is partially updated and the run is resumable
	CodeConflict = 3
)

// ExitError carries an explicit exit code through cobra's error return.
// A nil Err signals a silent exit, used for the success-with-changes code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// errChangesApplied is returned by commands that mutated branches
var errChangesApplied = &ExitError{Code: CodeChanged}

// HandleError reports err to the user and maps it to a process exit code
func HandleError(log *output.Splog, err error) int {
	if err == nil {
		return CodeOK
	}

	var exit *ExitError
	if errors.As(err, &exit) && exit.Err == nil {
		return exit.Code
	}

	log.Error("Error: %v", err)
	for _, hint := range flokerrors.HintsOf(err) {
		log.Hint(hint)
	}

	switch {
	case errors.Is(err, flokerrors.ErrCherryPickConflict):
		return CodeConflict
	case errors.As(err, &exit):
		return exit.Code
	default:
		return CodeUsage
	}
}
