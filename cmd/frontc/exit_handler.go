package main

import (
	"os"

	"github.com/loykin/frontc/internal/common"
)

// ExitHandler provides a testable way to handle program termination
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

// DefaultExitHandler implements ExitHandler for production use
type DefaultExitHandler struct {
	exit func(int)
}

func (h *DefaultExitHandler) Exit(code int) {
	if h.exit != nil {
		h.exit(code)
		return
	}
	os.Exit(code)
}

// LogFatalError logs err on the current default logger and exits with code 1.
func (h *DefaultExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	common.LogError(msg, err, append([]any{"component", "main"}, keyvals...)...)
	h.Exit(1)
}

// Global exit handler (can be replaced for testing)
var exitHandler ExitHandler = &DefaultExitHandler{}
