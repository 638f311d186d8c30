package seed

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError means the seed settings cannot be acted on, e.g. the
// configured folder does not exist.
type ConfigurationError struct {
	Setting string
	Value   string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Setting, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SourceMissingError lists required seed files absent from a resolved location.
type SourceMissingError struct {
	Location string
	Files    []string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("seed source %s is missing %s", e.Location, strings.Join(e.Files, ", "))
}

// AssemblyError is an entity whose parent reference does not resolve, or
// whose id collides with one already assembled in this pass.
type AssemblyError struct {
	Entity   string
	ID       int64
	Parent   string
	ParentID int64
	Reason   string
}

func (e *AssemblyError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s %d: %s %d %s", e.Entity, e.ID, e.Parent, e.ParentID, e.Reason)
	}
	return fmt.Sprintf("%s %d: %s", e.Entity, e.ID, e.Reason)
}

// StageError tags a failure with the stage it happened in.
type StageError struct {
	Stage Kind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("seed stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// BootstrapError wraps a failure to ensure the default accounts.
type BootstrapError struct {
	Err error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap accounts: %v", e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// IsFatal reports whether err should stop the process: bad settings,
// missing seed files and bootstrap failures. Stage failures are not fatal.
func IsFatal(err error) bool {
	var (
		cfgErr     *ConfigurationError
		missingErr *SourceMissingError
		bootErr    *BootstrapError
	)
	return errors.As(err, &cfgErr) || errors.As(err, &missingErr) || errors.As(err, &bootErr)
}
