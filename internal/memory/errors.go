package memory

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrVendorNotFound is returned by lookups for an id the store has never seen.
var ErrVendorNotFound = errors.New("vendor not found")

// CorruptStateError means the memory file exists but cannot be trusted.
// The store never discards such a file on its own.
type CorruptStateError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	msg := fmt.Sprintf("corrupt memory file %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	msg += fmt.Sprintf("\n💡 Restore %s.bak or move the file aside to start with an empty store", e.Path)
	return msg
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// PermissionError reports a memory file or directory the process may not touch.
type PermissionError struct {
	Path string
	Op   string // "read" or "write"
	Fix  string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied (cannot %s memory): %s\n💡 Fix: %s", e.Op, e.Path, e.Fix)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

func permissionFix(path string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("Right-click %s → Properties → Security → Grant 'Write' permission", path)
	}
	return fmt.Sprintf("Run: chmod u+rw %s", path)
}
