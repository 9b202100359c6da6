package tui

import "fmt"

// wrapErr prefixes an error with the operation that produced it, so
// the init failure screen and status bar can say which call broke.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
