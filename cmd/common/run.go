// Package common holds helpers shared by the subcommands.
package common

import (
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/fintrack/cmd/root"
	"fjacquet/fintrack/internal/categorizererror"
	"fjacquet/fintrack/internal/container"
)

// WithContainer builds the application container, runs fn and closes the
// container afterwards.
func WithContainer(fn func(c *container.Container) error) error {
	c, err := root.NewContainer()
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			root.Log.Warnf("Failed to close container: %v", cerr)
		}
	}()
	return fn(c)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DemoteWarning logs a persistence warning and returns nil for it; any other
// error is returned unchanged.
func DemoteWarning(err error) error {
	if err != nil && categorizererror.IsWarning(err) {
		root.Log.Warnf("%v", err)
		return nil
	}
	return err
}
