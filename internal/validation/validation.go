// Package validation checks files handed to the application.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsValidInputFile checks that path is an existing regular file. When
// extensions are given the file name must end in one of them (case-insensitive).
func IsValidInputFile(path string, extensions ...string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}

	if len(extensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type %q for %s (expected %s)", ext, path, strings.Join(extensions, ", "))
}

// IsValidFilePermissions reports an error when others have any access to a
// file holding user data.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode.Perm()&0o007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.Perm().String())
	}
	return nil
}
