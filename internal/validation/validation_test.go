package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidInputFile(t *testing.T) {
	dir := t.TempDir()
	csvFile := filepath.Join(dir, "training.CSV")
	txtFile := filepath.Join(dir, "notes.txt")
	assert.NoError(t, os.WriteFile(csvFile, []byte("description\n"), 0600))
	assert.NoError(t, os.WriteFile(txtFile, []byte("x"), 0600))

	tests := []struct {
		name        string
		path        string
		extensions  []string
		expectError string
	}{
		{"csv accepted", csvFile, []string{".csv"}, ""},
		{"any extension", txtFile, nil, ""},
		{"wrong extension", txtFile, []string{".csv"}, "unsupported file type"},
		{"missing", filepath.Join(dir, "nope.csv"), []string{".csv"}, "does not exist"},
		{"directory", dir, nil, "not a regular file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsValidInputFile(tt.path, tt.extensions...)
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.expectError)
			}
		})
	}
}

func TestIsValidFilePermissions(t *testing.T) {
	tests := []struct {
		mode    os.FileMode
		wantErr bool
	}{
		{0o600, false},
		{0o644, true},
		{0o640, false},
		{0o604, true},
		{0o777, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			err := IsValidFilePermissions(tt.mode)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
