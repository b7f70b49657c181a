package fileformat

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UniqueFormat returns a collision-free object name that keeps the upload's extension.
func UniqueFormat(fn string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fn)))
	return uuid.NewString() + ext
}
