// Package filex contains small filesystem helpers for the client's local
// data and download directories.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if missing and returns its path.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureSubDir creates a subdirectory of the current working directory if
// missing and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return EnsureDir(filepath.Join(cwd, dirName))
}

// DefaultDataDir resolves the per-user data directory for the client,
// creating it if needed. Falls back to a subdirectory of the working
// directory when the home directory cannot be determined.
func DefaultDataDir(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return EnsureSubDir("." + appName)
	}
	return EnsureDir(filepath.Join(home, "."+appName))
}
