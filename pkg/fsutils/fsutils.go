package fsutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// CreateDir creates a directory (and any parents) if it doesn't exist.
func CreateDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CreateFile creates a file with the given content. Fails if it already exists.
func CreateFile(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteToFile writes content to a file, replacing it if it exists.
// The content goes to a temporary file in the same directory first so readers
// never observe a half-written file. The parent directory must exist.
func WriteToFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// FileExists checks if a path exists and is a regular file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CopyFile copies a single file from src to dst.
// It overwrites the destination file if it exists.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %q: %w", src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst) // Creates or truncates
	if err != nil {
		return fmt.Errorf("failed to create destination file %q: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return fmt.Errorf("failed to copy data from %q to %q: %w", src, dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %q: %w", dst, err)
	}
	return nil
}

// nonAlphanumericRegex matches any character that is NOT a lowercase letter, number, underscore or period.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9_.]+`)
var collapseUnderscoreRegex = regexp.MustCompile(`_+`)

// SanitizeFilename converts a string into a safe format suitable for filenames.
// It converts to lowercase, replaces spaces and disallowed characters with underscores,
// collapses consecutive underscores, and trims leading/trailing spaces.
func SanitizeFilename(name string) string {
	lower := strings.ToLower(name)
	trimmed := strings.TrimSpace(lower)
	noSpaces := strings.ReplaceAll(trimmed, " ", "_")
	sanitized := nonAlphanumericRegex.ReplaceAllString(noSpaces, "_")
	collapsed := collapseUnderscoreRegex.ReplaceAllString(sanitized, "_")

	if collapsed == "" && name != "" {
		return "_"
	}
	return collapsed
}
