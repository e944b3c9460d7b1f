package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadTextFile reads a whole text file
func ReadTextFile(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: filePath, Err: err}
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	LogDebug("Read %d bytes from %s", len(data), filePath)
	return string(data), nil
}

// WriteTextFile writes text to a file. The content is staged in a sibling
// temp file and renamed into place so readers never see a partial file.
func WriteTextFile(filePath string, content string) error {
	return writeAtomic(filePath, func(w *bufio.Writer) error {
		_, err := w.WriteString(content)
		return err
	})
}

// WriteBinaryFile writes data to a file with the same guarantees as WriteTextFile
func WriteBinaryFile(filePath string, data []byte) error {
	return writeAtomic(filePath, func(w *bufio.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomic(filePath string, write func(w *bufio.Writer) error) error {
	pf, err := renameio.NewPendingFile(filePath,
		renameio.WithTempDir(filepath.Dir(filePath)),
		renameio.WithStaticPermissions(0644),
	)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := pf.Cleanup(); err != nil {
			LogWarning("Failed to remove temp file for %s: %v", filePath, err)
		}
	}()

	writer := bufio.NewWriter(pf)
	if err := write(writer); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	// Synced before the rename so a crash never leaves an empty checkpoint.
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	LogDebug("Successfully wrote content to %s", filePath)
	return nil
}

// SyncDir flushes a directory entry so a rename inside it survives a crash
func SyncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("failed to sync directory: %w", err)
	}
	return nil
}

// ExpandHomeDir expands a path if it starts with "~/"
func ExpandHomeDir(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
