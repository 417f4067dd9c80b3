package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchan-dev/itblog/shared/errors"
)

// Storage keeps files under rootPath in one folder per owner.
type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// resolve joins folder and filename under the root and refuses anything that
// would land outside of it.
func (s *Storage) resolve(folder, filename string) (string, error) {
	full := filepath.Join(s.rootPath, folder, filename)
	rel, err := filepath.Rel(s.rootPath, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || filepath.Dir(rel) != filepath.Clean(folder) {
		return "", errors.BadRequest("Invalid file path")
	}
	return full, nil
}

// Save writes data to folder/filename, replacing any existing file. The file
// is written under a temporary name first so readers never see partial content.
func (s *Storage) Save(folder, filename string, data io.Reader) (string, error) {
	fullPath, err := s.resolve(folder, filename)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to flush file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return filepath.Join(folder, filename), nil
}

// Open returns the file for reading. A missing file is NotFound.
func (s *Storage) Open(folder, filename string) (*os.File, error) {
	fullPath, err := s.resolve(folder, filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("File not found")
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a single file. A missing file is NotFound.
func (s *Storage) Delete(folder, filename string) error {
	fullPath, err := s.resolve(folder, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("File not found")
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DeleteByStem removes every file in folder named stem with any extension,
// except the file named keep.
func (s *Storage) DeleteByStem(folder, stem, keep string) error {
	dir, err := s.resolve(folder, "x")
	if err != nil {
		return err
	}
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(dir), stem+".*"))
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	for _, m := range matches {
		if filepath.Base(m) == keep {
			continue
		}
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}

// FindByStem returns the name of a file in folder named stem with any extension.
func (s *Storage) FindByStem(folder, stem string) (string, error) {
	dir, err := s.resolve(folder, "x")
	if err != nil {
		return "", err
	}
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(dir), stem+".*"))
	if err != nil {
		return "", fmt.Errorf("failed to list files: %w", err)
	}
	if len(matches) == 0 {
		return "", errors.NotFound("File not found")
	}
	return filepath.Base(matches[0]), nil
}
