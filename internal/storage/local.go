package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Voice notes and receipt photos are small; anything bigger is a bad upload.
const maxUploadBytes = 32 << 20

// LocalStorage keeps uploaded voice notes and receipt photos on disk under a
// single base directory, renamed to collision-free uuid filenames.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save stores the upload under a fresh uuid name, keeping only the original
// extension (lowercased). Returns the stored filename.
func (s *LocalStorage) Save(filename string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	newFilename := uuid.New().String() + ext
	fullPath := filepath.Join(s.baseDir, newFilename)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, io.LimitReader(reader, maxUploadBytes+1))
	if err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if n > maxUploadBytes {
		os.Remove(fullPath)
		return "", fmt.Errorf("upload exceeds %d bytes", maxUploadBytes)
	}

	return newFilename, nil
}

func (s *LocalStorage) GetPath(filename string) string {
	return filepath.Join(s.baseDir, filename)
}

func (s *LocalStorage) Delete(filename string) error {
	return os.Remove(filepath.Join(s.baseDir, filename))
}
