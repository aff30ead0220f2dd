package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// UploadsURLPrefix is where the HTTP layer serves the disk store's directory.
const UploadsURLPrefix = "/uploads/"

type diskImageStore struct {
	dir string
}

// NewDiskImageStore stores images under dir, creating it if needed.
func NewDiskImageStore(dir string) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &diskImageStore{dir: dir}, nil
}

// Save writes r to "<random hex>_<sanitized name>" and returns its public path.
func (s *diskImageStore) Save(ctx context.Context, r io.Reader, filename string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random filename: %w", err)
	}
	diskName := hex.EncodeToString(randomBytes) + "_" + sanitizeFilename(filename)

	destPath := filepath.Join(s.dir, diskName)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, r); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return UploadsURLPrefix + diskName, nil
}

func (s *diskImageStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, UploadsURLPrefix) {
		return nil
	}

	name := filepath.Base(strings.TrimPrefix(ref, UploadsURLPrefix))
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}

	log.Printf("[images] deleted %s", name)
	return nil
}
