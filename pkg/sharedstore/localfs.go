package sharedstore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxKeyLength = 127 // avoid filesystem name constraints

// scalar is the on-disk record for one key.
type scalar struct {
	Value     string
	UpdatedAt time.Time
}

// LocalFS stores one gob-encoded file per key in a shared directory.
// App groups on most platforms expose such a directory to both the main
// application and its widget extension.
type LocalFS struct {
	dir string
}

// DefaultDir returns the conventional shared directory for a store ID,
// under the user cache directory.
func DefaultDir(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get user cache dir: %w", err)
	}
	return filepath.Join(base, id), nil
}

// NewLocalFS creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewLocalFS(dir string) (*LocalFS, error) {
	if dir == "" {
		return nil, errors.New("dir cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create shared store dir: %w", err)
	}
	return &LocalFS{dir: dir}, nil
}

func validateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return errors.New("invalid id: contains path separators or traversal sequences")
	}
	if strings.Contains(id, "\x00") {
		return errors.New("invalid id: contains null byte")
	}
	return nil
}

// validateKey checks that a key is safe to use as a filename.
// Keys must be alphanumeric, dash, underscore, period, or colon.
func validateKey(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: %d bytes (max %d)", len(key), maxKeyLength)
	}
	for _, ch := range key {
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') &&
			(ch < '0' || ch > '9') && ch != '-' && ch != '_' && ch != '.' && ch != ':' {
			return fmt.Errorf("invalid character %q in key (only alphanumeric, dash, underscore, period, colon allowed)", ch)
		}
	}
	return nil
}

func (s *LocalFS) path(key string) string {
	return filepath.Join(s.dir, key+".gob")
}

// Get retrieves a scalar from its file. A missing file is a normal miss.
func (s *LocalFS) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	file, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: open %s: %v", ErrUnavailable, key, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	var rec scalar
	if err := gob.NewDecoder(file).Decode(&rec); err != nil {
		return "", false, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, key, err)
	}
	return rec.Value, true, nil
}

// Set writes a scalar to a temporary file and renames it into place, so
// concurrent readers in other processes never observe a partial write.
func (s *LocalFS) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrUnavailable, key, err)
	}
	tmpName := tmp.Name()

	rec := scalar{Value: value, UpdatedAt: time.Now()}
	if err := gob.NewEncoder(tmp).Encode(&rec); err != nil {
		tmp.Close()        //nolint:errcheck,gosec // already failing
		os.Remove(tmpName) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("%w: close temp for %s: %v", ErrUnavailable, key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec // best-effort cleanup
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Close is a no-op for the file-backed store.
func (*LocalFS) Close() error {
	return nil
}
