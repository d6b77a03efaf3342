// Package blob stores document content on the local filesystem.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for an unknown key.
	ErrNotFound = errors.New("blob not found")

	// ErrTooLarge is returned when content exceeds the configured size.
	ErrTooLarge = errors.New("blob too large")

	// ErrInvalidKey is returned for keys that are not generated by Put.
	ErrInvalidKey = errors.New("invalid blob key")
)

// sniffLen is how much of the content mimetype inspects.
const sniffLen = 3072

// Info describes stored content.
type Info struct {
	Key         string
	ContentType string
	Size        int64
}

// FS stores each blob as a file named by a random key below root.
type FS struct {
	root    string
	maxSize int64
}

// NewFS creates root when missing.
func NewFS(root string, maxSize int64) (*FS, error) {
	if err := os.MkdirAll(root, 0o750); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	return &FS{root: root, maxSize: maxSize}, nil
}

// Put stores r and returns its key, size and detected content type.
func (s *FS) Put(r io.Reader, filename string) (Info, error) {
	key := uuid.NewString()
	path := s.path(key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640) //nolint:mnd
	if err != nil {
		return Info{}, fmt.Errorf("failed to create blob: %w", err)
	}

	var head bytes.Buffer

	limited := io.LimitReader(r, s.maxSize+1)
	n, err := io.Copy(f, io.TeeReader(io.LimitReader(limited, sniffLen), &head))

	if err == nil {
		var rest int64

		rest, err = io.Copy(f, limited)
		n += rest
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	switch {
	case err != nil:
		_ = os.Remove(path)

		return Info{}, fmt.Errorf("failed to write blob: %w", err)
	case n > s.maxSize:
		_ = os.Remove(path)

		return Info{}, ErrTooLarge
	}

	return Info{Key: key, ContentType: DetectContentType(head.Bytes(), filename), Size: n}, nil
}

// Open returns the content of key.
func (s *FS) Open(key string) (io.ReadCloser, error) {
	if _, err := uuid.Parse(key); err != nil {
		return nil, ErrInvalidKey
	}

	f, err := os.Open(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}

	return f, err //nolint:wrapcheck
}

// Delete removes key. Missing blobs are not an error.
func (s *FS) Delete(key string) error {
	if _, err := uuid.Parse(key); err != nil {
		return ErrInvalidKey
	}

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err //nolint:wrapcheck
	}

	return nil
}

func (s *FS) path(key string) string {
	return filepath.Join(s.root, key)
}

// DetectContentType sniffs the magic bytes first and falls back to the file extension.
func DetectContentType(head []byte, filename string) string {
	detected := mimetype.Detect(head)

	if !detected.Is("application/octet-stream") && !detected.Is("text/plain") {
		return detected.String()
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return detected.String()
}
