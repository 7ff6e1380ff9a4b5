// Package storage writes uploaded and generated images to the local
// filesystem and maps them to the public URLs handed back to clients.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URL path prefixes under which the router serves the two directories.
const (
	GeneratedRoute = "/generated"
	UploadRoute    = "/uploads"
)

// ErrEmptyData is returned when asked to persist zero bytes.
var ErrEmptyData = errors.New("no image data")

// Store persists image files. Every write uses a fresh unique name, so
// concurrent requests never overwrite each other's files.
type Store struct {
	GeneratedDir  string
	UploadDir     string
	PublicBaseURL string

	// Now is optional and only overridden in tests.
	Now func() time.Time
}

// New returns a Store and creates both directories if needed.
func New(generatedDir, uploadDir, publicBaseURL string) (*Store, error) {
	for _, d := range []string{generatedDir, uploadDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return &Store{
		GeneratedDir:  generatedDir,
		UploadDir:     uploadDir,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) stamp() string { return s.now().UTC().Format("20060102_150405") }

// GeneratedURL returns the public URL of a file inside GeneratedDir.
func (s *Store) GeneratedURL(name string) string {
	return s.PublicBaseURL + GeneratedRoute + "/" + name
}

// SaveGenerated writes model output and returns its public URL. When mime is
// empty or unrecognised the type is sniffed from data.
func (s *Store) SaveGenerated(data []byte, mime string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyData
	}
	ext, ok := extByMIME[strings.ToLower(mime)]
	if !ok {
		if sniffed, err := DetectImage(data); err == nil {
			ext = extByMIME[sniffed]
		} else {
			ext = "png"
		}
	}
	name := fmt.Sprintf("gen_%s_%s.%s", s.stamp(), shortID(), ext)
	if err := writeNew(filepath.Join(s.GeneratedDir, name), data); err != nil {
		return "", err
	}
	return s.GeneratedURL(name), nil
}

// SaveUpload validates an uploaded image and stores it as
// <prefix>_<timestamp>_<secure name>. It returns the path relative to the
// service root ("uploads/<name>") and the detected MIME type.
func (s *Store) SaveUpload(prefix, filename string, data []byte) (string, string, error) {
	mime, err := ValidateUpload(filename, data)
	if err != nil {
		return "", "", err
	}
	name := fmt.Sprintf("%s_%s_%s", prefix, s.stamp(), SecureFilename(filename))
	path := filepath.Join(s.UploadDir, name)
	if _, err := os.Stat(path); err == nil {
		// Same prefix, second and file name; disambiguate.
		name = fmt.Sprintf("%s_%s_%s_%s", prefix, s.stamp(), shortID(), SecureFilename(filename))
		path = filepath.Join(s.UploadDir, name)
	}
	if err := writeNew(path, data); err != nil {
		return "", "", err
	}
	return strings.TrimPrefix(UploadRoute, "/") + "/" + name, mime, nil
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return f.Close()
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
