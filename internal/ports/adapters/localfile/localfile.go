package localfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sink writes the artifact to a file on local disk, replacing earlier runs.
type Sink struct {
	Path string
}

func New(path string) *Sink { return &Sink{Path: path} }

func (s *Sink) Create() (io.WriteCloser, error) {
	if s.Path == "" {
		return nil, errors.New("output path is empty")
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.Path, err)
	}
	return &syncFile{File: f}, nil
}

type syncFile struct {
	*os.File
}

// Close syncs to durable storage before closing.
func (f *syncFile) Close() error {
	syncErr := f.File.Sync()
	closeErr := f.File.Close()
	if syncErr != nil {
		return fmt.Errorf("sync %s: %w", f.Name(), syncErr)
	}
	return closeErr
}
