package core

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"gwi.com/windtone-assistant/internal/store"
)

// File is an ephemeral attachment. Only its name and size outlive the submission.
type File struct {
	Name      string
	MediaType string
	Size      int64
	Open      func() (io.ReadCloser, error)
}

func (f File) Attachment() store.Attachment {
	return store.Attachment{Name: f.Name, Size: f.Size}
}

// BytesFile wraps in-memory content.
func BytesFile(name, mediaType string, data []byte) File {
	return File{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// PathFile references a file on disk; its media type is sniffed from content.
func PathFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	mediaType := ""
	if mt, err := mimetype.DetectFile(path); err == nil {
		mediaType = mt.String()
	}
	return File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Size:      info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func (f File) readAll() ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("file %s has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
