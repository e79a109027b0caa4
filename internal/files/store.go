package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists attachment payloads. Metadata lives on the owning entity.
type Store interface {
	Save(originalName, mimeType, uploadedBy string, r io.Reader) (Attachment, error)
	Remove(filename string)
	Open(filename string) (io.ReadCloser, error)
}

type localStore struct {
	dir    string
	logger *zap.Logger
}

func NewLocalStore(dir string, logger ...*zap.Logger) (Store, error) {
	l := zap.L().Named("files.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("files.store")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &localStore{dir: dir, logger: l}, nil
}

func (s *localStore) Save(originalName, mimeType, uploadedBy string, r io.Reader) (Attachment, error) {
	filename := uuid.New().String() + filepath.Ext(originalName)

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return Attachment{}, fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		return Attachment{}, fmt.Errorf("write attachment file: %w", err)
	}

	return Attachment{
		OriginalName: originalName,
		Filename:     filename,
		MimeType:     mimeType,
		Size:         size,
		UploadedBy:   uploadedBy,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// Remove is best effort. A failed delete must never block the mutation
// that orphaned the file.
func (s *localStore) Remove(filename string) {
	if filename == "" {
		return
	}
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("could not delete attachment file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

func (s *localStore) Open(filename string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(filename)))
}
