package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"auditapi/internal/model"
	"auditapi/internal/repository"
	"auditapi/internal/storage"
)

// FileInput carries one uploaded file through the engine.
type FileInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UploadedObject is the result of a storage upload, not yet linked to any
// entity.
type UploadedObject struct {
	Key         string
	URL         string
	FileName    string
	Size        int64
	ContentType string
}

// AttachmentService is the file attachment lifecycle shared by the request
// and content managers: upload an object, link/unlink its metadata row,
// remove the object again. Uploads are not retried and links are not
// de-duplicated; both are caller contracts.
type AttachmentService interface {
	// Upload streams a file to object storage under a generated key and
	// returns its stable URL. The stored object name is UUID + original
	// extension; the original filename travels as metadata.
	Upload(ctx context.Context, in FileInput) (*UploadedObject, error)

	// LinkToRequest records an uploaded object as a RequestFile row.
	LinkToRequest(ctx context.Context, requestID string, obj *UploadedObject) (*model.RequestFile, error)

	// Unlink removes a RequestFile metadata row. The object itself is the
	// caller's concern.
	Unlink(ctx context.Context, fileID string) error

	// RemoveObject deletes an object from storage by key.
	RemoveObject(ctx context.Context, key string) error

	// PresignDownload returns a time-limited download URL for an object.
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type attachmentService struct {
	store storage.Storage
	files repository.RequestFileRepository
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.Storage, files repository.RequestFileRepository) AttachmentService {
	return &attachmentService{store: store, files: files}
}

func (s *attachmentService) Upload(ctx context.Context, in FileInput) (*UploadedObject, error) {
	if in.Reader == nil {
		return nil, fmt.Errorf("%w: file reader is nil", ErrValidation)
	}

	ext := filepath.Ext(in.Filename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("explanations", genName))

	info, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrStorage, in.Filename, err)
	}

	return &UploadedObject{
		Key:         info.Key,
		URL:         s.store.PublicURL(info.Key),
		FileName:    in.Filename,
		Size:        info.Size,
		ContentType: in.ContentType,
	}, nil
}

func (s *attachmentService) LinkToRequest(ctx context.Context, requestID string, obj *UploadedObject) (*model.RequestFile, error) {
	f := &model.RequestFile{
		ID:          uuid.New().String(),
		RequestID:   requestID,
		FileName:    obj.FileName,
		StoragePath: obj.Key,
		FileURL:     obj.URL,
		Size:        obj.Size,
		ContentType: obj.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.files.Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("link file to request: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) Unlink(ctx context.Context, fileID string) error {
	if err := s.files.Delete(ctx, fileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *attachmentService) RemoveObject(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, key, err)
	}
	return nil
}

func (s *attachmentService) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.store.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", ErrStorage, key, err)
	}
	return u, nil
}
