package services

import (
	"fmt"
	"log"
	"mime"
	"mime/multipart"
	"time"

	"github.com/taskdesk/task-assignment-api/internal/constants"
	"github.com/taskdesk/task-assignment-api/internal/models"
	"github.com/taskdesk/task-assignment-api/internal/storage"
)

// AttachmentService validates candidate files and moves accepted blobs into
// the store. Validation is all-or-nothing: one bad file rejects the batch
// before any blob is written.
type AttachmentService struct {
	store storage.Store
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(store storage.Store) *AttachmentService {
	return &AttachmentService{store: store}
}

// ValidateFiles checks every candidate against the PDF content-type and
// per-file size ceiling and returns one violation per offending file.
func (s *AttachmentService) ValidateFiles(field string, files []*multipart.FileHeader) []FieldViolation {
	var violations []FieldViolation

	for _, fh := range files {
		mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
		if err != nil || mediaType != constants.AttachmentContentType {
			violations = append(violations, FieldViolation{
				Field:   field,
				Message: fmt.Sprintf("%s: only PDF files are allowed", fh.Filename),
			})
			continue
		}
		if fh.Size > constants.MaxAttachmentSize {
			violations = append(violations, FieldViolation{
				Field:   field,
				Message: fmt.Sprintf("%s: file exceeds the %dMB limit", fh.Filename, constants.MaxAttachmentSize>>20),
			})
		}
	}

	return violations
}

// StoreFiles writes each blob to the store and returns the metadata records.
// A metadata record is produced only after its blob write succeeded; on a
// mid-batch failure the already-written blobs are removed again.
func (s *AttachmentService) StoreFiles(files []*multipart.FileHeader) ([]models.Attachment, error) {
	attachments := make([]models.Attachment, 0, len(files))

	for _, fh := range files {
		key := storage.GenerateKey(fh.Filename)

		f, err := fh.Open()
		if err != nil {
			s.removeAll(attachments)
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}

		path, err := s.store.Save(key, f)
		f.Close()
		if err != nil {
			s.removeAll(attachments)
			return nil, fmt.Errorf("failed to store file %s: %w", fh.Filename, err)
		}

		attachments = append(attachments, models.Attachment{
			StoredName:   key,
			OriginalName: fh.Filename,
			Path:         path,
			UploadedAt:   time.Now(),
		})
	}

	return attachments, nil
}

// Remove deletes a stored blob. Failure is logged, never surfaced: the
// metadata mutation is the operation of record.
func (s *AttachmentService) Remove(storedName string) {
	if err := s.store.Delete(storedName); err != nil {
		log.Printf("failed to delete blob %s: %v", storedName, err)
	}
}

func (s *AttachmentService) removeAll(attachments []models.Attachment) {
	for _, a := range attachments {
		s.Remove(a.StoredName)
	}
}
