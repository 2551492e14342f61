package documents

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/efidev/issuetracker/model"
	"github.com/efidev/issuetracker/params"
	"github.com/google/uuid"
)

type DocumentService struct {
	docRepo   DocumentRepository
	uploadDir string
	maxSize   int64
}

// storageFilename derives an opaque, collision-resistant on-disk name. The
// uploader's filename never reaches the filesystem, which also rules out
// path traversal.
func storageFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s%s", strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
}

// Store writes the uploaded bytes under a generated filename and inserts the
// metadata row. Only PDF attachments are accepted.
func (s *DocumentService) Store(ctx context.Context, issueID uint, originalFilename string, src io.Reader, uploadedBy string) (*model.Document, error) {
	if strings.ToLower(filepath.Ext(originalFilename)) != params.UploadExtension {
		return nil, ErrNotPDF
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}

	filename := storageFilename(originalFilename)
	path := filepath.Join(s.uploadDir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	doc := model.Document{
		IssueID:          issueID,
		Filename:         filename,
		OriginalFilename: filepath.Base(originalFilename),
		FileSize:         written,
		UploadedBy:       uploadedBy,
	}
	if err := s.docRepo.Create(ctx, &doc); err != nil {
		os.Remove(path)
		return nil, err
	}
	return &doc, nil
}

func (s *DocumentService) GetDocument(ctx context.Context, id uint) (*model.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

func (s *DocumentService) ForIssue(ctx context.Context, issueID uint) ([]model.Document, error) {
	return s.docRepo.ForIssue(ctx, issueID)
}

// FilePath resolves the on-disk location of a document's stored bytes.
func (s *DocumentService) FilePath(doc *model.Document) (string, error) {
	path := filepath.Join(s.uploadDir, doc.Filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrFileMissing
	}
	return path, nil
}

// Delete removes the metadata row and the underlying stored bytes.
func (s *DocumentService) Delete(ctx context.Context, id uint) (*model.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.removeFile(doc.Filename)
	return doc, nil
}

// RemoveStoredFiles deletes the bytes behind the given metadata rows. Used
// by the issue cascade after the rows themselves were removed in the issue
// delete transaction.
func (s *DocumentService) RemoveStoredFiles(docs []model.Document) {
	for _, doc := range docs {
		s.removeFile(doc.Filename)
	}
}

func (s *DocumentService) removeFile(filename string) {
	path := filepath.Join(s.uploadDir, filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Error("Could not remove stored file", "path", path, "error", err)
	}
}

func NewDocumentService(docRepo DocumentRepository, uploadDir string, maxSize int64) *DocumentService {
	return &DocumentService{docRepo: docRepo, uploadDir: uploadDir, maxSize: maxSize}
}
