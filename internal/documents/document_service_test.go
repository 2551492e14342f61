package documents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/efidev/issuetracker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T, maxSize int64) (*DocumentService, string) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))

	dir := t.TempDir()
	return NewDocumentService(NewDocumentRepository(db), dir, maxSize), dir
}

func TestStorageFilename(t *testing.T) {
	name := storageFilename("Quarterly Report.PDF")
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.NotContains(t, name, "-")
	assert.NotContains(t, name, " ")
	assert.Len(t, name, 32+len(".pdf"))

	assert.NotEqual(t, storageFilename("a.pdf"), storageFilename("a.pdf"))
}

func TestStoreRejectsNonPDF(t *testing.T) {
	service, dir := newTestService(t, 1<<20)

	_, err := service.Store(context.Background(), 1, "notes.txt", strings.NewReader("hello"), "admin")
	assert.ErrorIs(t, err, ErrNotPDF)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	service, dir := newTestService(t, 8)

	_, err := service.Store(context.Background(), 1, "big.pdf", strings.NewReader("123456789"), "admin")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// No partial file is left behind.
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestStoreAndResolve(t *testing.T) {
	service, dir := newTestService(t, 1<<20)
	ctx := context.Background()

	doc, err := service.Store(ctx, 7, "Report Final.pdf", strings.NewReader("%PDF-1.4 data"), "hod1")
	require.NoError(t, err)
	assert.Equal(t, uint(7), doc.IssueID)
	assert.Equal(t, "Report Final.pdf", doc.OriginalFilename)
	assert.Equal(t, int64(len("%PDF-1.4 data")), doc.FileSize)
	assert.Equal(t, "hod1", doc.UploadedBy)
	assert.NotEqual(t, doc.OriginalFilename, doc.Filename)

	path, err := service.FilePath(doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, doc.Filename), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 data", string(content))

	listed, err := service.ForIssue(ctx, 7)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, doc.ID, listed[0].ID)
}

func TestFilePathMissingFile(t *testing.T) {
	service, _ := newTestService(t, 1<<20)

	doc := &model.Document{Filename: "gone.pdf"}
	_, err := service.FilePath(doc)
	assert.ErrorIs(t, err, ErrFileMissing)
}

func TestDeleteRemovesRowAndBytes(t *testing.T) {
	service, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	doc, err := service.Store(ctx, 1, "a.pdf", strings.NewReader("data"), "admin")
	require.NoError(t, err)
	path, err := service.FilePath(doc)
	require.NoError(t, err)

	_, err = service.Delete(ctx, doc.ID)
	require.NoError(t, err)

	_, err = service.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveStoredFiles(t *testing.T) {
	service, _ := newTestService(t, 1<<20)
	ctx := context.Background()

	first, err := service.Store(ctx, 1, "a.pdf", strings.NewReader("a"), "admin")
	require.NoError(t, err)
	second, err := service.Store(ctx, 1, "b.pdf", strings.NewReader("b"), "admin")
	require.NoError(t, err)

	firstPath, err := service.FilePath(first)
	require.NoError(t, err)
	secondPath, err := service.FilePath(second)
	require.NoError(t, err)

	service.RemoveStoredFiles([]model.Document{*first, *second})

	_, err = os.Stat(firstPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(secondPath)
	assert.True(t, os.IsNotExist(err))
}
