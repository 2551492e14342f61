package backup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	archiveDatabaseName = "issue_tracker.db"
	archiveUploadsDir   = "uploads"
)

var ErrNoDatabaseInArchive = errors.New("backup archive contains no database file")

// Service archives and restores the store file together with the uploaded
// attachment bytes. Restores always snapshot the current state first.
type Service struct {
	databasePath string
	uploadDir    string
	backupDir    string
}

func timestampSuffix(now time.Time) string {
	return now.Format("20060102_150405")
}

func (s *Service) addFile(zw *zip.Writer, path, arcname string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := zw.Create(arcname)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func (s *Service) writeArchive(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if _, err := os.Stat(s.databasePath); err == nil {
		if err := s.addFile(zw, s.databasePath, archiveDatabaseName); err != nil {
			zw.Close()
			return err
		}
	}
	err = filepath.WalkDir(s.uploadDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.uploadDir, path)
		if err != nil {
			return err
		}
		return s.addFile(zw, path, filepath.ToSlash(filepath.Join(archiveUploadsDir, rel)))
	})
	if err != nil && !os.IsNotExist(err) {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Create writes a timestamped ZIP of the store file and the uploads
// directory into the backup directory and returns its path.
func (s *Service) Create() (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.backupDir, fmt.Sprintf("issue_tracker_backup_%s.zip", timestampSuffix(time.Now())))
	if err := s.writeArchive(path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Restore replaces the store file and uploads directory with the contents of
// the given backup archive. The current state is archived first so a bad
// restore is recoverable. The caller must reopen the store afterwards.
func (s *Service) Restore(archivePath string) (preRestorePath string, err error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	var hasDatabase bool
	for _, f := range zr.File {
		if f.Name == archiveDatabaseName {
			hasDatabase = true
			break
		}
	}
	if !hasDatabase {
		return "", ErrNoDatabaseInArchive
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", err
	}
	preRestorePath = filepath.Join(s.backupDir,
		fmt.Sprintf("issue_tracker_pre_restore_%s.zip", timestampSuffix(time.Now())))
	if err := s.writeArchive(preRestorePath); err != nil {
		os.Remove(preRestorePath)
		return "", err
	}

	if err := os.RemoveAll(s.uploadDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	for _, f := range zr.File {
		switch {
		case f.Name == archiveDatabaseName:
			if err := s.extract(f, s.databasePath); err != nil {
				return "", err
			}
		case strings.HasPrefix(f.Name, archiveUploadsDir+"/") && !strings.HasSuffix(f.Name, "/"):
			rel := strings.TrimPrefix(f.Name, archiveUploadsDir+"/")
			target := filepath.Join(s.uploadDir, filepath.FromSlash(rel))
			if !strings.HasPrefix(target, filepath.Clean(s.uploadDir)+string(os.PathSeparator)) {
				continue // entry escapes the uploads dir
			}
			if err := s.extract(f, target); err != nil {
				return "", err
			}
		}
	}
	return preRestorePath, nil
}

func (s *Service) extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return err
}

// Reset copies the store file aside and deletes it, so the next store open
// starts from an empty schema. The caller must reopen the store afterwards.
func (s *Service) Reset() (preResetPath string, err error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", err
	}
	preResetPath = filepath.Join(s.backupDir,
		fmt.Sprintf("issue_tracker_pre_reset_%s.db", timestampSuffix(time.Now())))

	if _, err := os.Stat(s.databasePath); err == nil {
		src, err := os.Open(s.databasePath)
		if err != nil {
			return "", err
		}
		dst, err := os.Create(preResetPath)
		if err != nil {
			src.Close()
			return "", err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", err
		}
		if err := os.Remove(s.databasePath); err != nil {
			return "", err
		}
	}
	return preResetPath, nil
}

func NewService(databasePath, uploadDir, backupDir string) *Service {
	return &Service{databasePath: databasePath, uploadDir: uploadDir, backupDir: backupDir}
}
