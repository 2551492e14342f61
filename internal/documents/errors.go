package documents

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotPDF           = errors.New("only PDF files are allowed")
	ErrFileMissing      = errors.New("stored file is missing")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
)
