package handler

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/sentimeter-team/sentimeter/errors"
)

// readUpload validates a multipart file against the extension allow list and
// size limit, then reads it. Shared by both analysis channels; only the
// allow list differs.
func readUpload(fileHeader *multipart.FileHeader, allowedExts []string, maxBytes int64) ([]byte, *errors.AppError) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !extensionAllowed(ext, allowedExts) {
		appErr := errors.ErrUnsupportedFileType(fileHeader.Filename)
		return nil, &appErr
	}
	if fileHeader.Size > maxBytes {
		appErr := errors.ErrFileTooLarge(maxBytes)
		return nil, &appErr
	}

	f, err := fileHeader.Open()
	if err != nil {
		appErr := errors.ErrInvalidPayload()
		return nil, &appErr
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		appErr := errors.ErrInvalidPayload()
		return nil, &appErr
	}
	if int64(len(content)) > maxBytes {
		appErr := errors.ErrFileTooLarge(maxBytes)
		return nil, &appErr
	}
	if len(content) == 0 {
		appErr := errors.ErrEmptyUpload()
		return nil, &appErr
	}
	return content, nil
}

// extensionAllowed reports whether ext is in the configured allow list.
func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
