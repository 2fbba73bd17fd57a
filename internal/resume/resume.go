// Package resume binds uploaded resume files to applicant ids.
//
// Files are stored under the key "{id}_{sanitizedName}" in a storage.Storage
// backend. The key is what gets recorded on the applicant and later passed
// back to Load; it is never recomputed from the current applicant fields.
// Uploading again for the same id and file name replaces the previous file.
package resume

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"applicantreview/internal/apperr"
	"applicantreview/internal/storage"
)

const (
	defaultContentType = "application/octet-stream"
	sniffLen           = 3072
)

// StoredFile describes a resume after it was written.
type StoredFile struct {
	FileName    string
	ContentType string
	Path        string
	Size        int64
}

// File is an open resume. Callers must close Body.
type File struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store writes and reads resume files.
type Store struct {
	blobs storage.Storage
}

func NewStore(blobs storage.Storage) *Store {
	return &Store{blobs: blobs}
}

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with '_'.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Names returns the sanitized display name and the storage key for an upload.
// A blank original name falls back to "resume-{id}.pdf".
func Names(id int64, originalFilename string) (fileName, key string) {
	if strings.TrimSpace(originalFilename) == "" {
		fileName = fmt.Sprintf("resume-%d.pdf", id)
	} else {
		fileName = SanitizeFilename(originalFilename)
	}
	return fileName, fmt.Sprintf("%d_%s", id, fileName)
}

// Save streams r to the key derived from id and originalFilename.
func (s *Store) Save(ctx context.Context, id int64, originalFilename, contentType string, r io.Reader) (StoredFile, error) {
	if r == nil {
		return StoredFile{}, apperr.Validation("Resume file is required")
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = defaultContentType
	}
	fileName, key := Names(id, originalFilename)

	info, err := s.blobs.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return StoredFile{}, apperr.Storage("Failed to store resume", err)
	}
	return StoredFile{
		FileName:    fileName,
		ContentType: contentType,
		Path:        info.Key,
		Size:        info.Size,
	}, nil
}

// Load opens the resume recorded at path. The type recorded at upload is returned
// unchanged; the content is sniffed only when nothing specific was recorded.
func (s *Store) Load(ctx context.Context, path, recordedType string) (*File, error) {
	rc, info, err := s.blobs.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperr.NotFound("Resume file not found on server")
		}
		return nil, apperr.Storage("Failed to load resume", err)
	}

	br := bufio.NewReaderSize(rc, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		rc.Close()
		return nil, apperr.Storage("Failed to load resume", err)
	}

	return &File{
		Body:        readCloser{Reader: br, Closer: rc},
		ContentType: contentType(head, recordedType, info.ContentType),
		Size:        info.Size,
	}, nil
}

// Remove deletes the resume at path. A file that is already gone is not an error.
func (s *Store) Remove(ctx context.Context, path string) error {
	if err := s.blobs.Delete(ctx, path); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return apperr.Storage("Failed to remove resume", err)
	}
	return nil
}

// contentType returns the first specific declared type, else the sniffed one.
func contentType(head []byte, declared ...string) string {
	for _, ct := range declared {
		if ct = strings.TrimSpace(ct); ct != "" && ct != defaultContentType {
			return ct
		}
	}
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil {
			return mt.String()
		}
	}
	return defaultContentType
}

type readCloser struct {
	io.Reader
	io.Closer
}
