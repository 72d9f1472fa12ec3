package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

var ErrNotFound = errors.New("object not found")

// Store reads objects from one storage backend.
type Store interface {
	Get(ctx context.Context, loc Location) (io.ReadCloser, ObjectInfo, error)
}

// ObjectInfo is best effort; backends fill what they report. Size is -1 when
// unknown.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText reads the whole object as UTF-8 text, refusing objects larger than
// maxBytes.
func ReadText(ctx context.Context, s Store, loc Location, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		return "", errors.New("max bytes must be positive")
	}
	body, info, err := s.Get(ctx, loc)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	if info.Size > maxBytes {
		return "", fmt.Errorf("object %s is %d bytes, limit is %d", loc, info.Size, maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(body, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", loc, err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("object %s exceeds limit of %d bytes", loc, maxBytes)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("object %s is not valid UTF-8", loc)
	}
	return string(data), nil
}
