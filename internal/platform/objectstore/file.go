package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// FileStore reads file:// locations from local disk.
type FileStore struct{}

func (FileStore) Get(_ context.Context, loc Location) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(loc.Key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ObjectInfo{}, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		return nil, ObjectInfo{}, fmt.Errorf("open %s: %w", loc, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat %s: %w", loc, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("%s is a directory", loc)
	}
	return f, ObjectInfo{
		Key:          loc.Key,
		Size:         st.Size(),
		LastModified: st.ModTime(),
	}, nil
}
