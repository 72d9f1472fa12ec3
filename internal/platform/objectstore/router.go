package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Router dispatches a Location to the backend for its scheme, building each
// client on first use.
type Router struct {
	cfg    Config
	stores map[string]Store
}

func NewRouter(cfg Config) *Router {
	return &Router{cfg: cfg, stores: map[string]Store{}}
}

// Register installs a store for a scheme ahead of lazy construction.
func (r *Router) Register(scheme string, s Store) {
	r.stores[scheme] = s
}

func (r *Router) Get(ctx context.Context, loc Location) (io.ReadCloser, ObjectInfo, error) {
	s, err := r.store(ctx, loc)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return s.Get(ctx, loc)
}

func (r *Router) store(ctx context.Context, loc Location) (Store, error) {
	key := loc.Scheme
	account := loc.Account
	if loc.Scheme == SchemeAzure {
		if account == "" {
			account = r.cfg.AzureAccount
		}
		if s, ok := r.stores[key]; ok {
			return s, nil
		}
		key = SchemeAzure + ":" + account
	}
	if s, ok := r.stores[key]; ok {
		return s, nil
	}

	var s Store
	var err error
	switch loc.Scheme {
	case SchemeS3:
		if r.cfg.S3Endpoint != "" {
			s, err = NewMinioStore(r.cfg)
		} else {
			s, err = NewS3Store(ctx, r.cfg)
		}
	case SchemeGCS:
		s, err = NewGCSStore(ctx, r.cfg)
	case SchemeAzure:
		s, err = NewAzureStore(r.cfg, account)
	case SchemeFile:
		s = FileStore{}
	default:
		return nil, fmt.Errorf("no object store for scheme %q", loc.Scheme)
	}
	if err != nil {
		return nil, err
	}
	r.stores[key] = s
	return s, nil
}

// Close releases clients that hold resources.
func (r *Router) Close() error {
	var errs []error
	for _, s := range r.stores {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
