package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNotFound = errors.New("secret not found")

const fileScheme = "file://"

// Provider returns the raw payload of a named secret.
type Provider interface {
	SecretString(ctx context.Context, id string) (string, error)
}

// Fetch reads the secret and decodes its credential record.
func Fetch(ctx context.Context, p Provider, id string) (Credentials, error) {
	if strings.TrimSpace(id) == "" {
		return Credentials{}, errors.New("secret id is required")
	}
	payload, err := p.SecretString(ctx, id)
	if err != nil {
		return Credentials{}, err
	}
	creds, err := ParseCredentials(payload)
	if err != nil {
		return Credentials{}, fmt.Errorf("secret %q: %w", id, err)
	}
	return creds, nil
}

// Router sends file:// ids to the local file provider and everything else
// (names and ARNs) to Secrets Manager. The AWS provider is built on first use.
type Router struct {
	NewAWS func(ctx context.Context) (Provider, error)
	File   Provider

	aws Provider
}

func (r *Router) SecretString(ctx context.Context, id string) (string, error) {
	if strings.HasPrefix(id, fileScheme) {
		if r.File == nil {
			return "", fmt.Errorf("file secrets are not enabled: %q", id)
		}
		return r.File.SecretString(ctx, id)
	}
	if r.aws == nil {
		if r.NewAWS == nil {
			return "", errors.New("secrets manager provider is not configured")
		}
		p, err := r.NewAWS(ctx)
		if err != nil {
			return "", fmt.Errorf("secrets manager client: %w", err)
		}
		r.aws = p
	}
	return r.aws.SecretString(ctx, id)
}

// FileProvider reads file://<path> secrets from local disk.
type FileProvider struct{}

func (FileProvider) SecretString(_ context.Context, id string) (string, error) {
	path := strings.TrimPrefix(id, fileScheme)
	if path == "" {
		return "", fmt.Errorf("empty path in secret id %q", id)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("read secret file: %w", err)
	}
	return string(raw), nil
}
