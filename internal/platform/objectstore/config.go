package objectstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/animus-labs/sqlrunner/internal/platform/env"
)

const defaultMaxScriptBytes = 16 << 20

type Config struct {
	MaxScriptBytes int64
	Region         string

	// S3Endpoint switches s3:// reads to the S3-compatible client.
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3PathStyle bool

	GCSKeyFile string

	AzureAccount  string
	AzureKey      string
	AzureSASToken string
}

func ConfigFromEnv(src env.Source) (Config, error) {
	maxBytes, err := src.Int64("OBJECTSTORE_MAX_SCRIPT_BYTES", defaultMaxScriptBytes)
	if err != nil {
		return Config{}, err
	}
	useSSL, err := src.Bool("OBJECTSTORE_S3_USE_SSL", true)
	if err != nil {
		return Config{}, err
	}
	pathStyle, err := src.Bool("OBJECTSTORE_S3_PATH_STYLE", false)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		MaxScriptBytes: maxBytes,
		Region:         strings.TrimSpace(src.String("OBJECTSTORE_REGION", "")),
		S3Endpoint:     strings.TrimSpace(src.String("OBJECTSTORE_S3_ENDPOINT", "")),
		S3AccessKey:    src.String("OBJECTSTORE_S3_ACCESS_KEY", ""),
		S3SecretKey:    src.String("OBJECTSTORE_S3_SECRET_KEY", ""),
		S3UseSSL:       useSSL,
		S3PathStyle:    pathStyle,
		GCSKeyFile:     strings.TrimSpace(src.String("OBJECTSTORE_GCS_KEY_FILE", "")),
		AzureAccount:   strings.TrimSpace(src.String("AZURE_STORAGE_ACCOUNT", "")),
		AzureKey:       src.String("AZURE_STORAGE_KEY", ""),
		AzureSASToken:  strings.TrimPrefix(strings.TrimSpace(src.String("AZURE_STORAGE_SAS_TOKEN", "")), "?"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxScriptBytes <= 0 {
		return errors.New("OBJECTSTORE_MAX_SCRIPT_BYTES must be positive")
	}
	if strings.Contains(c.S3Endpoint, "://") {
		return fmt.Errorf("OBJECTSTORE_S3_ENDPOINT must not include scheme: %q", c.S3Endpoint)
	}
	if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return errors.New("OBJECTSTORE_S3_ACCESS_KEY and OBJECTSTORE_S3_SECRET_KEY must be set together")
	}
	return nil
}
