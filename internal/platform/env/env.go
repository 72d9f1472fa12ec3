package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileKey names the variable pointing at an optional YAML settings file.
const FileKey = "SQLRUNNER_CONFIG_FILE"

// Source resolves settings from the process environment, falling back to
// values loaded from a settings file. The zero value reads the environment only.
type Source struct {
	file map[string]string
}

// Load returns a Source backed by the file named in SQLRUNNER_CONFIG_FILE, if any.
func Load() (Source, error) {
	path, ok := os.LookupEnv(FileKey)
	if !ok || strings.TrimSpace(path) == "" {
		return Source{}, nil
	}
	return FromFile(strings.TrimSpace(path))
}

// FromFile reads a flat YAML map of KEY: value pairs.
func FromFile(path string) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Source{}, fmt.Errorf("parse %s: %w", path, err)
	}
	values := make(map[string]string, len(doc))
	for key, v := range doc {
		switch v := v.(type) {
		case nil:
			continue
		case map[string]any, []any:
			return Source{}, fmt.Errorf("parse %s: %s must be a scalar", path, key)
		case string:
			values[key] = v
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return Source{file: values}, nil
}

func (s Source) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}

func (s Source) String(key string, def string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return def
}

func (s Source) Duration(key string, def time.Duration) (time.Duration, error) {
	if v, ok := s.lookup(key); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return d, nil
	}
	return def, nil
}

func (s Source) Bool(key string, def bool) (bool, error) {
	if v, ok := s.lookup(key); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", key, err)
		}
		return b, nil
	}
	return def, nil
}

func (s Source) Int64(key string, def int64) (int64, error) {
	if v, ok := s.lookup(key); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return i, nil
	}
	return def, nil
}
