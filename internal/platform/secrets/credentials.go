package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var (
	ErrMalformed    = errors.New("secret payload malformed")
	ErrMissingField = errors.New("secret payload missing field")
)

// Credentials is the connection record stored in a cluster secret.
type Credentials struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
}

// Field names of the payload, with the rotation-template spellings accepted
// when the primary key is absent.
var fieldKeys = []struct {
	name    string
	aliases []string
}{
	{name: "user", aliases: []string{"username"}},
	{name: "password"},
	{name: "host"},
	{name: "port"},
	{name: "database", aliases: []string{"dbname"}},
}

// ParseCredentials decodes a flat JSON object of the form
// {"user", "password", "host", "port", "database"}. Port may be a number or a
// numeric string.
func ParseCredentials(payload string) (Credentials, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return Credentials{}, fmt.Errorf("%w: payload is not an object", ErrMalformed)
	}

	values := make(map[string]any, len(fieldKeys))
	for _, f := range fieldKeys {
		v, ok := doc[f.name]
		for _, alias := range f.aliases {
			if ok {
				break
			}
			v, ok = doc[alias]
		}
		if !ok || v == nil {
			return Credentials{}, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
		values[f.name] = v
	}

	var creds Credentials
	var err error
	if creds.User, err = stringField(values, "user"); err != nil {
		return Credentials{}, err
	}
	if creds.Password, err = stringField(values, "password"); err != nil {
		return Credentials{}, err
	}
	if creds.Host, err = stringField(values, "host"); err != nil {
		return Credentials{}, err
	}
	if creds.Database, err = stringField(values, "database"); err != nil {
		return Credentials{}, err
	}
	if creds.Port, err = portField(values["port"]); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func stringField(values map[string]any, name string) (string, error) {
	s, ok := values[name].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformed, name)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return s, nil
}

func portField(v any) (int, error) {
	var raw string
	switch v := v.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("%w: port must be a number or numeric string", ErrMalformed)
	}
	if raw == "" {
		return 0, fmt.Errorf("%w: port", ErrMissingField)
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: port %q out of range", ErrMalformed, raw)
	}
	return port, nil
}

// String never includes the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", c.User),
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("database", c.Database),
	)
}
