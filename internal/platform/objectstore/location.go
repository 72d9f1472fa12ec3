package objectstore

import (
	"fmt"
	"strings"
)

const (
	SchemeS3    = "s3"
	SchemeGCS   = "gs"
	SchemeAzure = "az"
	SchemeFile  = "file"
)

// Location addresses one object. Account is only set for Azure URIs that
// carry the storage account in the host.
type Location struct {
	Scheme  string
	Account string
	Bucket  string
	Key     string
}

func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return "file://" + l.Key
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Key)
}

// ParseLocation accepts:
//
//	s3://bucket/key  (also s3a://, s3n://)
//	gs://bucket/key
//	az://container/key
//	abfs[s]://container@account.dfs.core.windows.net/key
//	https://account.blob.core.windows.net/container/key
//	file:///path/to/file
//
// Keys are taken verbatim from the URI: percent sequences are not decoded,
// so "a%20b.sql" names the object "a%20b.sql". A query or fragment suffix
// is dropped.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("empty object location")
	}
	scheme, authority, path, err := splitURI(raw)
	if err != nil {
		return Location{}, err
	}
	key := strings.TrimLeft(path, "/")

	var loc Location
	switch scheme {
	case "s3", "s3a", "s3n":
		loc = Location{Scheme: SchemeS3, Bucket: authority, Key: key}

	case "gs":
		loc = Location{Scheme: SchemeGCS, Bucket: authority, Key: key}

	case "az":
		loc = Location{Scheme: SchemeAzure, Bucket: authority, Key: key}

	case "abfs", "abfss":
		container, host, ok := strings.Cut(authority, "@")
		if !ok {
			return Location{}, fmt.Errorf("%s location %q missing container@account", scheme, raw)
		}
		loc = Location{
			Scheme:  SchemeAzure,
			Account: accountFromHost(host),
			Bucket:  container,
			Key:     key,
		}

	case "https":
		host := hostname(authority)
		if !strings.HasSuffix(strings.ToLower(host), ".blob.core.windows.net") {
			return Location{}, fmt.Errorf("unsupported https object host %q", authority)
		}
		container, blob, _ := strings.Cut(key, "/")
		loc = Location{
			Scheme:  SchemeAzure,
			Account: accountFromHost(host),
			Bucket:  container,
			Key:     blob,
		}

	case "file":
		if authority+path == "" {
			return Location{}, fmt.Errorf("empty path in %q", raw)
		}
		return Location{Scheme: SchemeFile, Key: authority + path}, nil

	default:
		return Location{}, fmt.Errorf("unsupported object location scheme %q in %q", scheme, raw)
	}

	if loc.Bucket == "" {
		return Location{}, fmt.Errorf("empty bucket in %q", raw)
	}
	if loc.Key == "" {
		return Location{}, fmt.Errorf("empty key in %q", raw)
	}
	return loc, nil
}

// splitURI breaks raw into a lower-cased scheme, the authority and the
// undecoded path. The fragment and query are discarded.
func splitURI(raw string) (scheme, authority, path string, err error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return "", "", "", fmt.Errorf("object location %q has no scheme", raw)
	}
	for i, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
			i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.')) {
			return "", "", "", fmt.Errorf("object location %q has an invalid scheme", raw)
		}
	}
	rest, _, _ = strings.Cut(rest, "#")
	rest, _, _ = strings.Cut(rest, "?")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority, path = rest[:i], rest[i:]
	} else {
		authority = rest
	}
	return strings.ToLower(scheme), authority, path, nil
}

func hostname(authority string) string {
	if _, host, ok := strings.Cut(authority, "@"); ok {
		authority = host
	}
	host, _, _ := strings.Cut(authority, ":")
	return host
}

func accountFromHost(host string) string {
	account, _, _ := strings.Cut(host, ".")
	return account
}
