package objectstore

import "testing"

func TestParseLocation(t *testing.T) {
	cases := []struct {
		raw  string
		want Location
	}{
		{"s3://scripts/etl/load.sql", Location{Scheme: SchemeS3, Bucket: "scripts", Key: "etl/load.sql"}},
		{"  s3a://scripts/load.sql ", Location{Scheme: SchemeS3, Bucket: "scripts", Key: "load.sql"}},
		{"S3://scripts//double.sql", Location{Scheme: SchemeS3, Bucket: "scripts", Key: "double.sql"}},
		{"gs://bucket/a/b.sql", Location{Scheme: SchemeGCS, Bucket: "bucket", Key: "a/b.sql"}},
		{"az://container/a.sql", Location{Scheme: SchemeAzure, Bucket: "container", Key: "a.sql"}},
		{"abfss://container@acct.dfs.core.windows.net/dir/a.sql", Location{Scheme: SchemeAzure, Account: "acct", Bucket: "container", Key: "dir/a.sql"}},
		{"https://acct.blob.core.windows.net/container/dir/a.sql", Location{Scheme: SchemeAzure, Account: "acct", Bucket: "container", Key: "dir/a.sql"}},
		{"file:///tmp/a.sql", Location{Scheme: SchemeFile, Key: "/tmp/a.sql"}},
		{"s3://scripts/reports/a%20b.sql", Location{Scheme: SchemeS3, Bucket: "scripts", Key: "reports/a%20b.sql"}},
		{"s3://scripts/reports/50%_off.sql", Location{Scheme: SchemeS3, Bucket: "scripts", Key: "reports/50%_off.sql"}},
		{"gs://bucket/q.sql?generation=3#top", Location{Scheme: SchemeGCS, Bucket: "bucket", Key: "q.sql"}},
		{"https://acct.blob.core.windows.net/container/dir/a%2Bb.sql", Location{Scheme: SchemeAzure, Account: "acct", Bucket: "container", Key: "dir/a%2Bb.sql"}},
	}
	for _, tc := range cases {
		got, err := ParseLocation(tc.raw)
		if err != nil {
			t.Fatalf("ParseLocation(%q) err=%v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLocation(%q)=%+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseLocation_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"scripts/load.sql",
		"ftp://host/file.sql",
		"s3://bucket",
		"s3://bucket/",
		"s3:///key.sql",
		"abfss://acct.dfs.core.windows.net/a.sql",
		"https://example.com/container/a.sql",
		"https://acct.blob.core.windows.net/container",
		"file://",
		"3s://bucket/a.sql",
	} {
		if _, err := ParseLocation(raw); err == nil {
			t.Fatalf("ParseLocation(%q) expected error", raw)
		}
	}
}

func TestLocationString(t *testing.T) {
	loc := Location{Scheme: SchemeS3, Bucket: "b", Key: "k/x.sql"}
	if got := loc.String(); got != "s3://b/k/x.sql" {
		t.Fatalf("String()=%q", got)
	}
	file := Location{Scheme: SchemeFile, Key: "/tmp/x.sql"}
	if got := file.String(); got != "file:///tmp/x.sql" {
		t.Fatalf("String()=%q", got)
	}
}
