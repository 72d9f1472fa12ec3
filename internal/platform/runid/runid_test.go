package runid

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	id := New()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("New()=%q not a uuid: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("New() version=%d, want 4", parsed.Version())
	}
	if other := New(); other == id {
		t.Fatalf("New() returned %q twice", id)
	}
}

func TestContext(t *testing.T) {
	if got := FromContext(context.Background()); got != "" {
		t.Fatalf("FromContext()=%q, want empty", got)
	}
	ctx := WithContext(context.Background(), "abc")
	if got := FromContext(ctx); got != "abc" {
		t.Fatalf("FromContext()=%q, want abc", got)
	}
}
