package imdb_test

import (
	"testing"

	"github.com/sylv/hubble/internal/imdb"
)

func TestIDRoundTrip(t *testing.T) {
	for _, n := range []uint32{1, 7, 1_000_000, 99999999} {
		id := imdb.ID(n)
		parsed, err := imdb.ParseID(id.String())
		if err != nil {
			t.Fatalf("ParseID(%q): %v", id.String(), err)
		}
		if parsed != id {
			t.Fatalf("round trip %d -> %q -> %d", n, id.String(), parsed)
		}
	}
}

func TestIDStringPadding(t *testing.T) {
	if got := imdb.ID(1).String(); got != "tt0000001" {
		t.Fatalf("String() = %q, want tt0000001", got)
	}
}

func TestParseIDRejectsBadForms(t *testing.T) {
	for _, s := range []string{"0000001", "ttabc", ""} {
		if _, err := imdb.ParseID(s); err == nil {
			t.Fatalf("ParseID(%q) should have failed", s)
		}
	}
}
