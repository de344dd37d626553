package imdb_test

import (
	"testing"

	"github.com/sylv/hubble/internal/imdb"
)

func TestParseKindKnownTokens(t *testing.T) {
	cases := map[string]imdb.Kind{
		"movie":        imdb.KindMovie,
		"short":        imdb.KindShort,
		"tvEpisode":    imdb.KindTVEpisode,
		"tvMiniSeries": imdb.KindTVMiniSeries,
		"tvMovie":      imdb.KindTVMovie,
		"tvPilot":      imdb.KindTVPilot,
		"tvSeries":     imdb.KindTVSeries,
		"tvShort":      imdb.KindTVShort,
		"tvSpecial":    imdb.KindTVSpecial,
		"video":        imdb.KindVideo,
		"videoGame":    imdb.KindVideoGame,
	}
	for token, want := range cases {
		got, err := imdb.ParseKind(token)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", token, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", token, got, want)
		}
		if got.String() != token {
			t.Fatalf("String() round trip: got %q, want %q", got.String(), token)
		}
	}
}

func TestParseKindUnknown(t *testing.T) {
	if _, err := imdb.ParseKind("documentary"); err == nil {
		t.Fatal("expected error for unknown kind token")
	}
}

func TestKindFromCodeUnknown(t *testing.T) {
	if _, err := imdb.KindFromCode(99); err == nil {
		t.Fatal("expected error for unknown kind code")
	}
}
