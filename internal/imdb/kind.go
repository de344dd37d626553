package imdb

import "fmt"

// Kind is the closed set of title types IMDb publishes, with stable integer
// codes matching the `titles.type` column in the store.
type Kind int

const (
	KindMovie Kind = iota
	KindShort
	KindTVEpisode
	KindTVMiniSeries
	KindTVMovie
	KindTVPilot
	KindTVSeries
	KindTVShort
	KindTVSpecial
	KindVideo
	KindVideoGame
)

var kindNames = [...]string{
	KindMovie:        "movie",
	KindShort:        "short",
	KindTVEpisode:    "tvEpisode",
	KindTVMiniSeries: "tvMiniSeries",
	KindTVMovie:      "tvMovie",
	KindTVPilot:      "tvPilot",
	KindTVSeries:     "tvSeries",
	KindTVShort:      "tvShort",
	KindTVSpecial:    "tvSpecial",
	KindVideo:        "video",
	KindVideoGame:    "videoGame",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for code, name := range kindNames {
		m[name] = Kind(code)
	}
	return m
}()

// String returns the camelCase wire token for the kind.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps the upstream `titleType` TSV column, or the wire token, to
// a Kind. An unrecognized token is a hard error (spec: "Unknown codes are a
// hard error").
func ParseKind(s string) (Kind, error) {
	k, ok := kindByName[s]
	if !ok {
		return 0, fmt.Errorf("imdb: unknown title kind %q", s)
	}
	return k, nil
}

// KindFromCode maps a stored integer code back to a Kind, erroring on codes
// outside the closed enumeration.
func KindFromCode(code int64) (Kind, error) {
	if code < 0 || int(code) >= len(kindNames) {
		return 0, fmt.Errorf("imdb: unknown title kind code %d", code)
	}
	return Kind(code), nil
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
