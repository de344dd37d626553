package importers

// SchedulingClass distinguishes the single anchor feed (title.basics, which
// populates the known-id set) from the three dependent feeds that filter
// against it.
type SchedulingClass int

const (
	Dependent SchedulingClass = iota
	Anchor
)

// Feed is the static descriptor shared by the four concrete upstream files
// (spec.md §9's "dynamic polymorphism across feeds" — realized here as a
// small struct plus a discriminator rather than an interface hierarchy).
type Feed struct {
	Name      string
	FileName  string
	URL       string
	BindCount int
	Class     SchedulingClass
}

const baseURL = "https://datasets.imdbws.com/"

// Feeds lists the four upstream files in a fixed, stable order. Basics must
// be scheduled first by any caller that isn't already respecting the
// anchor barrier, since it is the sole Anchor-class entry.
var Feeds = []Feed{
	{Name: "basics", FileName: "title.basics.tsv.gz", URL: baseURL + "title.basics.tsv.gz", BindCount: 9, Class: Anchor},
	{Name: "akas", FileName: "title.akas.tsv.gz", URL: baseURL + "title.akas.tsv.gz", BindCount: 8, Class: Dependent},
	{Name: "episodes", FileName: "title.episode.tsv.gz", URL: baseURL + "title.episode.tsv.gz", BindCount: 4, Class: Dependent},
	{Name: "ratings", FileName: "title.ratings.tsv.gz", URL: baseURL + "title.ratings.tsv.gz", BindCount: 3, Class: Dependent},
}

// maxBindParams is the backend's (sqlite's) maximum bound-parameter count
// per statement.
const maxBindParams = 32766

// BatchSize returns the largest number of rows that can be written in a
// single bulk upsert for a feed with the given bind count, respecting both
// the backend's parameter ceiling and the 10000-row cap (spec.md §4.4).
func BatchSize(bindCount int) int {
	n := maxBindParams / bindCount
	if n > 10000 {
		n = 10000
	}
	return n
}
