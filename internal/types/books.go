package types

type Book struct {
	Id     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Year   int    `json:"year"`
}

const (
	YearMin = 1000
	YearMax = 9999
)

// Genres is the fixed list offered by the UI. Storage accepts any text.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Biography",
	"Self-Help",
	"Mystery",
	"Romance",
	"Fantasy",
	"Horror",
	"Thriller",
	"History",
	"Other",
}

func IsKnownGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}

	return false
}
