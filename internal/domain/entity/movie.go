package entity

// MovieSummary is a normalized search result row.
//
// Optional fields are pointers so their absence survives JSON marshalling
// as null rather than a zero value.
type MovieSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear string   `json:"release_year"`
	Rating      *float64 `json:"rating"`
	PosterURL   *string  `json:"poster"`
}

// MovieDetail is a normalized detail record for a single movie.
type MovieDetail struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Overview string   `json:"overview"`
	Genres   []string `json:"genres"`

	// PosterURL is absent when the upstream record has no poster path.
	PosterURL *string `json:"poster"`

	// TrailerURL is derived from the first YouTube video of type "Trailer";
	// absent when no such video exists.
	TrailerURL *string `json:"trailer"`

	// Cast holds the first ten cast member names in upstream billing order.
	Cast []string `json:"cast"`

	// Director is the first crew member whose job is "Director"; absent
	// when none is listed.
	Director *string `json:"director"`
}
