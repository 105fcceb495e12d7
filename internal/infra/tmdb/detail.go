package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"cinefind/internal/domain/entity"
	"cinefind/pkg/cache"
)

// maxCastNames is how many cast members are kept, in billing order.
const maxCastNames = 10

// detailResponse is the wire shape of a movie details response with
// credits and videos appended.
type detailResponse struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	Name       string  `json:"name"`
	Overview   string  `json:"overview"`
	PosterPath *string `json:"poster_path"`
	Genres     []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Videos struct {
		Results []video `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []castMember `json:"cast"`
		Crew []crewMember `json:"crew"`
	} `json:"credits"`
}

type video struct {
	Site string `json:"site"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

type castMember struct {
	Name string `json:"name"`
}

type crewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// DetailGateway fetches movie details from TMDB with a TTL cache in
// front. Concurrent lookups for the same movie collapse into a single
// upstream call.
type DetailGateway struct {
	client       *Client
	cache        *cache.TTLCache[int, entity.MovieDetail]
	ttl          time.Duration
	imageBaseURL string
	group        singleflight.Group
}

// NewDetailGateway creates a detail gateway over the given client and
// cache.
func NewDetailGateway(client *Client, c *cache.TTLCache[int, entity.MovieDetail], cfg Config) *DetailGateway {
	return &DetailGateway{
		client:       client,
		cache:        c,
		ttl:          cfg.DetailCacheTTL,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Detail returns the full detail record for a movie, including genres,
// cast, director, and a trailer link when one exists.
//
// An upstream 404 maps to entity.ErrNotFound and is not cached. Upstream
// is called at most once per movie per TTL window, and never retried.
func (g *DetailGateway) Detail(ctx context.Context, movieID int) (entity.MovieDetail, error) {
	if cached, ok := g.cache.Get(movieID); ok {
		return cached, nil
	}

	v, err, _ := g.group.Do(strconv.Itoa(movieID), func() (interface{}, error) {
		detail, err := g.fetch(ctx, movieID)
		if err != nil {
			return entity.MovieDetail{}, err
		}
		g.cache.Set(movieID, detail, g.ttl)
		return detail, nil
	})
	if err != nil {
		return entity.MovieDetail{}, err
	}

	return v.(entity.MovieDetail), nil
}

func (g *DetailGateway) fetch(ctx context.Context, movieID int) (entity.MovieDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	body, status, err := g.client.get(ctx, "/movie/"+strconv.Itoa(movieID), params)
	if err != nil {
		return entity.MovieDetail{}, mapTransportError(err, msgDetailTimeout, "TMDB details request failed")
	}
	if status == 404 {
		return entity.MovieDetail{}, entity.ErrNotFound
	}
	if status != 200 {
		return entity.MovieDetail{}, mapStatusError(status, body)
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return entity.MovieDetail{}, &UpstreamError{
			StatusCode: 502,
			Message:    fmt.Sprintf("TMDB returned malformed response: %v", err),
		}
	}

	return g.normalize(resp), nil
}

// normalize converts a wire detail response into a MovieDetail. The
// trailer is the first YouTube video of type "Trailer", the director is
// the first crew member with job "Director", and the cast keeps the first
// ten names in billing order.
func (g *DetailGateway) normalize(resp detailResponse) entity.MovieDetail {
	title := resp.Title
	if title == "" {
		title = resp.Name
	}

	genres := make([]string, 0, len(resp.Genres))
	for _, genre := range resp.Genres {
		genres = append(genres, genre.Name)
	}

	var poster *string
	if resp.PosterPath != nil && *resp.PosterPath != "" {
		u := g.imageBaseURL + "/" + posterSizeDetail + *resp.PosterPath
		poster = &u
	}

	var trailer *string
	for _, v := range resp.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			u := "https://www.youtube.com/watch?v=" + v.Key
			trailer = &u
			break
		}
	}

	cast := resp.Credits.Cast
	if len(cast) > maxCastNames {
		cast = cast[:maxCastNames]
	}
	castNames := make([]string, 0, len(cast))
	for _, c := range cast {
		castNames = append(castNames, c.Name)
	}

	var director *string
	for _, c := range resp.Credits.Crew {
		if c.Job == "Director" {
			name := c.Name
			director = &name
			break
		}
	}

	return entity.MovieDetail{
		ID:         resp.ID,
		Title:      title,
		Overview:   resp.Overview,
		Genres:     genres,
		PosterURL:  poster,
		TrailerURL: trailer,
		Cast:       castNames,
		Director:   director,
	}
}
