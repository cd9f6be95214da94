// Package metadata sketches the external collaborator spec.md §6
// carves out of the core pipeline: given a (title, artist) pair,
// look up canonical track metadata on a music platform. Neither the
// core package nor the CLI and HTTP server import this one; no
// command currently calls Lookup.
package metadata

import (
	"context"
	"fmt"

	"github.com/buger/jsonparser"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"soundtrace/apperrors"
	"soundtrace/utils"
)

// Track is the metadata a Lookup call resolves to.
type Track struct {
	Title    string
	Artist   string
	VideoID  string
	Platform string
}

// Lookup resolves (title, artist) against an external catalog.
// Download is intentionally left without a production implementation:
// fetching and transcoding the located track's audio is outside this
// system's scope (spec.md's §1 Non-goals exclude content acquisition).
type Lookup interface {
	Lookup(ctx context.Context, title, artist string) (*Track, error)
	Download(ctx context.Context, track *Track) (filePath string, err error)
}

// YouTubeLookup resolves metadata via the YouTube Data API v3 search
// endpoint. It never downloads audio.
type YouTubeLookup struct {
	service *youtube.Service
}

// NewYouTubeLookup builds a YouTubeLookup using apiKey, or the
// GOOGLE_API_KEY environment variable when apiKey is empty.
func NewYouTubeLookup(ctx context.Context, apiKey string) (*YouTubeLookup, error) {
	if apiKey == "" {
		apiKey = utils.GetEnv("GOOGLE_API_KEY", "")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY not set", apperrors.ErrInvalidParameter)
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("building youtube client: %w", err)
	}
	return &YouTubeLookup{service: svc}, nil
}

// Lookup searches for "title artist" and returns the top hit.
func (y *YouTubeLookup) Lookup(ctx context.Context, title, artist string) (*Track, error) {
	query := title
	if artist != "" {
		query = title + " " + artist
	}

	call := y.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, apperrors.ErrEmptyResult
	}

	item := resp.Items[0]
	return &Track{
		Title:    item.Snippet.Title,
		Artist:   item.Snippet.ChannelTitle,
		VideoID:  item.Id.VideoId,
		Platform: "youtube",
	}, nil
}

// Download is unimplemented: acquiring and transcoding the located
// video's audio track is outside this system's scope.
func (y *YouTubeLookup) Download(ctx context.Context, track *Track) (string, error) {
	return "", fmt.Errorf("download not supported for platform %q", track.Platform)
}

// ParseSearchResponseID extracts an unexhausted Search.List raw JSON
// response's first item's videoId with jsonparser, a hot-path
// alternative to unmarshaling the full youtube.SearchListResponse when
// only one flat field is needed (e.g. a cached raw response replayed
// in tests).
func ParseSearchResponseID(rawJSON []byte) (string, error) {
	videoID, err := jsonparser.GetString(rawJSON, "items", "[0]", "id", "videoId")
	if err != nil {
		return "", fmt.Errorf("parsing search response: %w", err)
	}
	return videoID, nil
}
