package wav

import (
	"fmt"
	"os/exec"

	"github.com/tidwall/gjson"
)

// Metadata holds the subset of ffprobe's format tags callers care
// about: the embedded title and artist, when present.
type Metadata struct {
	Title  string
	Artist string
}

// GetMetadata shells out to ffprobe for the container's format tags
// and reads title/artist out of the JSON response with gjson, the way
// a loosely-shaped, not-fully-known response gets parsed without a
// matching struct for every tag ffprobe might emit.
func GetMetadata(filePath string) (*Metadata, error) {
	cmd := exec.Command(
		"ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe metadata query failed: %v", err)
	}

	if !gjson.ValidBytes(out) {
		return nil, fmt.Errorf("ffprobe returned invalid json")
	}

	tags := gjson.GetBytes(out, "format.tags")
	meta := &Metadata{}

	tags.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "title", "Title":
			if meta.Title == "" {
				meta.Title = value.String()
			}
		case "artist", "Artist", "ARTIST":
			if meta.Artist == "" {
				meta.Artist = value.String()
			}
		}
		return true
	})

	return meta, nil
}
