package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Hashtag is a tag ranked by its cumulative view count.
type Hashtag struct {
	Tag        string `db:"tag" json:"tag"`
	ViewsCount int64  `db:"views_count" json:"-"`
}

// TrendingHashtag is a trending entry with a human-readable view count.
type TrendingHashtag struct {
	Tag   string `json:"tag"`
	Views string `json:"views"`
}

// TrendingResponse is the trending listing body.
type TrendingResponse struct {
	Hashtags []TrendingHashtag `json:"hashtags"`
}

// TrendingLimit is the number of hashtags returned by the trending listing.
const TrendingLimit = 10

// MaxHashtagsPerVideo caps how many tags are indexed from one description.
const MaxHashtagsPerVideo = 10

const maxHashtagLength = 100

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the distinct lowercased tags of a description, in
// order of first appearance and without the leading '#'.
func ExtractHashtags(description string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(description, -1)
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if utf8.RuneCountInString(tag) > maxHashtagLength {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxHashtagsPerVideo {
			break
		}
	}
	return tags
}
