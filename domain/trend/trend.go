// Package trend provides trend domain types: the audio/hashtag set attached
// to a niche and the sources that look one up.
package trend

import "context"

// Set holds the current trend signals for a niche: a trending audio
// direction and a space-joined hashtag string.
type Set struct {
	audio    string
	hashtags string
}

// NewSet creates a Set.
func NewSet(audio, hashtags string) Set {
	return Set{audio: audio, hashtags: hashtags}
}

// Audio returns the trending audio direction.
func (s Set) Audio() string { return s.audio }

// Hashtags returns the space-joined hashtag string.
func (s Set) Hashtags() string { return s.hashtags }

// WithHashtags returns a copy of the set with the hashtags replaced,
// keeping the audio direction. Used when a live hashtag lookup succeeds.
func (s Set) WithHashtags(hashtags string) Set {
	s.hashtags = hashtags
	return s
}

// Source looks up the current trend set for a niche.
type Source interface {
	// Lookup returns the trend set for the given niche.
	Lookup(ctx context.Context, niche string) (Set, error)
}
