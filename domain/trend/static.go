package trend

import (
	"context"
	"strings"
)

// FallbackHashtags is used when no live hashtag source is available.
const FallbackHashtags = "#BeautyTrends #SalonLife #BeautyGoals"

// staticTrends maps known niches to their current trend set. Unknown
// niches fall through to a generic small-business set.
var staticTrends = map[string]Set{
	"hair": {
		audio:    "Trending hair transformation audio with before/after transitions",
		hashtags: "#HairTransformation #HairGoals #SalonLife #HairTrends #BeautyTok",
	},
	"nails": {
		audio:    "Nail art process audio with satisfying ASMR sounds",
		hashtags: "#NailArt #NailGoals #SalonNails #NailTrends #BeautyVibes",
	},
	"lashes": {
		audio:    "Lash extension process with dramatic reveal audio",
		hashtags: "#LashGoals #LashExtensions #BeautyTrends #EyeLashes #SalonLife",
	},
	"makeup": {
		audio:    "Makeup transformation with trending beauty audio",
		hashtags: "#MakeupArtist #MakeupGoals #BeautyMakeup #GlamSquad #MakeupTrends",
	},
	"skincare": {
		audio:    "Skincare routine audio with calming background music",
		hashtags: "#SkinCare #GlowUp #HealthySkin #SkinGoals #BeautyRoutine",
	},
	"eyebrows": {
		audio:    "Eyebrow shaping process with precision audio",
		hashtags: "#BrowGoals #EyebrowShaping #BrowArt #BeautyBrows #SalonBrows",
	},
	"microblading": {
		audio:    "Precision microblading process with satisfying technique audio",
		hashtags: "#Microblading #BrowArt #PermanentMakeup #BeautyProfessional #BrowGoals",
	},
	"massage": {
		audio:    "Relaxing spa music with peaceful ambience",
		hashtags: "#MassageTherapy #SelfCare #Wellness #Relaxation #SpaLife",
	},
	"fitness": {
		audio:    "Motivational workout music with high energy beats",
		hashtags: "#FitnessMotivation #WorkoutGoals #HealthyLifestyle #FitLife #Wellness",
	},
	"photography": {
		audio:    "Behind-the-scenes creative process audio",
		hashtags: "#Photography #CreativeProcess #PhotoShoot #ArtisticVision #BehindTheScenes",
	},
	"consulting": {
		audio:    "Professional business development audio",
		hashtags: "#BusinessConsulting #ProfessionalDevelopment #Success #Strategy #Growth",
	},
}

// defaultSet is returned for niches the static map does not know.
var defaultSet = Set{
	audio:    "Trending transformation audio with engaging reveals",
	hashtags: "#SmallBusiness #Entrepreneur #LocalBusiness #Success #Growth",
}

// StaticLookup returns the built-in trend set for a niche. The niche is
// reduced to its primary segment and lowercased before matching.
func StaticLookup(niche string) Set {
	if s, ok := staticTrends[strings.ToLower(PrimaryNiche(niche))]; ok {
		return s
	}
	return defaultSet
}

// StaticSource is a Source backed by the built-in trend map. It never
// fails and is the fallback behind live hashtag sources.
type StaticSource struct{}

// NewStaticSource creates a StaticSource.
func NewStaticSource() StaticSource {
	return StaticSource{}
}

// Lookup implements Source.
func (StaticSource) Lookup(_ context.Context, niche string) (Set, error) {
	return StaticLookup(niche), nil
}

// PrimaryNiche returns the first comma segment of a possibly multi-niche
// string, trimmed. "hair salon, color bar" -> "hair salon".
func PrimaryNiche(niche string) string {
	first, _, _ := strings.Cut(niche, ",")
	return strings.TrimSpace(first)
}

// beautyWords classify a niche as beauty-related for image prompt styling.
var beautyWords = []string{"hair", "nail", "beauty", "salon", "spa", "microblading", "lash", "brow"}

// IsBeautyNiche reports whether the niche belongs to the beauty vertical.
func IsBeautyNiche(niche string) bool {
	lower := strings.ToLower(niche)
	for _, w := range beautyWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
