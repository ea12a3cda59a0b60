package template

import (
	"fmt"
	"strings"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/trend"
)

// diversityActivities holds the theme rotation's activity names.
var diversityActivities = map[Theme][]string{
	ThemeTransformation: {
		"Amazing Transformation Tuesday", "Makeover Magic", "Before & After Reveal",
		"Client Glow-Up Story", "Confidence Transformation",
	},
	ThemeEducation: {
		"Tutorial Thursday", "Technique Breakdown", "Pro Tips Friday",
		"Educational Content", "How-To Guide",
	},
	ThemeBehindScenes: {
		"Behind the Scenes", "Day in the Life", "Process Video",
		"Studio Tour", "Artist at Work",
	},
	ThemeClientFocus: {
		"Client Spotlight", "Success Story", "Testimonial Feature",
		"Happy Client Friday", "Client Love",
	},
	ThemeTrends: {
		"Trending Now", "Style Forecast", "What's Hot",
		"Season's Best", "Latest Looks",
	},
}

// diversityScripts builds the theme rotation's scripts for a niche and city.
func diversityScripts(theme Theme, niche, city string) []string {
	switch theme {
	case ThemeTransformation:
		return []string{
			fmt.Sprintf("Watch this incredible %s transformation in %s", niche, city),
			fmt.Sprintf("From ordinary to extraordinary - %s magic happens here", niche),
			fmt.Sprintf("This %s client's transformation will inspire you", city),
		}
	case ThemeEducation:
		return []string{
			fmt.Sprintf("Learn professional %s techniques from our %s experts", niche, city),
			fmt.Sprintf("Master these %s tips for amazing results", niche),
			fmt.Sprintf("Behind-the-scenes %s education", niche),
		}
	case ThemeBehindScenes:
		return []string{
			fmt.Sprintf("See what happens behind the scenes at our %s studio", city),
			fmt.Sprintf("A day in the life of %s professionals", niche),
			fmt.Sprintf("The artistry behind every %s service", niche),
		}
	case ThemeClientFocus:
		return []string{
			fmt.Sprintf("Meet our amazing %s clients and their %s journey", city, niche),
			fmt.Sprintf("Nothing makes us happier than satisfied %s clients", niche),
			fmt.Sprintf("Client love from the heart of %s", city),
		}
	default:
		return []string{
			fmt.Sprintf("The hottest %s trends taking over %s", niche, city),
			fmt.Sprintf("Stay ahead with these %s style predictions", niche),
			fmt.Sprintf("What's trending in %s this season", niche),
		}
	}
}

// Diversify generates one themed entry for a day, walking the theme's
// activity/script rotation past any signature already present in used.
// The walk gives up after ten steps, so a long run eventually repeats
// rather than stalls.
func Diversify(niche, city string, day int, used map[string]bool) calendar.Entry {
	theme := ThemeForDay(day)
	activities := diversityActivities[theme]
	scripts := diversityScripts(theme, niche, city)

	ai := (day - 1) % len(activities)
	si := (day - 1) % len(scripts)
	activity, script := activities[ai], scripts[si]

	sig := diversitySignature(activity, script)
	for counter := 0; used[sig] && counter < 10; counter++ {
		ai = (ai + 1) % len(activities)
		si = (si + 1) % len(scripts)
		activity, script = activities[ai], scripts[si]
		sig = diversitySignature(activity, script)
	}

	visuals := []string{
		fmt.Sprintf("High-quality %s photography", niche),
		fmt.Sprintf("Professional %s video content", niche),
		fmt.Sprintf("Before and after %s shots", niche),
		"Process documentation",
		"Client reaction captures",
		fmt.Sprintf("Detail shots of %s work", niche),
		"Studio atmosphere photos",
		"Tool and technique displays",
	}

	captions := []string{
		fmt.Sprintf("Ready to elevate your %s game in %s? We're here to make it happen!", niche, city),
		fmt.Sprintf("Your %s journey starts with the right professionals. Book your %s appointment today!", niche, city),
		fmt.Sprintf("Excellence in %s services, right here in %s. Experience the difference!", niche, city),
		fmt.Sprintf("Transform your look, boost your confidence. That's the %s magic we create in %s!", niche, city),
		fmt.Sprintf("Professional %s services that exceed expectations. Welcome to your %s beauty destination!", niche, city),
	}

	nicheTag := strings.ReplaceAll(niche, " ", "")
	cityTag := strings.ReplaceAll(city, " ", "")
	hashtagSets := []string{
		fmt.Sprintf("#%s #%sBeauty #Transform #BookNow", nicheTag, cityTag),
		fmt.Sprintf("#%sGoals #%sSalon #Professional #BeautyVibes", nicheTag, cityTag),
		fmt.Sprintf("#%sExpert #%sStyle #Confidence #GlowUp", nicheTag, cityTag),
		fmt.Sprintf("#%sArt #%sBeauty #Precision #Results", nicheTag, cityTag),
		fmt.Sprintf("#%sMagic #%sProfessionals #Excellence #SalonLife", nicheTag, cityTag),
	}

	times := []string{
		"Peak hours", "Morning sessions", "Afternoon appointments",
		"Evening slots", "Weekend availability", "Flexible scheduling",
	}

	ctas := []string{
		"Book your transformation!", "Schedule today!", "Call now!", "DM to book!",
		"Limited availability!", "Transform with us!", "Your appointment awaits!", "Book consultation!",
	}

	var prompt string
	if trend.IsBeautyNiche(niche) {
		prompt = fmt.Sprintf("Professional %s salon in %s, modern interior design, natural lighting, happy clients, premium equipment, '@salonsuitedigitalstudio' subtly visible in background or signage", niche, city)
	} else {
		prompt = fmt.Sprintf("Professional %s business in %s, modern interior design, natural lighting, satisfied customers, quality equipment, '@salonsuitedigitalstudio' subtly visible in background or signage", niche, city)
	}

	return calendar.NewEntry(
		day,
		activity,
		script,
		visuals[day%len(visuals)],
		captions[day%len(captions)],
		hashtagSets[day%len(hashtagSets)],
		times[day%len(times)],
		ctas[day%len(ctas)],
		prompt,
	)
}

// diversitySignature matches calendar.Entry.Signature for a candidate
// activity/script pair before the full entry is built.
func diversitySignature(activity, script string) string {
	return calendar.NewEntry(0, activity, script, "", "", "", "", "", "").Signature()
}
