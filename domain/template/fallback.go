package template

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/salonsuite/bella/domain/calendar"
	"github.com/salonsuite/bella/domain/trend"
)

// Universal generates the guaranteed fallback entry for a day: generic
// content adapted to any niche, rotated by day so consecutive days differ.
// It never fails and needs no provider, which is what makes the
// fallback-first pipeline safe.
func Universal(niche, city string, day int) calendar.Entry {
	titled := titleWords(niche)

	activities := []string{
		titled + " showcase",
		titled + " tutorial",
		titled + " process video",
		"Client " + niche + " experience",
		"Behind-the-scenes " + niche,
		titled + " transformation",
		"Professional " + niche + " work",
		titled + " techniques",
		"Quality " + niche + " service",
		titled + " consultation",
	}

	scripts := []string{
		fmt.Sprintf("Experience exceptional %s quality and service", niche),
		fmt.Sprintf("See our professional %s expertise in action", niche),
		fmt.Sprintf("Your %s goals are our priority in %s", niche, city),
		fmt.Sprintf("Professional %s services that exceed expectations", niche),
		fmt.Sprintf("Behind the scenes of our %s process", niche),
		fmt.Sprintf("Transform your %s experience with our experts", niche),
		fmt.Sprintf("Quality %s services you can trust", niche),
		fmt.Sprintf("Watch our %s professionals at work", niche),
		fmt.Sprintf("Exceptional %s results for %s clients", niche, city),
		fmt.Sprintf("Your satisfaction is our %s mission", niche),
	}

	visuals := []string{
		fmt.Sprintf("High-quality %s photography", niche),
		fmt.Sprintf("Professional %s video content", niche),
		fmt.Sprintf("Before and after %s results", niche),
		"Process documentation",
		"Client satisfaction moments",
		fmt.Sprintf("Detail shots of %s work", niche),
		"Professional workspace",
		fmt.Sprintf("Quality %s equipment", niche),
	}

	captions := []string{
		fmt.Sprintf("Ready for exceptional %s service in %s? We deliver quality results every time!", niche, city),
		fmt.Sprintf("Your %s experience matters to us. Book your %s appointment today!", niche, city),
		fmt.Sprintf("Excellence in %s services, right here in %s. Experience the difference!", niche, city),
		fmt.Sprintf("Professional %s solutions tailored for you. Welcome to quality service!", niche),
		fmt.Sprintf("Transform your %s needs with our expert team in %s!", niche, city),
	}

	nicheClean := cleanTitle(niche)
	cityClean := cleanTitle(city)
	hashtags := strings.Join([]string{
		"#" + nicheClean,
		"#" + cityClean + nicheClean,
		"#Professional" + nicheClean,
		"#" + cityClean + "Business",
	}, " ") + " #" + strings.ReplaceAll(city, " ", "") + "Local"

	times := []string{
		"Morning (9-11am)", "Afternoon (2-4pm)", "Evening (6-8pm)", "Peak hours (10am-2pm)",
		"Weekend mornings", "Lunch break (12-1pm)", "After work (5-7pm)", "Early evening",
	}

	ctas := []string{
		"Book your appointment today!", "DM us to get started!", "Call now to schedule!",
		"Visit our website to book!", "Limited slots available!", "Book your consultation!",
		"Transform today!", "Schedule your session!",
	}

	cityTag := strings.ReplaceAll(city, " ", "")
	var prompt, locationTags string
	if trend.IsBeautyNiche(niche) {
		prompt = fmt.Sprintf("Professional %s salon interior in %s with modern aesthetic, natural lighting, premium equipment, and '@salonsuitedigitalstudio' subtly visible on signage, reflection, or background element", niche, city)
		locationTags = fmt.Sprintf(" #%sSalon #%sBeauty #Local%s", cityTag, cityTag, nicheClean)
	} else {
		prompt = fmt.Sprintf("Professional %s business interior in %s with modern aesthetic, natural lighting, quality setup, and '@salonsuitedigitalstudio' subtly visible on signage, reflection, or background element", niche, city)
		locationTags = fmt.Sprintf(" #%sBusiness #%s%s #Local%s", cityTag, cityClean, nicheClean, nicheClean)
	}

	dayIndex := (day - 1) % len(activities)
	return calendar.NewEntry(
		day,
		activities[dayIndex],
		scripts[dayIndex],
		visuals[dayIndex%len(visuals)],
		captions[dayIndex%len(captions)],
		hashtags+locationTags,
		times[dayIndex%len(times)],
		ctas[dayIndex%len(ctas)],
		prompt,
	)
}

// titleWords capitalizes each space-separated word.
func titleWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// cleanTitle removes spaces and capitalizes the result as one word,
// for hashtag building.
func cleanTitle(s string) string {
	joined := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if joined == "" {
		return ""
	}
	r := []rune(joined)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
