package schema

import (
	"regexp"
	"strings"

	"github.com/mfenderov/geo-schema/internal/textclean"
	"github.com/mfenderov/geo-schema/pkg/models"
)

var (
	headingRe = regexp.MustCompile(`(?is)<h[1-4][^>]*>.*?</h[1-4]>`)
	answerRe  = regexp.MustCompile(`.{40,120}`)
)

const maxConfidence = 100

// ConfidenceScore rates how ready a unit is to be cited by a generative
// engine, from 0 to 100. It rewards headings, a featured image, existing
// JSON-LD markup and at least one answer-sized run of plain text.
func ConfidenceScore(unit models.ContentUnit) int {
	score := 0
	if headingRe.MatchString(unit.Body) {
		score += 10
	}
	if unit.HasFeaturedImage {
		score += 10
	}
	if strings.Contains(unit.Body, "application/ld+json") {
		score += 10
	}
	if answerRe.MatchString(textclean.StripTags(unit.Body)) {
		score += 15
	}
	return min(score, maxConfidence)
}
