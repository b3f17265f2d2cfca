package qa

import (
	"regexp"

	"github.com/mfenderov/geo-schema/pkg/models"
)

// promotionalPatterns are calls to action that mark a pair as advertising.
// The text has already been normalized, so apostrophes are ASCII.
var promotionalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(Click Here|Buy Now|Sign Up|Subscribe|Get Started|Learn More|Try It Now|Join Free|Start Your Free Trial)\b`),
	regexp.MustCompile(`(?i)\b(Act Now|Limited Time Offer|Don't Miss Out|Ends Soon|Hurry Up|Instant Access|Download Now)\b`),
	regexp.MustCompile(`(?i)\b(Ask Now|Got a Burning Question|Get a quote|Contact us today|Free consultation)\b`),
}

// IsPromotional reports whether text contains a call to action.
func IsPromotional(text string) bool {
	for _, re := range promotionalPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// FilterPromotional drops pairs whose question or answer is promotional.
// Surviving pairs keep their order and are not modified.
func FilterPromotional(pairs []models.QAPair) []models.QAPair {
	filtered := make([]models.QAPair, 0, len(pairs))
	for _, p := range pairs {
		if IsPromotional(p.Question) || IsPromotional(p.Answer) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
