package extract

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFacts(t *testing.T) {
	text := "The solar cycle lasts about eleven years. ok. Short one. " +
		"Saturn returns to its natal position every 29 years. " +
		"Mercury retrograde happens three or four times a year. " +
		"Venus is the brightest object after the moon. " +
		"Mars takes roughly two years to orbit the sun. " +
		"Jupiter spends about a year in each zodiac sign."

	facts := KeyFacts(text)

	require.Len(t, facts, 5)
	assert.Equal(t, "The solar cycle lasts about eleven years.", facts[0])
	for _, f := range facts {
		assert.True(t, strings.HasSuffix(f, "."))
	}
}

func TestKeyFacts_TooShort(t *testing.T) {
	assert.Empty(t, KeyFacts("Tiny. Also tiny. Yes."))
}

func TestNumericFacts(t *testing.T) {
	text := "The Saturn return happens roughly every 29 years in a life. " +
		"Nothing numeric about this sentence at all, it just goes on. " +
		"A cycle of 7 is too short to count as a numeric fact here. " +
		"The Saturn return happens roughly every 29 years in a life. " +
		"In 1987 the survey found that 45 percent of readers agreed."

	facts := NumericFacts(text)

	assert.Equal(t, []string{
		"The Saturn return happens roughly every 29 years in a life.",
		"In 1987 the survey found that 45 percent of readers agreed.",
	}, facts)
}

func TestNumericFacts_NeverWithoutNumber(t *testing.T) {
	number := regexp.MustCompile(`\b\d{2,4}\b`)
	text := "Many years pass in a single cycle of the outer planets. " +
		"It took 12345 years for this percent figure to settle down. " +
		"About 5 times a century the alignment becomes visible to us. " +
		"Roughly 40 percent of the sky is visible at any given moment."

	facts := NumericFacts(text)

	require.Len(t, facts, 1)
	for _, f := range facts {
		assert.Regexp(t, number, f)
	}
	seen := map[string]bool{}
	for _, f := range facts {
		assert.False(t, seen[f], "duplicate %q", f)
		seen[f] = true
	}
}

func TestNumericFacts_LengthBounds(t *testing.T) {
	short := "It took 20 years."
	long := "Over 30 years " + strings.Repeat("and more ", 40) + "it ended."

	assert.Empty(t, NumericFacts(short+" "+long))
}

func TestDates(t *testing.T) {
	text := "Launched on March 14, 2023 and updated december 1 2024. Not a date: May the fourth."

	assert.Equal(t, []string{"March 14, 2023", "december 1 2024"}, Dates(text))
}

func TestDates_Capped(t *testing.T) {
	text := strings.Repeat("January 1, 2020 ", 15)
	assert.Len(t, Dates(text), 10)
}

func TestEntities(t *testing.T) {
	text := "Generative Engine Optimization was coined at Princeton University. " +
		"Later, Generative Engine Optimization spread to New York."

	assert.Equal(t, []string{
		"Generative Engine Optimization",
		"Princeton University",
		"New York",
	}, Entities(text))
}

func TestEntities_DedupedAndCapped(t *testing.T) {
	var b strings.Builder
	for _, name := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India", "Juliet", "Kilo", "Lima"} {
		b.WriteString("Met " + name + " Person today. Met " + name + " Person again. ")
	}

	entities := Entities(b.String())

	assert.Len(t, entities, 10)
	seen := map[string]bool{}
	for _, e := range entities {
		assert.False(t, seen[e], "duplicate %q", e)
		seen[e] = true
	}
}

func TestClaims(t *testing.T) {
	text := "Studies show that readers trust cited sources more. " +
		"Plain sentence. " +
		"According to the survey, shocking growth was recorded. " +
		"Experts say structured data helps machines read pages. " +
		"Research shows a fourth claim that should be dropped."

	claims := Claims(text)

	require.Len(t, claims, 3)
	assert.Equal(t, "Studies show that readers trust cited sources more.", claims[0])
	assert.Equal(t, "According to the survey, shocking growth was recorded.", claims[1])
	assert.Equal(t, "Experts say structured data helps machines read pages.", claims[2])
}

func TestExtractorFunc(t *testing.T) {
	var e Extractor = Func(func(text string) []string { return []string{strings.ToUpper(text)} })
	assert.Equal(t, []string{"ABC"}, e.Extract("abc"))

	assert.Equal(t, Dates("May 5, 2021"), DateExtractor.Extract("May 5, 2021"))
}

func TestCap(t *testing.T) {
	assert.Equal(t, "abc", Cap("abcdef", 3))
	assert.Len(t, Cap(strings.Repeat("x", 30000), 0), DefaultTextLimit)
}
