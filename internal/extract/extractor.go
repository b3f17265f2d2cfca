// Package extract pulls verifiable facts out of plain article text using
// pattern heuristics. Each extractor is independent; results may overlap
// across extractors but never repeat within one.
package extract

// DefaultTextLimit bounds how much text an extractor scans.
const DefaultTextLimit = 25000

// Extractor pulls a list of fact strings out of plain text.
// Implementations must be deterministic and free of side effects.
type Extractor interface {
	Extract(text string) []string
}

// Func adapts an ordinary function to the Extractor interface.
type Func func(text string) []string

func (f Func) Extract(text string) []string {
	return f(text)
}

// Default extractors, wired to the pattern functions in this package.
var (
	KeyFactExtractor     Extractor = Func(KeyFacts)
	NumericFactExtractor Extractor = Func(NumericFacts)
	DateExtractor        Extractor = Func(Dates)
	EntityExtractor      Extractor = Func(Entities)
	ClaimExtractor       Extractor = Func(Claims)
)
