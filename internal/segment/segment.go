// Package segment splits plain text into sentences and packs sentences into
// citation-sized chunks.
package segment

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 1800

// Chunk is a run of consecutive sentences.
type Chunk struct {
	ID   string
	Text string
}

// Sentences splits text after every '.', '!' or '?' that is followed by
// whitespace. The terminator stays with its sentence; the whitespace is
// dropped along with any empty fragments.
func Sentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		end := i
		for i < len(text) {
			ws, n := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(ws) {
				break
			}
			i += n
		}
		if i == end {
			continue
		}
		sentences = appendSentence(sentences, text[start:end])
		start = i
	}
	return appendSentence(sentences, text[start:])
}

func appendSentence(sentences []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Pack greedily groups sentences into chunks of at most maxLen characters.
// A sentence that would push the buffer past maxLen starts a new chunk; a
// single oversized sentence becomes a chunk of its own. IDs are chunk-0,
// chunk-1, ... in document order.
func Pack(sentences []string, maxLen int) []Chunk {
	if maxLen <= 0 {
		maxLen = DefaultChunkSize
	}

	var chunks []Chunk
	var buf strings.Builder
	bufLen := 0

	flush := func() {
		if text := strings.TrimSpace(buf.String()); text != "" {
			chunks = append(chunks, Chunk{
				ID:   fmt.Sprintf("chunk-%d", len(chunks)),
				Text: text,
			})
		}
		buf.Reset()
		bufLen = 0
	}

	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		if bufLen > 0 && bufLen+1+n > maxLen {
			flush()
		}
		if bufLen > 0 {
			buf.WriteByte(' ')
			bufLen++
		}
		buf.WriteString(s)
		bufLen += n
	}
	flush()

	return chunks
}

// Chunks is Sentences followed by Pack.
func Chunks(text string, maxLen int) []Chunk {
	return Pack(Sentences(text), maxLen)
}
