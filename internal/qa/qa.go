// Package qa detects question and answer pairs in article markup.
//
// Two independent passes run over the same input: explicit "Q:"/"A:" labels
// anywhere in the text, and list items inside a "Frequently Asked Questions"
// or "Common Questions" section. Promotional pairs are dropped afterwards.
package qa

import (
	"regexp"
	"strings"

	"github.com/mfenderov/geo-schema/internal/textclean"
	"github.com/mfenderov/geo-schema/pkg/models"
)

var (
	// questionLabelRe matches a question label; it also ends the previous answer.
	questionLabelRe = regexp.MustCompile(`(?i)\b(?:Q|Question):`)

	// answerLabelRe matches the answer label that closes a question.
	answerLabelRe = regexp.MustCompile(`(?i)\b(?:A|Answer):`)

	// faqSectionRe finds an FAQ heading followed by the nearest list or paragraph.
	faqSectionRe = regexp.MustCompile(`(?is)\b(?:Frequently Asked Questions|Common Questions)\b.*?<(?:ul|ol|p)(?:\s[^>]*)?>(.+?)</(?:ul|ol|p)>`)

	// listItemRe captures the body of each list item.
	listItemRe = regexp.MustCompile(`(?is)<li(?:\s[^>]*)?>(.+?)</li>`)

	// itemSplitRe takes the first run ending in '?' as the question and the
	// rest of the item as the answer. Lead-ins such as "1." are skipped.
	itemSplitRe = regexp.MustCompile(`(?s)([^.!?]*\?)\s*(.+)`)
)

// Extract returns explicit pairs followed by FAQ-section pairs, minus any
// promotional entries. It never fails; no matches yield an empty slice.
func Extract(content string) []models.QAPair {
	pairs := Explicit(content)
	pairs = append(pairs, FAQSection(content)...)
	return FilterPromotional(pairs)
}

// Explicit finds "Q: ... A: ..." pairs. A question runs up to the first
// answer label; its answer runs up to the next question label or the end.
func Explicit(content string) []models.QAPair {
	var pairs []models.QAPair

	pos := 0
	for pos < len(content) {
		q := questionLabelRe.FindStringIndex(content[pos:])
		if q == nil {
			break
		}
		qEnd := pos + q[1]

		a := answerLabelRe.FindStringIndex(content[qEnd:])
		if a == nil {
			break
		}
		question := content[qEnd : qEnd+a[0]]
		aEnd := qEnd + a[1]

		answerEnd := len(content)
		if next := questionLabelRe.FindStringIndex(content[aEnd:]); next != nil {
			answerEnd = aEnd + next[0]
		}
		answer := content[aEnd:answerEnd]
		pos = answerEnd

		if pair, ok := newPair(question, answer); ok {
			pairs = append(pairs, pair)
		}
	}

	return pairs
}

// FAQSection finds list items under the first FAQ heading and splits each
// into a question ending in '?' and the answer that follows it.
func FAQSection(content string) []models.QAPair {
	section := faqSectionRe.FindStringSubmatch(content)
	if section == nil {
		return nil
	}

	var pairs []models.QAPair
	for _, item := range listItemRe.FindAllStringSubmatch(section[1], -1) {
		m := itemSplitRe.FindStringSubmatch(strings.TrimSpace(item[1]))
		if m == nil {
			continue
		}
		if pair, ok := newPair(m[1], m[2]); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

func newPair(question, answer string) (models.QAPair, bool) {
	pair := models.QAPair{
		Question: textclean.Normalize(question),
		Answer:   textclean.Normalize(answer),
	}
	return pair, pair.Question != "" && pair.Answer != ""
}
