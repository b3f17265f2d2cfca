package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Fallback is emitted when a document cannot be serialized.
const Fallback = `{
    "@context": "https://schema.org",
    "@type": "Article",
    "headline": "Schema Generation Error"
}`

// Encode serializes doc as indented JSON. Slashes, non-ASCII text and HTML
// characters are written as-is. Encode never fails: a nil or unencodable
// document yields Fallback.
func Encode(doc *Document) []byte {
	if doc == nil {
		return []byte(Fallback)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return []byte(Fallback)
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// scriptEscaper rewrites the sequences that would end or confuse a script
// element. Both only occur inside JSON strings, where the escapes are valid.
var scriptEscaper = strings.NewReplacer("</", `<\/`, "<!--", `<\u0021--`)

// ScriptTag wraps the encoded document in a JSON-LD script element.
func ScriptTag(doc *Document) string {
	return "<script type=\"application/ld+json\">\n" + scriptEscaper.Replace(string(Encode(doc))) + "\n</script>"
}
