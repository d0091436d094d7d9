// Package titles reconciles the messy title text scraped from Letterboxd
// pages with the clean titles stored in the catalog. Scraped titles arrive
// with HTML entities (sometimes double-escaped or truncated), curly
// punctuation and mojibake; catalog titles are plain ASCII-ish text, in
// some deployments with apostrophes stripped by the import job.
package titles

import (
	"regexp"
	"strconv"
	"strings"
)

// NormalizedTitle holds the two canonical forms of a scraped title.
// Normalized keeps apostrophes; Stripped drops them for catalogs whose
// titles were stored apostrophe-less.
type NormalizedTitle struct {
	Normalized string
	Stripped   string
}

var (
	// Apostrophe entity fragments, including the broken shapes left behind
	// when upstream HTML was entity-decoded twice or truncated:
	// &#x27; &#039; &amp;#039; &amp; #039; & #x27; ...
	brokenAposRe = regexp.MustCompile(`&\s*(?:amp;)?\s*#\s*(?:[xX]0*27|0*39)\s*;`)
	// Bare fragments with the ampersand already gone: #x27; #039; #0039;
	bareAposRe = regexp.MustCompile(`#\s*(?:[xX]0*27|0*39)\s*;`)

	hexEntityRe = regexp.MustCompile(`&#[xX]([0-9a-fA-F]{1,6});`)
	decEntityRe = regexp.MustCompile(`&#([0-9]{1,7});`)

	// A run of whitespace directly before apostrophes is debris from a
	// decoded entity fragment ("World 's" -> "World's").
	spaceAposRe  = regexp.MustCompile(`\s+'+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// namedEntities are decoded by direct table lookup. &amp; is handled
// separately so broken numeric fragments are repaired first.
var namedEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&nbsp;", " ",
	"&mdash;", "-",
	"&ndash;", "-",
)

// mojibake repairs UTF-8 punctuation that was decoded as Latin-1 somewhere
// upstream, plus the unicode look-alikes themselves. Longest first so the
// three-byte mojibake sequences win over their leading "â" rune.
var punctuation = strings.NewReplacer(
	"â€™", "'", // â€™  mojibake U+2019
	"â€˜", "'", // â€˜  mojibake U+2018
	"â€œ", `"`, // â€œ  mojibake U+201C
	"â€", `"`, // â€�  mojibake U+201D
	"â€“", "-", // â€“  mojibake U+2013
	"â€”", "-", // â€”  mojibake U+2014
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"＇", "'", // full-width apostrophe
	"ʼ", "'", // modifier letter apostrophe
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"–", "-", // en dash
	"—", "-", // em dash
)

// Normalize converts a raw scraped title into its canonical forms. It never
// fails; unrecognized entities pass through unchanged. Case is preserved.
func Normalize(raw string) NormalizedTitle {
	s := raw

	// Apostrophe entity fragments first, broken or not. Doing these before
	// the generic entity pass means "&amp;#039;" collapses in one step
	// instead of needing a second decode round.
	s = brokenAposRe.ReplaceAllString(s, "'")
	s = bareAposRe.ReplaceAllString(s, "'")

	s = namedEntities.Replace(s)
	s = decodeNumericEntities(s)
	s = strings.ReplaceAll(s, "&amp;", "&")

	s = punctuation.Replace(s)

	// "World 's" -> "World's": the space is an artifact of entity repair,
	// not part of the title.
	s = spaceAposRe.ReplaceAllString(s, "'")

	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	return NormalizedTitle{
		Normalized: s,
		Stripped:   strings.ReplaceAll(s, "'", ""),
	}
}

func decodeNumericEntities(s string) string {
	s = hexEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseInt(m[3:len(m)-1], 16, 32)
		if err != nil || n <= 0 || n > 0x10FFFF {
			return m
		}
		return string(rune(n))
	})
	s = decEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseInt(m[2:len(m)-1], 10, 32)
		if err != nil || n <= 0 || n > 0x10FFFF {
			return m
		}
		return string(rune(n))
	})
	return s
}
