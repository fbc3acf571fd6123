// Package langdetect names the language of a fenced code block, either from
// its info string or, failing that, by classifying its contents with
// go-enry.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

//nolint:gochecknoglobals // Read-only classifier candidates.
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// pattern is a cheap, highly indicative check run before the classifier.
type pattern struct {
	lang  string
	match func(content, trimmed []byte) bool
}

//nolint:gochecknoglobals // Read-only pattern table, checked in order.
var patterns = []pattern{
	{"go", func(_, t []byte) bool { return bytes.HasPrefix(t, []byte("package ")) }},
	{"python", func(c, _ []byte) bool {
		return (bytes.Contains(c, []byte("def ")) && bytes.Contains(c, []byte("):"))) ||
			bytes.Contains(c, []byte("__main__"))
	}},
	{"html", func(_, t []byte) bool {
		lower := bytes.ToLower(t)
		return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.Contains(lower, []byte("<html"))
	}},
	{"json", func(_, t []byte) bool {
		return (bytes.HasPrefix(t, []byte("{")) || bytes.HasPrefix(t, []byte("["))) &&
			bytes.Contains(t, []byte(`":`))
	}},
	{"sql", func(_, t []byte) bool {
		upper := bytes.ToUpper(t)
		for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if bytes.HasPrefix(upper, []byte(kw)) {
				return true
			}
		}
		return false
	}},
	{"rust", func(c, _ []byte) bool {
		return bytes.Contains(c, []byte("fn main()")) || bytes.Contains(c, []byte("println!"))
	}},
	{"dockerfile", func(_, t []byte) bool { return bytes.HasPrefix(t, []byte("FROM ")) }},
}

// Resolve returns the language of a code block. A non-empty info string
// (the text after the opening fence) wins; its first word is mapped
// through go-enry's alias table. Otherwise the body is classified.
func Resolve(info string, body []byte) string {
	if fields := strings.Fields(info); len(fields) > 0 {
		if lang, ok := enry.GetLanguageByAlias(fields[0]); ok {
			return normalize(lang)
		}
		return strings.ToLower(fields[0])
	}
	return Detect(body)
}

// Detect classifies code by content. It returns Text when unsure.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	for _, p := range patterns {
		if p.match(content, trimmed) {
			return p.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}
	return Text
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
