package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrUnparseable means no repair strategy produced valid JSON.
var ErrUnparseable = errors.New("content is not JSON after repair attempts")

var (
	codeFenceRe     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// LenientDecoder parses LLM output that is supposed to be JSON but often
// arrives wrapped in markdown fences, prose, or with small syntax slips.
// The repair strategies are a bounded, ordered set; anything beyond them is
// rejected rather than guessed at.
type LenientDecoder struct{}

// NewLenientDecoder creates a new LenientDecoder instance
func NewLenientDecoder() *LenientDecoder {
	return &LenientDecoder{}
}

// Decode unmarshals raw into v, trying progressively more aggressive
// repairs: fence stripping, prose stripping, trailing-comma removal,
// unquoted-key quoting and bracket completion.
func (d *LenientDecoder) Decode(raw string, v interface{}) error {
	candidate := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	candidate = extractJSONBlock(candidate)
	if candidate == "" {
		return ErrUnparseable
	}
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	candidate = trailingCommaRe.ReplaceAllString(candidate, "$1")
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	candidate = unquotedKeyRe.ReplaceAllString(candidate, `$1"$2":`)
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	candidate = completeBrackets(candidate)
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	return ErrUnparseable
}

// extractJSONBlock returns the substring from the first opening brace or
// bracket to the matching region's last closer, dropping surrounding prose.
func extractJSONBlock(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		// Truncated output: keep the tail and let bracket completion fix it.
		return s[start:]
	}
	return s[start : end+1]
}

// completeBrackets appends the closers a truncated payload is missing.
// String contents are skipped so braces inside values don't confuse it.
func completeBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}', ']':
			if !inString && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if inString {
		s += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			s += "}"
		} else {
			s += "]"
		}
	}
	return s
}
