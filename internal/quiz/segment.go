package quiz

import (
	"strings"
	"unicode"
)

// Token is one tap-target segment of rendered content: either a run of
// whitespace (a separator, never tappable) or a run of non-whitespace
// characters, possibly marked as the designated error.
type Token struct {
	Text        string `json:"text"`
	IsSeparator bool   `json:"isSeparator,omitempty"`
	IsError     bool   `json:"isError,omitempty"`
	// MessageID is the owning chat message, empty for article/text.
	MessageID string `json:"messageId,omitempty"`
}

// Segment splits text into an ordered sequence of separator and word
// tokens. Lossless: concatenating the token texts in order reproduces
// text exactly.
func Segment(text string) []Token {
	var tokens []Token
	runes := []rune(text)

	start := 0
	for start < len(runes) {
		sep := unicode.IsSpace(runes[start])
		end := start + 1
		for end < len(runes) && unicode.IsSpace(runes[end]) == sep {
			end++
		}
		tokens = append(tokens, Token{Text: string(runes[start:end]), IsSeparator: sep})
		start = end
	}
	return tokens
}

// LocateError marks the token(s) covering wrongText as the error and
// returns a new token slice; the input is never mutated.
//
// Single-word wrongText: the first word token containing wrongText wins
// (leftmost match), and is split at the boundary into up to three
// sub-segments — non-error prefix, the exact error span, non-error
// suffix — preserving losslessness. Later occurrences stay unmarked.
//
// Multi-word wrongText (contains whitespace): every word token that
// contains at least one whitespace-delimited word of wrongText is
// marked; boundaries are left untouched.
//
// If wrongText does not occur at all, no token is marked. That is an
// authoring defect, caught by stage validation upstream; play degrades
// to "no clickable error" rather than failing.
func LocateError(tokens []Token, wrongText string) []Token {
	if wrongText == "" {
		return append([]Token(nil), tokens...)
	}
	if strings.ContainsFunc(wrongText, unicode.IsSpace) {
		return markWords(tokens, wrongText)
	}

	out := make([]Token, 0, len(tokens)+2)
	matched := false
	for _, t := range tokens {
		if matched || t.IsSeparator {
			out = append(out, t)
			continue
		}
		idx := strings.Index(t.Text, wrongText)
		if idx < 0 {
			out = append(out, t)
			continue
		}
		matched = true
		if prefix := t.Text[:idx]; prefix != "" {
			out = append(out, Token{Text: prefix, MessageID: t.MessageID})
		}
		out = append(out, Token{Text: wrongText, IsError: true, MessageID: t.MessageID})
		if suffix := t.Text[idx+len(wrongText):]; suffix != "" {
			out = append(out, Token{Text: suffix, MessageID: t.MessageID})
		}
	}
	return out
}

// markWords handles an error span covering multiple whitespace-delimited
// words: each word token containing any word of wrongText is marked.
func markWords(tokens []Token, wrongText string) []Token {
	words := strings.Fields(wrongText)
	out := append([]Token(nil), tokens...)
	for i := range out {
		if out[i].IsSeparator {
			continue
		}
		for _, w := range words {
			if strings.Contains(out[i].Text, w) {
				out[i].IsError = true
				break
			}
		}
	}
	return out
}

// SegmentVariant segments a variant's content and annotates the error,
// discriminating the content shape by the stage mode. For chat content
// the error is only matched inside the message named by the error's
// location; textual coincidences in other messages are never marked.
func SegmentVariant(mode Mode, v *StageVariant) []Token {
	switch mode {
	case ModeChat:
		var all []Token
		for _, m := range v.Content.Messages {
			if m.Text == "" {
				continue
			}
			tokens := Segment(m.Text)
			for i := range tokens {
				tokens[i].MessageID = m.ID
			}
			if m.ID == v.Error.Location {
				tokens = LocateError(tokens, v.Error.WrongText)
			}
			all = append(all, tokens...)
		}
		return all
	case ModeArticle, ModeText:
		return LocateError(Segment(v.Content.Text), v.Error.WrongText)
	}
	return nil
}

// ResolveTap turns a tap on a token into a correct/incorrect verdict.
// The verdict depends only on the precomputed error mark; separators
// are never the error.
func ResolveTap(t Token) bool {
	return t.IsError && !t.IsSeparator
}
