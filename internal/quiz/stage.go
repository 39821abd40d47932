// Package quiz implements the play-time core of the RedPen spelling game:
// the stage data model, the text segmentation and error matcher, and the
// session state machine. Everything here is pure Go — no external deps.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the content shape of a stage. Fixed once created.
type Mode string

const (
	ModeChat    Mode = "chat"
	ModeArticle Mode = "article"
	ModeText    Mode = "text"
)

func (m Mode) Valid() bool {
	return m == ModeChat || m == ModeArticle || m == ModeText
}

// Sender is one of the two fixed sides of a chat conversation.
type Sender string

const (
	SenderMe    Sender = "me"
	SenderOther Sender = "other"
)

const (
	MinVariants = 3
	MaxVariants = 5

	MinTimeLimit = 30
	MaxTimeLimit = 180

	MaxLives     = 5
	DefaultLives = 5
)

// ChatMessage is one bubble of chat-mode content. Messages carrying an
// image instead of text are not matchable against an error.
type ChatMessage struct {
	ID     string `json:"id"`
	Sender Sender `json:"sender"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text,omitempty"`
	Image  string `json:"image,omitempty"`
}

// Content holds one of three shapes, discriminated by the owning stage's
// mode: chat uses Messages, article uses Title/Subtitle/Author/Source/Text,
// text uses an optional Title plus Text. The shape is checked once at the
// authoring boundary (Validate), never re-discriminated during play.
type Content struct {
	Messages []ChatMessage `json:"messages,omitempty"`
	Title    string        `json:"title,omitempty"`
	Subtitle string        `json:"subtitle,omitempty"`
	Author   string        `json:"author,omitempty"`
	Source   string        `json:"source,omitempty"`
	Text     string        `json:"text,omitempty"`
}

// StageError is the single designated mistake injected into a variant.
type StageError struct {
	ID          string `json:"id"`
	WrongText   string `json:"wrongText"`
	CorrectText string `json:"correctText"`
	Explanation string `json:"explanation"`
	// Location names the chat message containing the error. Unused for
	// article and text content, which have a single body.
	Location string `json:"location,omitempty"`
}

// StageVariant is one concrete passage with one injected error. All
// variants of a stage are the same passage with a different typo, so
// replays feel familiar but re-test different errors.
type StageVariant struct {
	ID      string     `json:"id"`
	Content Content    `json:"content"`
	Error   StageError `json:"error"`
}

// Stage is a leveled quiz unit: a fixed mode, a time limit, and 3–5
// variants. Read-only during play; authored by the admin tool.
type Stage struct {
	ID        string         `json:"id"`
	Level     int            `json:"level"`
	Mode      Mode           `json:"mode"`
	TimeLimit int            `json:"timeLimit"`
	Variants  []StageVariant `json:"variants"`
}

// Validate enforces the authoring invariants: level and time limit in
// range, a valid mode, 3–5 variants, and — the data-integrity invariant
// the play-time core depends on — every variant's wrongText occurring
// verbatim in its scoped content. A variant that fails the occurrence
// check would be unplayable (no clickable error), so it is rejected
// here rather than degraded at play time.
func (s *Stage) Validate() error {
	if s.Level < 1 {
		return errors.New("level must be a positive integer")
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("mode must be one of chat, article, text (got %q)", s.Mode)
	}
	if s.TimeLimit < MinTimeLimit || s.TimeLimit > MaxTimeLimit {
		return fmt.Errorf("timeLimit must be between %d and %d seconds", MinTimeLimit, MaxTimeLimit)
	}
	if len(s.Variants) < MinVariants || len(s.Variants) > MaxVariants {
		return fmt.Errorf("stage must have between %d and %d variants (got %d)", MinVariants, MaxVariants, len(s.Variants))
	}
	for i := range s.Variants {
		if err := s.Variants[i].Validate(s.Mode); err != nil {
			return fmt.Errorf("variant %d: %w", i+1, err)
		}
	}
	return nil
}

// Validate checks a single variant against the stage mode.
func (v *StageVariant) Validate(mode Mode) error {
	if strings.TrimSpace(v.ID) == "" {
		return errors.New("id is required")
	}
	if err := v.Error.validate(mode); err != nil {
		return err
	}
	if err := v.Content.validate(mode); err != nil {
		return err
	}

	scoped, ok := v.Content.scopedText(mode, v.Error.Location)
	if !ok {
		return fmt.Errorf("error location %q does not name a message in the content", v.Error.Location)
	}
	if !strings.Contains(scoped, v.Error.WrongText) {
		return fmt.Errorf("wrongText %q does not occur in the variant content", v.Error.WrongText)
	}
	return nil
}

func (e *StageError) validate(mode Mode) error {
	if e.WrongText == "" {
		return errors.New("error wrongText is required")
	}
	if e.CorrectText == "" {
		return errors.New("error correctText is required")
	}
	if strings.TrimSpace(e.Explanation) == "" {
		return errors.New("error explanation is required")
	}
	if mode == ModeChat && e.Location == "" {
		return errors.New("error location is required for chat content")
	}
	return nil
}

func (c *Content) validate(mode Mode) error {
	switch mode {
	case ModeChat:
		if len(c.Messages) == 0 {
			return errors.New("chat content must have at least one message")
		}
		seen := make(map[string]bool, len(c.Messages))
		for i, m := range c.Messages {
			if m.ID == "" {
				return fmt.Errorf("message %d: id is required", i+1)
			}
			if seen[m.ID] {
				return fmt.Errorf("message %d: duplicate id %q", i+1, m.ID)
			}
			seen[m.ID] = true
			if m.Sender != SenderMe && m.Sender != SenderOther {
				return fmt.Errorf("message %d: sender must be %q or %q", i+1, SenderMe, SenderOther)
			}
			if m.Text == "" && m.Image == "" {
				return fmt.Errorf("message %d: text or image is required", i+1)
			}
		}
	case ModeArticle:
		if strings.TrimSpace(c.Title) == "" {
			return errors.New("article content must have a title")
		}
		if c.Text == "" {
			return errors.New("article content must have a body text")
		}
	case ModeText:
		if c.Text == "" {
			return errors.New("text content must have a body text")
		}
	}
	return nil
}

// scopedText returns the portion of the content that the error is
// matched against: the located message for chat, the single body text
// otherwise. ok is false when a chat location names no message.
func (c *Content) scopedText(mode Mode, location string) (text string, ok bool) {
	if mode != ModeChat {
		return c.Text, true
	}
	for _, m := range c.Messages {
		if m.ID == location {
			return m.Text, true
		}
	}
	return "", false
}
