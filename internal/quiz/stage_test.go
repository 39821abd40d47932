package quiz

import (
	"strings"
	"testing"
)

func validTextStage() *Stage {
	mk := func(id, typo, correct string) StageVariant {
		return StageVariant{
			ID:      id,
			Content: Content{Text: "오늘은 " + typo + " 기분이 좋다"},
			Error:   StageError{ID: "e-" + id, WrongText: typo, CorrectText: correct, Explanation: "설명"},
		}
	}
	return &Stage{
		ID:        "s1",
		Level:     3,
		Mode:      ModeText,
		TimeLimit: 60,
		Variants: []StageVariant{
			mk("v1", "웬지", "왠지"),
			mk("v2", "몇일", "며칠"),
			mk("v3", "금새", "금세"),
		},
	}
}

func TestStageValidateOK(t *testing.T) {
	if err := validTextStage().Validate(); err != nil {
		t.Fatalf("valid stage rejected: %v", err)
	}
}

func TestStageValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Stage)
		wantMsg string
	}{
		{
			"zero level",
			func(s *Stage) { s.Level = 0 },
			"level",
		},
		{
			"bad mode",
			func(s *Stage) { s.Mode = "video" },
			"mode",
		},
		{
			"time limit too short",
			func(s *Stage) { s.TimeLimit = 10 },
			"timeLimit",
		},
		{
			"time limit too long",
			func(s *Stage) { s.TimeLimit = 600 },
			"timeLimit",
		},
		{
			"too few variants",
			func(s *Stage) { s.Variants = s.Variants[:2] },
			"variants",
		},
		{
			"missing variant id",
			func(s *Stage) { s.Variants[1].ID = " " },
			"id is required",
		},
		{
			"missing wrongText",
			func(s *Stage) { s.Variants[0].Error.WrongText = "" },
			"wrongText",
		},
		{
			"missing correctText",
			func(s *Stage) { s.Variants[0].Error.CorrectText = "" },
			"correctText",
		},
		{
			"missing explanation",
			func(s *Stage) { s.Variants[0].Error.Explanation = "" },
			"explanation",
		},
		{
			"wrongText absent from content",
			func(s *Stage) { s.Variants[2].Error.WrongText = "없는말" },
			"does not occur",
		},
		{
			"empty body",
			func(s *Stage) { s.Variants[0].Content.Text = "" },
			"body text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validTextStage()
			tt.mutate(s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestChatVariantValidate(t *testing.T) {
	v := chatVariant()

	if err := v.Validate(ModeChat); err != nil {
		t.Fatalf("valid chat variant rejected: %v", err)
	}

	t.Run("missing location", func(t *testing.T) {
		bad := *v
		bad.Error.Location = ""
		if err := bad.Validate(ModeChat); err == nil {
			t.Error("chat variant without location accepted")
		}
	})

	t.Run("location names no message", func(t *testing.T) {
		bad := *v
		bad.Error.Location = "m9"
		err := bad.Validate(ModeChat)
		if err == nil || !strings.Contains(err.Error(), "location") {
			t.Errorf("err = %v, want location error", err)
		}
	})

	t.Run("wrongText in a different message only", func(t *testing.T) {
		bad := chatVariant()
		bad.Content.Messages[1].Text = "다른 내용입니다"
		err := bad.Validate(ModeChat)
		if err == nil || !strings.Contains(err.Error(), "does not occur") {
			t.Errorf("err = %v, want occurrence error (m1 must not satisfy m2's scope)", err)
		}
	})
}

func TestArticleContentValidate(t *testing.T) {
	c := Content{Title: "맞춤법 상식", Text: "본문입니다"}
	if err := c.validate(ModeArticle); err != nil {
		t.Fatalf("valid article rejected: %v", err)
	}

	c.Title = ""
	if err := c.validate(ModeArticle); err == nil {
		t.Error("article without title accepted")
	}
}
