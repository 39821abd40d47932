package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/redpenkr/redpen/internal/quiz"
)

// Seed prepares a fresh deployment: creates the initial admin account
// from the environment when no admin exists, and loads the bundled demo
// stages into an empty catalog. Idempotent.
func Seed(ctx context.Context, logger *slog.Logger, store Store, adminEmail, adminPassword string, demo bool) error {
	admins, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if admins == 0 {
		if adminPassword == "" {
			logger.Warn("no admin exists and ADMIN_PASSWORD is unset; admin API will be unusable")
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hashing admin password: %w", err)
			}
			if err := store.CreateAdmin(ctx, adminEmail, string(hash)); err != nil {
				return fmt.Errorf("creating initial admin: %w", err)
			}
			logger.Info("initial admin created", "email", adminEmail)
		}
	}

	if !demo {
		return nil
	}
	stages, err := store.CountStages(ctx)
	if err != nil {
		return fmt.Errorf("counting stages: %w", err)
	}
	if stages > 0 {
		return nil
	}

	n, err := store.ImportStages(ctx, demoStages())
	if err != nil {
		return fmt.Errorf("seeding demo stages: %w", err)
	}
	logger.Info("demo stages seeded", "count", n)
	return nil
}

// demoStages returns the bundled starter catalog: one stage per mode,
// each variant the same passage with a different common misspelling.
func demoStages() []AdminStageRequest {
	textVariant := func(id, typo, correct, explanation string) quiz.StageVariant {
		return quiz.StageVariant{
			ID: id,
			Content: quiz.Content{
				Text: "오늘은 " + pick(typo, correct, "왠지") + " 아침부터 기분이 좋았다. " +
					pick(typo, correct, "며칠") + " 만에 해가 떴고, 감기도 " +
					pick(typo, correct, "금세") + " 나았다.",
			},
			Error: quiz.StageError{
				ID:          "e-" + id,
				WrongText:   typo,
				CorrectText: correct,
				Explanation: explanation,
			},
		}
	}

	chat := func(id string, m1, m2, m3, typo, correct, location, explanation string) quiz.StageVariant {
		return quiz.StageVariant{
			ID: id,
			Content: quiz.Content{
				Messages: []quiz.ChatMessage{
					{ID: "m1", Sender: quiz.SenderOther, Name: "지수", Text: m1},
					{ID: "m2", Sender: quiz.SenderMe, Text: m2},
					{ID: "m3", Sender: quiz.SenderOther, Name: "지수", Text: m3},
				},
			},
			Error: quiz.StageError{
				ID:          "e-" + id,
				WrongText:   typo,
				CorrectText: correct,
				Explanation: explanation,
				Location:    location,
			},
		}
	}

	article := func(id, body, typo, correct, explanation string) quiz.StageVariant {
		return quiz.StageVariant{
			ID: id,
			Content: quiz.Content{
				Title:    "우리말 산책",
				Subtitle: "자주 틀리는 맞춤법",
				Author:   "김슬기",
				Text:     body,
			},
			Error: quiz.StageError{
				ID:          "e-" + id,
				WrongText:   typo,
				CorrectText: correct,
				Explanation: explanation,
			},
		}
	}

	return []AdminStageRequest{
		{
			Level:     1,
			Mode:      quiz.ModeText,
			TimeLimit: 60,
			Variants: []quiz.StageVariant{
				textVariant("t1", "웬지", "왠지",
					"'왠지'는 '왜인지'가 줄어든 말이므로 '왠지'로 적어야 합니다."),
				textVariant("t2", "몇일", "며칠",
					"'몇일'은 잘못된 표기이며 항상 '며칠'로 적습니다."),
				textVariant("t3", "금새", "금세",
					"'금세'는 '금시에'가 줄어든 말이므로 '금세'로 적습니다."),
			},
		},
		{
			Level:     2,
			Mode:      quiz.ModeChat,
			TimeLimit: 60,
			Variants: []quiz.StageVariant{
				chat("c1",
					"주말에 영화 볼래?",
					"좋아, 근데 토요일은 안 되.",
					"토요일 좋아. 이따가 시간 정하자.",
					"안 되", "안 돼", "m2",
					"'돼'는 '되어'의 준말로, 문장 끝에서는 '안 돼'로 적습니다."),
				chat("c2",
					"주말에 영화 볼래?",
					"좋아, 근데 토요일은 안 돼.",
					"토요일 좋아. 있다가 시간 정하자.",
					"있다가", "이따가", "m3",
					"시간상 조금 뒤를 뜻할 때는 '이따가'로 적고, '있다가'는 머무름을 뜻합니다."),
				chat("c3",
					"주말에 영화 볼레?",
					"좋아, 근데 토요일은 안 돼.",
					"토요일 좋아. 이따가 시간 정하자.",
					"볼레", "볼래", "m1",
					"의향을 묻는 어미는 '-ㄹ래'이므로 '볼래'로 적습니다."),
			},
		},
		{
			Level:     3,
			Mode:      quiz.ModeArticle,
			TimeLimit: 90,
			Variants: []quiz.StageVariant{
				article("a1",
					"배우의 역활이 어색하면 관객은 금방 알아챈다. 오랜만에 무대에 선 배우일수록 연습이 필요하다. 희한하게도 실수는 꼭 중요한 장면에서 나온다.",
					"역활", "역할",
					"'역할'이 맞는 표기이며 '역활'은 잘못된 표기입니다."),
				article("a2",
					"배우의 역할이 어색하면 관객은 금방 알아챈다. 오랫만에 무대에 선 배우일수록 연습이 필요하다. 희한하게도 실수는 꼭 중요한 장면에서 나온다.",
					"오랫만에", "오랜만에",
					"'오랜만'은 '오래간만'의 준말이므로 '오랫만'이 아니라 '오랜만'으로 적습니다."),
				article("a3",
					"배우의 역할이 어색하면 관객은 금방 알아챈다. 오랜만에 무대에 선 배우일수록 연습이 필요하다. 희안하게도 실수는 꼭 중요한 장면에서 나온다.",
					"희안하게도", "희한하게도",
					"'희한하다'가 맞는 표기이며 '희안하다'는 잘못된 표기입니다."),
			},
		},
	}
}

// pick substitutes the typo for its corrected form at the slot it
// belongs to, leaving the other slots spelled correctly.
func pick(typo, correct, slot string) string {
	if correct == slot {
		return typo
	}
	return slot
}
