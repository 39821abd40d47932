package server

import (
	"context"
	"errors"

	"github.com/redpenkr/redpen/internal/quiz"
)

var ErrNotFound = errors.New("not found")

// AdminStageSummary is one row of the admin stage list.
type AdminStageSummary struct {
	ID           string    `json:"id"`
	Level        int       `json:"level"`
	Mode         quiz.Mode `json:"mode"`
	TimeLimit    int       `json:"timeLimit"`
	VariantCount int       `json:"variantCount"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// AdminStageDetail is a full authored stage, including variants.
type AdminStageDetail struct {
	ID        string              `json:"id"`
	Level     int                 `json:"level"`
	Mode      quiz.Mode           `json:"mode"`
	TimeLimit int                 `json:"timeLimit"`
	Variants  []quiz.StageVariant `json:"variants"`
	CreatedAt string              `json:"createdAt"`
	UpdatedAt string              `json:"updatedAt"`
}

// AttemptResult is a terminal attempt outcome persisted for stats.
type AttemptResult struct {
	StageID        string
	Level          int
	Success        bool
	StageScore     int
	SessionScore   int
	RemainingLives int
	FailureReason  string
}

// RankingEntry is one leaderboard row, keyed by player nickname.
type RankingEntry struct {
	Nickname  string `json:"nickname"`
	Region    string `json:"region,omitempty"`
	Country   string `json:"country,omitempty"`
	Score     int    `json:"score"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Store interface {
	// Catalog lookups used by the play surface.
	StageForPlay(ctx context.Context, id string) (quiz.Stage, error)
	StageByLevel(ctx context.Context, level int) (quiz.Stage, error)
	CountStages(ctx context.Context) (int, error)

	// Authoring.
	ListStages(ctx context.Context) ([]AdminStageSummary, error)
	CreateStage(ctx context.Context, req AdminStageRequest) (AdminStageDetail, error)
	GetStage(ctx context.Context, id string) (AdminStageDetail, error)
	UpdateStage(ctx context.Context, id string, req AdminStageRequest) (AdminStageDetail, error)
	DeleteStage(ctx context.Context, id string) error
	StageHasResults(ctx context.Context, stageID string) (bool, error)
	ImportStages(ctx context.Context, reqs []AdminStageRequest) (int, error)
	ExportStages(ctx context.Context) ([]AdminStageDetail, error)

	// Score reporting.
	RecordResult(ctx context.Context, res AttemptResult) error
	SubmitRanking(ctx context.Context, entry RankingEntry) (RankingEntry, error)
	ListRankings(ctx context.Context, limit int) ([]RankingEntry, error)

	// Admin accounts and cookie sessions.
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
