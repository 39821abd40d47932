package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redpenkr/redpen/internal/quiz"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) StageForPlay(ctx context.Context, id string) (quiz.Stage, error) {
	var stage quiz.Stage
	var variantsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, level, mode, time_limit, variants FROM stages WHERE id = ?
	`, id).Scan(&stage.ID, &stage.Level, &stage.Mode, &stage.TimeLimit, &variantsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return stage, ErrNotFound
	}
	if err != nil {
		return stage, err
	}
	if err := json.Unmarshal([]byte(variantsJSON), &stage.Variants); err != nil {
		return stage, fmt.Errorf("decoding variants of stage %s: %w", id, err)
	}
	return stage, nil
}

// StageByLevel picks one stage at the given level at random, so replays
// of a level do not always serve the same passage.
func (s *SQLiteStore) StageByLevel(ctx context.Context, level int) (quiz.Stage, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM stages WHERE level = ? ORDER BY RANDOM() LIMIT 1
	`, level).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.Stage{}, ErrNotFound
	}
	if err != nil {
		return quiz.Stage{}, err
	}
	return s.StageForPlay(ctx, id)
}

func (s *SQLiteStore) CountStages(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stages`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) ListStages(ctx context.Context) ([]AdminStageSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, mode, time_limit, variants, created_at, updated_at
		FROM stages
		ORDER BY level, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []AdminStageSummary
	for rows.Next() {
		var st AdminStageSummary
		var variantsJSON string
		if err := rows.Scan(&st.ID, &st.Level, &st.Mode, &st.TimeLimit, &variantsJSON, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		var variants []json.RawMessage
		json.Unmarshal([]byte(variantsJSON), &variants)
		st.VariantCount = len(variants)
		stages = append(stages, st)
	}
	return stages, rows.Err()
}

func (s *SQLiteStore) CreateStage(ctx context.Context, req AdminStageRequest) (AdminStageDetail, error) {
	variantsJSON, _ := json.Marshal(req.Variants)

	var id, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO stages (level, mode, time_limit, variants)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at, updated_at
	`, req.Level, req.Mode, req.TimeLimit, string(variantsJSON)).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return AdminStageDetail{}, err
	}

	return AdminStageDetail{
		ID:        id,
		Level:     req.Level,
		Mode:      req.Mode,
		TimeLimit: req.TimeLimit,
		Variants:  req.Variants,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *SQLiteStore) GetStage(ctx context.Context, id string) (AdminStageDetail, error) {
	var d AdminStageDetail
	var variantsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, level, mode, time_limit, variants, created_at, updated_at
		FROM stages WHERE id = ?
	`, id).Scan(&d.ID, &d.Level, &d.Mode, &d.TimeLimit, &variantsJSON, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	json.Unmarshal([]byte(variantsJSON), &d.Variants)
	if d.Variants == nil {
		d.Variants = []quiz.StageVariant{}
	}
	return d, nil
}

func (s *SQLiteStore) UpdateStage(ctx context.Context, id string, req AdminStageRequest) (AdminStageDetail, error) {
	variantsJSON, _ := json.Marshal(req.Variants)

	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		UPDATE stages
		SET level = ?, mode = ?, time_limit = ?, variants = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING created_at, updated_at
	`, req.Level, req.Mode, req.TimeLimit, string(variantsJSON), id).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AdminStageDetail{}, ErrNotFound
	}
	if err != nil {
		return AdminStageDetail{}, err
	}

	return AdminStageDetail{
		ID:        id,
		Level:     req.Level,
		Mode:      req.Mode,
		TimeLimit: req.TimeLimit,
		Variants:  req.Variants,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *SQLiteStore) DeleteStage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) StageHasResults(ctx context.Context, stageID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM results WHERE stage_id = ?
	`, stageID).Scan(&count)
	return count > 0, err
}

// ImportStages inserts a validated batch inside one transaction:
// either every stage lands or none does.
func (s *SQLiteStore) ImportStages(ctx context.Context, reqs []AdminStageRequest) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, req := range reqs {
		variantsJSON, _ := json.Marshal(req.Variants)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stages (level, mode, time_limit, variants)
			VALUES (?, ?, ?, ?)
		`, req.Level, req.Mode, req.TimeLimit, string(variantsJSON)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(reqs), nil
}

func (s *SQLiteStore) ExportStages(ctx context.Context) ([]AdminStageDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, mode, time_limit, variants, created_at, updated_at
		FROM stages
		ORDER BY level, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []AdminStageDetail
	for rows.Next() {
		var d AdminStageDetail
		var variantsJSON string
		if err := rows.Scan(&d.ID, &d.Level, &d.Mode, &d.TimeLimit, &variantsJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(variantsJSON), &d.Variants); err != nil {
			return nil, fmt.Errorf("decoding variants of stage %s: %w", d.ID, err)
		}
		stages = append(stages, d)
	}
	return stages, rows.Err()
}

func (s *SQLiteStore) RecordResult(ctx context.Context, res AttemptResult) error {
	success := 0
	if res.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (stage_id, level, success, stage_score, session_score, remaining_lives, failure_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, res.StageID, res.Level, success, res.StageScore, res.SessionScore, res.RemainingLives, res.FailureReason)
	return err
}

func (s *SQLiteStore) SubmitRanking(ctx context.Context, entry RankingEntry) (RankingEntry, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rankings (nickname, region, country, score)
		VALUES (?, ?, ?, ?)
		RETURNING created_at
	`, entry.Nickname, entry.Region, entry.Country, entry.Score).Scan(&entry.CreatedAt)
	return entry, err
}

func (s *SQLiteStore) ListRankings(ctx context.Context, limit int) ([]RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nickname, region, country, score, created_at
		FROM rankings
		ORDER BY score DESC, created_at
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RankingEntry
	for rows.Next() {
		var e RankingEntry
		if err := rows.Scan(&e.Nickname, &e.Region, &e.Country, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var adminID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return adminID, passwordHash, err
}

func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash) VALUES (?, ?)
	`, email, passwordHash)
	return err
}

func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_sessions (admin_id)
		VALUES (?)
		RETURNING id
	`, adminID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}
