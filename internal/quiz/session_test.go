package quiz

import "testing"

func testStage(level, timeLimit int) *Stage {
	variants := make([]StageVariant, 3)
	for i := range variants {
		variants[i] = StageVariant{
			ID:      string(rune('a' + i)),
			Content: Content{Text: "오늘은 웬지 기분이 좋다"},
			Error:   StageError{ID: "e1", WrongText: "웬지", CorrectText: "왠지", Explanation: "설명"},
		}
	}
	return &Stage{ID: "s1", Level: level, Mode: ModeText, TimeLimit: timeLimit, Variants: variants}
}

func playingSession(t *testing.T, stage *Stage, lives int) *Session {
	t.Helper()
	s := New(lives)
	if err := s.Begin(stage); err != nil {
		t.Fatalf("begin: %v", err)
	}
	s.Start()
	return s
}

func TestBeginPicksVariant(t *testing.T) {
	stage := testStage(1, 60)
	s := New(DefaultLives)
	s.pick = func(n int) int { return 2 }

	if err := s.Begin(stage); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if s.Variant != &stage.Variants[2] {
		t.Error("variant not picked from stage")
	}
	if s.TimeLeft != 60 {
		t.Errorf("timeLeft = %d, want 60", s.TimeLeft)
	}
	if s.Status != StatusIdle {
		t.Errorf("status = %q, want idle", s.Status)
	}
}

func TestBeginEmptyVariants(t *testing.T) {
	s := New(DefaultLives)
	err := s.Begin(&Stage{ID: "s1", Level: 1, TimeLimit: 60})
	if err != ErrNoVariants {
		t.Fatalf("err = %v, want ErrNoVariants", err)
	}
}

func TestStartOnlyFromIdle(t *testing.T) {
	s := playingSession(t, testStage(1, 60), DefaultLives)
	s.Pause()
	s.Start()
	if s.Status != StatusPaused {
		t.Errorf("start escaped paused: status = %q", s.Status)
	}
}

func TestPauseResume(t *testing.T) {
	s := playingSession(t, testStage(1, 60), DefaultLives)

	s.Pause()
	if s.Status != StatusPaused {
		t.Fatalf("status = %q, want paused", s.Status)
	}

	// No timer or scoring effect while paused.
	s.Tick()
	s.HandleWrong()
	if s.TimeLeft != 60 || s.Lives != DefaultLives {
		t.Errorf("paused session mutated: timeLeft=%d lives=%d", s.TimeLeft, s.Lives)
	}

	s.Resume()
	if s.Status != StatusPlaying {
		t.Errorf("status = %q, want playing", s.Status)
	}
}

func TestTickDecrements(t *testing.T) {
	s := playingSession(t, testStage(1, 60), DefaultLives)
	s.Tick()
	s.Tick()
	if s.TimeLeft != 58 {
		t.Errorf("timeLeft = %d, want 58", s.TimeLeft)
	}
	if s.Status != StatusPlaying {
		t.Errorf("status = %q, want playing", s.Status)
	}
}

func TestTickTimeout(t *testing.T) {
	s := playingSession(t, testStage(1, 60), DefaultLives)
	s.TimeLeft = 1

	s.Tick()
	if s.Status != StatusFailed || s.FailureReason != FailureTimeout {
		t.Fatalf("status = %q/%q, want failed/timeout", s.Status, s.FailureReason)
	}

	// Stray ticks after the terminal state are ignored.
	s.Tick()
	if s.TimeLeft < 0 {
		t.Errorf("timeLeft went negative: %d", s.TimeLeft)
	}
}

func TestTickOutsidePlayingIsNoop(t *testing.T) {
	s := New(DefaultLives)
	if err := s.Begin(testStage(1, 60)); err != nil {
		t.Fatalf("begin: %v", err)
	}
	s.Tick() // still idle
	if s.TimeLeft != 60 {
		t.Errorf("idle tick mutated timeLeft: %d", s.TimeLeft)
	}
}

func TestHandleCorrectScoring(t *testing.T) {
	// Stage level 5, time limit 60: an immediate correct answer is
	// worth 65 and stays below the first bonus threshold.
	s := playingSession(t, testStage(5, 60), DefaultLives)

	restored := s.HandleCorrect()
	if s.SessionScore != 65 {
		t.Errorf("sessionScore = %d, want 65", s.SessionScore)
	}
	if restored {
		t.Error("life restored below first threshold")
	}
	if s.Lives != DefaultLives {
		t.Errorf("lives = %d, want %d", s.Lives, DefaultLives)
	}
	if !s.IsCorrect || !s.ShowExplanation {
		t.Error("transient correctness flags not set")
	}
	if s.Status != StatusPlaying {
		t.Errorf("status = %q, want playing (success is explicit)", s.Status)
	}
}

func TestHandleCorrectScoreMonotonic(t *testing.T) {
	s := playingSession(t, testStage(3, 60), DefaultLives)
	s.TimeLeft = 42

	before := s.SessionScore
	s.HandleCorrect()
	if got := s.SessionScore - before; got != 42+3 {
		t.Errorf("score delta = %d, want timeLeft+level = 45", got)
	}
}

func TestThresholdCrossingGrantsLife(t *testing.T) {
	s := playingSession(t, testStage(40, 60), 3)
	s.SessionScore = 150
	s.TimeLeft = 60

	restored := s.HandleCorrect() // 150 + 100 = 250, crosses 200
	if !restored {
		t.Fatal("expected a life restore")
	}
	if s.Lives != 4 {
		t.Errorf("lives = %d, want 4", s.Lives)
	}
	if s.LastBonusThreshold != 0 {
		t.Errorf("lastBonusThreshold = %d, want 0", s.LastBonusThreshold)
	}
}

func TestThresholdIdempotent(t *testing.T) {
	s := playingSession(t, testStage(40, 60), 3)
	s.SessionScore = 150
	s.TimeLeft = 60

	s.HandleCorrect() // crosses 200 → lives 4
	s.HandleWrong()   // back to 3, threshold pointer untouched
	s.HandleCorrect() // still past 200, must not re-grant

	if s.Lives != 3 {
		t.Errorf("lives = %d, want 3 (threshold re-triggered)", s.Lives)
	}
	if s.LastBonusThreshold != 0 {
		t.Errorf("lastBonusThreshold = %d, want 0", s.LastBonusThreshold)
	}
}

func TestLifeCap(t *testing.T) {
	s := playingSession(t, testStage(100, 180), DefaultLives)
	s.TimeLeft = 180

	// One answer worth 280 crosses the first threshold at full lives.
	s.HandleCorrect()
	if s.Lives > MaxLives {
		t.Errorf("lives = %d, exceeds cap %d", s.Lives, MaxLives)
	}
	if s.LastBonusThreshold != 0 {
		t.Errorf("lastBonusThreshold = %d, want 0 (capped crossing still advances)", s.LastBonusThreshold)
	}
}

func TestMultipleThresholdsOneAnswer(t *testing.T) {
	s := playingSession(t, testStage(100, 180), 2)
	s.SessionScore = 150
	s.TimeLeft = 180

	// 150 + 280 = 430... push further: cross 200 only.
	s.HandleCorrect()
	if s.Lives != 3 {
		t.Fatalf("lives = %d, want 3", s.Lives)
	}

	// Next answer jumps from 430 past both 500 and 1000.
	s.SessionScore = 950
	s.TimeLeft = 100
	restored := s.HandleCorrect() // 950 + 200 = 1150
	if !restored {
		t.Fatal("expected life restores")
	}
	if s.Lives != 5 {
		t.Errorf("lives = %d, want 5", s.Lives)
	}
	if s.LastBonusThreshold != 2 {
		t.Errorf("lastBonusThreshold = %d, want 2", s.LastBonusThreshold)
	}
}

func TestHandleWrongSpendsLives(t *testing.T) {
	s := playingSession(t, testStage(1, 60), 2)

	s.HandleWrong()
	if s.Lives != 1 || s.Status != StatusPlaying {
		t.Fatalf("after first wrong: lives=%d status=%q, want 1/playing", s.Lives, s.Status)
	}
	if s.IsCorrect {
		t.Error("isCorrect still set after wrong tap")
	}

	s.HandleWrong()
	if s.Lives != 0 {
		t.Errorf("lives = %d, want 0", s.Lives)
	}
	if s.Status != StatusFailed || s.FailureReason != FailureNoLives {
		t.Errorf("status = %q/%q, want failed/no_lives", s.Status, s.FailureReason)
	}
}

func TestWrongKeepsVariantActive(t *testing.T) {
	stage := testStage(1, 60)
	s := playingSession(t, stage, DefaultLives)
	v := s.Variant

	s.HandleWrong()
	if s.Variant != v {
		t.Error("wrong tap changed the active variant")
	}
	if s.Status != StatusPlaying {
		t.Errorf("status = %q, want playing", s.Status)
	}
}

func TestEndExplicitSuccess(t *testing.T) {
	s := playingSession(t, testStage(5, 60), DefaultLives)
	s.TimeLeft = 40
	s.HandleCorrect()
	s.End(true, FailureNone)

	if s.Status != StatusSuccess {
		t.Fatalf("status = %q, want success", s.Status)
	}
	r := s.Result()
	if !r.Success {
		t.Error("result not successful")
	}
	if r.StageScore != 45 {
		t.Errorf("stageScore = %d, want 45", r.StageScore)
	}
	if r.Level != 5 {
		t.Errorf("level = %d, want 5", r.Level)
	}
}

func TestResultFailedEarnsNothing(t *testing.T) {
	s := playingSession(t, testStage(5, 60), 1)
	s.HandleWrong()

	r := s.Result()
	if r.Success {
		t.Fatal("failed attempt reported success")
	}
	if r.StageScore != 0 {
		t.Errorf("stageScore = %d, want 0 for a failed attempt", r.StageScore)
	}
	if r.FailureReason != FailureNoLives {
		t.Errorf("failureReason = %q, want no_lives", r.FailureReason)
	}
}

func TestSessionPersistsAcrossAttempts(t *testing.T) {
	s := playingSession(t, testStage(5, 60), DefaultLives)
	s.HandleCorrect()
	s.End(true, FailureNone)
	score := s.SessionScore

	if err := s.Begin(testStage(6, 90)); err != nil {
		t.Fatalf("second begin: %v", err)
	}
	if s.SessionScore != score {
		t.Errorf("sessionScore = %d, want %d carried over", s.SessionScore, score)
	}
	if s.Status != StatusIdle {
		t.Errorf("status = %q, want idle", s.Status)
	}
	if r := s.Result(); r.StageScore != 0 {
		t.Errorf("stale stageScore %d leaked into new attempt", r.StageScore)
	}
}

func TestReset(t *testing.T) {
	s := playingSession(t, testStage(5, 60), 2)
	s.HandleCorrect()
	s.Reset()

	if s.SessionScore != 0 || s.Lives != DefaultLives || s.LastBonusThreshold != -1 {
		t.Errorf("reset left state behind: score=%d lives=%d ptr=%d",
			s.SessionScore, s.Lives, s.LastBonusThreshold)
	}
	if s.Status != StatusIdle || s.Stage != nil {
		t.Errorf("reset did not return to idle defaults")
	}
}
