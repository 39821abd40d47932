package quiz

import (
	"errors"
	"math/rand/v2"
)

// Status is the session state machine: idle → playing → success|failed,
// with paused as a pass-through suspension of playing.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status ends the current stage attempt.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// FailureReason names why an attempt failed. Timeout and no_lives are
// the only two; both are terminal and never retried automatically.
type FailureReason string

const (
	FailureNone    FailureReason = ""
	FailureTimeout FailureReason = "timeout"
	FailureNoLives FailureReason = "no_lives"
)

// BonusThresholds is the life-bonus ladder: fixed ascending session
// score marks that each restore one life the first time they are
// crossed. Shared by all players, no per-player scaling.
var BonusThresholds = []int{200, 500, 1000, 2000, 4000, 8000}

// ErrNoVariants signals a stage with an empty variant list. This is an
// authoring or integration defect, not a play-time condition, so it is
// the one loud failure the session surfaces.
var ErrNoVariants = errors.New("stage has no variants")

// Session is one continuous play run: cumulative score and lives
// persist across stage attempts until Reset. Ephemeral — never
// persisted mid-session. All mutation is synchronous; a single
// controller owns the value.
type Session struct {
	Stage   *Stage
	Variant *StageVariant

	TimeLeft      int
	Lives         int
	SessionScore  int
	Status        Status
	FailureReason FailureReason

	// LastBonusThreshold indexes the highest BonusThresholds entry
	// already evaluated; -1 before any crossing. Never regresses.
	LastBonusThreshold int

	// Transient flags for the presentation layer, set by the last tap.
	IsCorrect       bool
	ShowExplanation bool

	stageScore int
	pick       func(n int) int
}

// New opens a session with the given starting lives (clamped to
// 0..MaxLives), zero score, and no bonus threshold crossed.
func New(lives int) *Session {
	return &Session{
		Lives:              clampLives(lives),
		LastBonusThreshold: -1,
		Status:             StatusIdle,
		pick:               rand.IntN,
	}
}

// Begin prepares an attempt: picks one variant uniformly at random,
// resets the clock to the stage's time limit, and returns the session
// to idle. Cumulative score, lives, and the bonus pointer carry over.
func (s *Session) Begin(stage *Stage) error {
	if stage == nil || len(stage.Variants) == 0 {
		return ErrNoVariants
	}
	s.Stage = stage
	s.Variant = &stage.Variants[s.pick(len(stage.Variants))]
	s.TimeLeft = stage.TimeLimit
	s.Status = StatusIdle
	s.FailureReason = FailureNone
	s.IsCorrect = false
	s.ShowExplanation = false
	s.stageScore = 0
	return nil
}

// Start begins play. No-op unless idle.
func (s *Session) Start() {
	if s.Status == StatusIdle {
		s.Status = StatusPlaying
	}
}

// Pause suspends play with no timer or scoring effect. No-op unless playing.
func (s *Session) Pause() {
	if s.Status == StatusPlaying {
		s.Status = StatusPaused
	}
}

// Resume returns a paused session to play. No-op unless paused.
func (s *Session) Resume() {
	if s.Status == StatusPaused {
		s.Status = StatusPlaying
	}
}

// Tick consumes one second. When the clock would hit zero the attempt
// fails with a timeout instead of going negative; the remaining time is
// never observed as zero mid-play. Ticks outside playing are ignored —
// stray ticks from a scheduler racing a state change are expected.
func (s *Session) Tick() {
	if s.Status != StatusPlaying {
		return
	}
	if s.TimeLeft <= 1 {
		s.TimeLeft = 0
		s.Status = StatusFailed
		s.FailureReason = FailureTimeout
		return
	}
	s.TimeLeft--
}

// HandleCorrect scores a correct tap: the stage score rewards both
// speed and difficulty (timeLeft + level), then the bonus ladder is
// walked from the last crossed threshold. Each newly crossed threshold
// grants one life while below the cap; crossed-but-capped thresholds
// still advance the pointer so they are never re-evaluated. Reports
// whether a life was restored. Does not advance to success — the
// presentation layer ends the attempt explicitly after its explanation
// modal (see End). No-op unless playing.
func (s *Session) HandleCorrect() (lifeRestored bool) {
	if s.Status != StatusPlaying {
		return false
	}
	s.stageScore = s.TimeLeft + s.Stage.Level
	s.SessionScore += s.stageScore

	next := s.LastBonusThreshold + 1
	for next < len(BonusThresholds) && s.SessionScore >= BonusThresholds[next] {
		if s.Lives < MaxLives {
			s.Lives++
			lifeRestored = true
		}
		next++
	}
	s.LastBonusThreshold = next - 1

	s.IsCorrect = true
	s.ShowExplanation = true
	return lifeRestored
}

// HandleWrong spends a life. The attempt only ends when the last life
// is spent (failed/no_lives, immediately); otherwise the same variant
// stays active and the player keeps guessing. No-op unless playing.
func (s *Session) HandleWrong() {
	if s.Status != StatusPlaying {
		return
	}
	s.IsCorrect = false
	s.ShowExplanation = false
	if s.Lives > 0 {
		s.Lives--
	}
	if s.Lives == 0 {
		s.Status = StatusFailed
		s.FailureReason = FailureNoLives
	}
}

// End is the explicit terminal transition, called by the presentation
// layer after any UI sequencing (for example once the explanation modal
// closes after a correct tap). No-op once terminal.
func (s *Session) End(success bool, reason FailureReason) {
	if s.Status.Terminal() {
		return
	}
	if success {
		s.Status = StatusSuccess
		s.FailureReason = FailureNone
		return
	}
	s.Status = StatusFailed
	s.FailureReason = reason
}

// Reset clears everything back to initial defaults. Used only when the
// player deliberately abandons the whole session, not between attempts.
func (s *Session) Reset() {
	*s = Session{
		Lives:              DefaultLives,
		LastBonusThreshold: -1,
		Status:             StatusIdle,
		pick:               s.pick,
	}
}

// Result is the pure projection of a finished (or in-flight) attempt.
type Result struct {
	Success        bool          `json:"success"`
	StageScore     int           `json:"stageScore"`
	RemainingTime  int           `json:"remainingTime"`
	RemainingLives int           `json:"remainingLives"`
	Level          int           `json:"level"`
	FailureReason  FailureReason `json:"failureReason,omitempty"`
}

// Result projects the attempt outcome. The stage score is zero unless
// the attempt succeeded; session score accumulated from earlier
// successful attempts is retained on the session itself.
func (s *Session) Result() Result {
	r := Result{
		Success:        s.Status == StatusSuccess,
		RemainingTime:  s.TimeLeft,
		RemainingLives: s.Lives,
		FailureReason:  s.FailureReason,
	}
	if s.Stage != nil {
		r.Level = s.Stage.Level
	}
	if r.Success {
		r.StageScore = s.stageScore
	}
	return r
}

func clampLives(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxLives {
		return MaxLives
	}
	return n
}
