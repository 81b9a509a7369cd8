package achievement

import (
	"context"
	"time"

	"github.com/focushub/focushub/internal/domain/shared"
	"github.com/focushub/focushub/internal/domain/stats"
	"github.com/focushub/focushub/pkg/timeutil"
)

// EvalContext carries everything an evaluator may consult: the stats
// snapshot taken at the start of the check pass, the session history reader
// for time-windowed requirements, and the evaluation instant.
type EvalContext struct {
	Stats    *stats.UserStats
	Sessions stats.SessionHistory
	Now      time.Time
}

// Evaluator decides whether one definition's requirement is satisfied.
type Evaluator func(ctx context.Context, ec EvalContext, def *Definition) (bool, error)

// counterField extracts the stats counter a simple threshold requirement
// compares against.
type counterField func(s *stats.UserStats) int

// counterFields drives both requirement evaluation and display progress for
// the plain >= threshold requirement types. Time-windowed and calendar
// types have no numeric progress and are absent.
var counterFields = map[RequirementType]counterField{
	RequirementSessionsCompleted: func(s *stats.UserStats) int { return s.TotalSessionsCompleted },
	RequirementTotalFocusMinutes: func(s *stats.UserStats) int { return s.TotalFocusMinutes },
	RequirementStreakDays:        func(s *stats.UserStats) int { return s.CurrentStreak },
	RequirementTasksCompleted:    func(s *stats.UserStats) int { return s.TotalTasksCompleted },
	RequirementLevelReached:      func(s *stats.UserStats) int { return s.Level },
}

type monthDay struct {
	Month time.Month
	Day   int
}

// specialDates maps achievement codes to the single calendar day on which
// they unlock.
var specialDates = map[string]monthDay{
	"CHRISTMAS_SPIRIT": {time.December, 25},
	"SPOOKY_FOCUS":     {time.October, 31},
	"NEW_YEAR_FOCUS":   {time.January, 1},
}

// evaluators is the dispatch table from requirement type to predicate. New
// requirement types register here instead of growing a conditional.
var evaluators = map[RequirementType]Evaluator{
	RequirementSessionsCompleted: counterEvaluator,
	RequirementTotalFocusMinutes: counterEvaluator,
	RequirementStreakDays:        counterEvaluator,
	RequirementTasksCompleted:    counterEvaluator,
	RequirementLevelReached:      counterEvaluator,
	RequirementMorningSessions:   hourRangeEvaluator(0, timeutil.MorningEndHour),
	RequirementEveningSessions:   hourRangeEvaluator(timeutil.AfternoonEndHour, 24),
	RequirementSpecialDate:       specialDateEvaluator,
	RequirementPerfectWeek:       perfectWeekEvaluator,
}

// Evaluate runs the definition's requirement against the context. Unknown
// requirement types yield shared.ErrUnknownRequirement; callers treat that
// as not satisfied.
func Evaluate(ctx context.Context, ec EvalContext, def *Definition) (bool, error) {
	eval, ok := evaluators[def.RequirementType]
	if !ok {
		return false, shared.ErrUnknownRequirement
	}
	return eval(ctx, ec, def)
}

// CurrentProgress returns the stats value a counter requirement measures,
// or 0 for types with no numeric progress.
func CurrentProgress(s *stats.UserStats, def *Definition) int {
	if s == nil {
		return 0
	}
	if field, ok := counterFields[def.RequirementType]; ok {
		return field(s)
	}
	return 0
}

func counterEvaluator(_ context.Context, ec EvalContext, def *Definition) (bool, error) {
	return counterFields[def.RequirementType](ec.Stats) >= def.RequirementValue, nil
}

// hourRangeEvaluator counts completed sessions whose local start hour falls
// in [fromHour, toHour) over all time.
func hourRangeEvaluator(fromHour, toHour int) Evaluator {
	return func(ctx context.Context, ec EvalContext, def *Definition) (bool, error) {
		count, err := ec.Sessions.CountByHourRange(ctx, ec.Stats.UserID, time.Time{}, ec.Now, fromHour, toHour)
		if err != nil {
			return false, err
		}
		return count >= def.RequirementValue, nil
	}
}

func specialDateEvaluator(_ context.Context, ec EvalContext, def *Definition) (bool, error) {
	date, ok := specialDates[def.Code]
	if !ok {
		return false, nil
	}
	return ec.Now.Month() == date.Month && ec.Now.Day() == date.Day, nil
}

// perfectWeekEvaluator would require a 100% completion rate over the last
// seven days. The completion-rate window query does not exist yet, so the
// predicate is never satisfied.
// TODO: evaluate completion rate over the trailing 7 days once session
// history grows a per-day completed/interrupted breakdown query.
func perfectWeekEvaluator(_ context.Context, _ EvalContext, _ *Definition) (bool, error) {
	return false, nil
}
