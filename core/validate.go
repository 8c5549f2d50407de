package core

import (
	"errors"
	"fmt"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

// Sentinel errors for per-series input validation. A series failing any of
// these is skipped; the rest of the batch continues.
var (
	ErrNegativeValue     = errors.New("negative stat value")
	ErrNonChronological  = errors.New("gameweeks out of order")
	ErrDuplicateGameweek = errors.New("duplicate gameweek")
)

// ValidateSeries checks a player's gameweek history before aggregation.
// Records must be strictly increasing by gameweek and carry no negative
// counting stats or expected values.
func ValidateSeries(records []schema.PerformanceRecord) error {
	prev := 0
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return fmt.Errorf("gameweek %d: %w", r.Gameweek, err)
		}
		if i > 0 {
			switch {
			case r.Gameweek == prev:
				return fmt.Errorf("gameweek %d: %w", r.Gameweek, ErrDuplicateGameweek)
			case r.Gameweek < prev:
				return fmt.Errorf("gameweek %d after %d: %w", r.Gameweek, prev, ErrNonChronological)
			}
		}
		prev = r.Gameweek
	}
	return nil
}

// validateRecord rejects negative values in a single stat line.
func validateRecord(r schema.PerformanceRecord) error {
	ints := [...]struct {
		name  string
		value int
	}{
		{"minutes", r.Minutes},
		{"goals_scored", r.GoalsScored},
		{"assists", r.Assists},
		{"clean_sheets", r.CleanSheets},
		{"goals_conceded", r.GoalsConceded},
		{"saves", r.Saves},
		{"tackles", r.Tackles},
		{"recoveries", r.Recoveries},
		{"clearances_blocks_interceptions", r.CBI},
	}
	for _, f := range ints {
		if f.value < 0 {
			return fmt.Errorf("%s is %d: %w", f.name, f.value, ErrNegativeValue)
		}
	}

	floats := [...]struct {
		name  string
		value float64
	}{
		{"expected_goals", r.ExpectedGoals},
		{"expected_assists", r.ExpectedAssists},
		{"expected_goal_involvements", r.ExpectedGoalInvolvements},
		{"expected_goals_conceded", r.ExpectedGoalsConceded},
	}
	for _, f := range floats {
		if f.value < 0 {
			return fmt.Errorf("%s is %.2f: %w", f.name, f.value, ErrNegativeValue)
		}
	}
	return nil
}
