// Package fplclient talks to the public Fantasy Premier League API.
package fplclient

import (
	"fmt"
	"strconv"
	"strings"
)

// FloatString decodes FPL numeric fields that arrive as JSON strings, like
// "expected_goals": "0.75". Some seasons shipped comma decimal separators,
// so "0,75" is accepted too. Empty and null values decode to 0.
type FloatString float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FloatString) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid float string %q: %w", s, err)
	}
	*f = FloatString(v)
	return nil
}

// bootstrapResponse is the subset of bootstrap-static/ needed by the tracker.
type bootstrapResponse struct {
	Events   []eventEntry   `json:"events"`
	Teams    []teamEntry    `json:"teams"`
	Elements []elementEntry `json:"elements"`
}

type eventEntry struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	Finished  bool `json:"finished"`
}

type teamEntry struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type elementEntry struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	WebName     string `json:"web_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`
	Status      string `json:"status"`
}

// elementSummaryResponse is the subset of element-summary/{id}/ needed
// by the tracker. Past seasons and fixtures are ignored.
type elementSummaryResponse struct {
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	Round                         int         `json:"round"`
	Minutes                       int         `json:"minutes"`
	GoalsScored                   int         `json:"goals_scored"`
	Assists                       int         `json:"assists"`
	CleanSheets                   int         `json:"clean_sheets"`
	GoalsConceded                 int         `json:"goals_conceded"`
	Saves                         int         `json:"saves"`
	Tackles                       int         `json:"tackles"`
	Recoveries                    int         `json:"recoveries"`
	ClearancesBlocksInterceptions int         `json:"clearances_blocks_interceptions"`
	ExpectedGoals                 FloatString `json:"expected_goals"`
	ExpectedAssists               FloatString `json:"expected_assists"`
	ExpectedGoalInvolvements      FloatString `json:"expected_goal_involvements"`
	ExpectedGoalsConceded         FloatString `json:"expected_goals_conceded"`
}
