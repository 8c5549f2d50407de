// Package schema has configs, models and global variables for all parts of fpltracker.
package schema

// PerformanceRecord is a single player-gameweek stat line as returned by the
// FPL element-summary endpoint. Values are never negative in well-formed data.
type PerformanceRecord struct {
	PlayerID                 int
	Gameweek                 int
	Minutes                  int
	GoalsScored              int
	Assists                  int
	CleanSheets              int
	GoalsConceded            int
	Saves                    int
	Tackles                  int
	Recoveries               int
	CBI                      int // clearances, blocks and interceptions
	ExpectedGoals            float64
	ExpectedAssists          float64
	ExpectedGoalInvolvements float64
	ExpectedGoalsConceded    float64
}

// Played reports whether the player saw the pitch in this gameweek.
// Zero-minute records occupy window slots but are excluded from stat sums.
func (r PerformanceRecord) Played() bool {
	return r.Minutes > 0
}

// Player is the bootstrap metadata for a single FPL player.
type Player struct {
	ID         int
	FirstName  string
	SecondName string
	WebName    string
	TeamID     int
	TeamName   string
	Position   Position
	NowCost    int    // price in tenths of a million
	Status     string // a=available, d=doubtful, i=injured, n=on loan, s=suspended, u=unavailable
}

// PlayerSeries pairs a player with their chronological gameweek history.
type PlayerSeries struct {
	Player  Player
	Records []PerformanceRecord
}
