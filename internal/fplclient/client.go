package fplclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
)

const (
	requestTimeout = 20 * time.Second
	maxAttempts    = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Client is the live implementation of contract.FPLClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	delay      time.Duration
	retryDelay time.Duration
	statuses   map[string]struct{}

	mu        sync.Mutex
	bootstrap *bootstrapResponse // memoized for the process lifetime
}

var _ contract.FPLClient = (*Client)(nil)

// NewClient builds a client against the given API base URL, keeping only
// players whose availability status is in keepStatuses. An empty list keeps
// the schema.DefaultFetchStatuses codes.
func NewClient(baseURL string, keepStatuses []string) *Client {
	if len(keepStatuses) == 0 {
		keepStatuses = schema.DefaultFetchStatuses
	}
	statuses := make(map[string]struct{}, len(keepStatuses))
	for _, s := range keepStatuses {
		statuses[s] = struct{}{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		userAgent:  "fpltracker/1.0",
		delay:      contract.FetchPolitenessDelay,
		retryDelay: retryBaseDelay,
		statuses:   statuses,
	}
}

// GetPlayers returns the bootstrap player pool with team names and positions
// resolved, filtered to the configured availability statuses.
func (c *Client) GetPlayers(ctx context.Context) ([]schema.Player, error) {
	boot, err := c.getBootstrap(ctx)
	if err != nil {
		return nil, err
	}

	teams := make(map[int]string, len(boot.Teams))
	for _, t := range boot.Teams {
		teams[t.ID] = t.Name
	}

	players := make([]schema.Player, 0, len(boot.Elements))
	for _, e := range boot.Elements {
		if _, ok := c.statuses[e.Status]; !ok {
			continue
		}
		pos, ok := schema.PositionFromElementType(e.ElementType)
		if !ok {
			// element_type 5 is an assistant manager, not a pickable player
			continue
		}
		players = append(players, schema.Player{
			ID:         e.ID,
			FirstName:  e.FirstName,
			SecondName: e.SecondName,
			WebName:    e.WebName,
			TeamID:     e.Team,
			TeamName:   teams[e.Team],
			Position:   pos,
			NowCost:    e.NowCost,
			Status:     e.Status,
		})
	}
	return players, nil
}

// GetCurrentGameweek returns the id of the event flagged is_current, falling
// back to the highest finished event early in a season.
func (c *Client) GetCurrentGameweek(ctx context.Context) (int, error) {
	boot, err := c.getBootstrap(ctx)
	if err != nil {
		return 0, err
	}

	lastFinished := 0
	for _, e := range boot.Events {
		if e.IsCurrent {
			return e.ID, nil
		}
		if e.Finished && e.ID > lastFinished {
			lastFinished = e.ID
		}
	}
	if lastFinished > 0 {
		return lastFinished, nil
	}
	return 0, fmt.Errorf("no current or finished gameweek in bootstrap events")
}

// GetPlayerHistory returns the chronological gameweek history for one player.
// Double gameweeks produce two API rows for the same round; they are merged
// into a single record so each gameweek appears exactly once.
func (c *Client) GetPlayerHistory(ctx context.Context, playerID int) ([]schema.PerformanceRecord, error) {
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delay):
		}
	}

	var resp elementSummaryResponse
	path := "/element-summary/" + strconv.Itoa(playerID) + "/"
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	byRound := make(map[int]*schema.PerformanceRecord, len(resp.History))
	for _, h := range resp.History {
		rec, ok := byRound[h.Round]
		if !ok {
			rec = &schema.PerformanceRecord{PlayerID: playerID, Gameweek: h.Round}
			byRound[h.Round] = rec
		}
		rec.Minutes += h.Minutes
		rec.GoalsScored += h.GoalsScored
		rec.Assists += h.Assists
		rec.CleanSheets += h.CleanSheets
		rec.GoalsConceded += h.GoalsConceded
		rec.Saves += h.Saves
		rec.Tackles += h.Tackles
		rec.Recoveries += h.Recoveries
		rec.CBI += h.ClearancesBlocksInterceptions
		rec.ExpectedGoals += float64(h.ExpectedGoals)
		rec.ExpectedAssists += float64(h.ExpectedAssists)
		rec.ExpectedGoalInvolvements += float64(h.ExpectedGoalInvolvements)
		rec.ExpectedGoalsConceded += float64(h.ExpectedGoalsConceded)
	}

	records := make([]schema.PerformanceRecord, 0, len(byRound))
	for _, rec := range byRound {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Gameweek < records[j].Gameweek
	})
	return records, nil
}

// getBootstrap fetches and memoizes the bootstrap-static payload.
func (c *Client) getBootstrap(ctx context.Context) (*bootstrapResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bootstrap != nil {
		return c.bootstrap, nil
	}

	var resp bootstrapResponse
	if err := c.getJSON(ctx, "/bootstrap-static/", &resp); err != nil {
		return nil, err
	}
	c.bootstrap = &resp
	return c.bootstrap, nil
}

// getJSON performs a GET with retries on transient failures and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.getOnce(ctx, path)
		if err != nil {
			lastErr = err
			if !retryable {
				return err
			}
			continue
		}
		return json.Unmarshal(body, out)
	}
	return fmt.Errorf("GET %s failed after %d attempts: %w", path, maxAttempts, lastErr)
}

// getOnce performs a single GET. The second return reports whether the
// failure is worth retrying.
func (c *Client) getOnce(ctx context.Context, path string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("GET %s returned %d", path, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("GET %s returned %d", path, resp.StatusCode)
	}
}
