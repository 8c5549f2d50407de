package core

import (
	"context"
	"os"
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/internal/iocache"
	"github.com/k1lgor/fpl-momentum-tracker/internal/parquet"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// poolClient wires a mock client with a two-player pool and full histories.
func poolClient(gameweeks int) *contract.MockFPLClient {
	mockClient := &contract.MockFPLClient{}
	players := []schema.Player{
		{ID: 2, WebName: "Faller", TeamName: "Arsenal", Position: schema.Forward, NowCost: 85, Status: "a"},
		{ID: 1, WebName: "Riser", TeamName: "Liverpool", Position: schema.Midfielder, NowCost: 129, Status: "a"},
	}
	mockClient.On("GetPlayers", mock.Anything).Return(players, nil)
	mockClient.On("GetCurrentGameweek", mock.Anything).Return(gameweeks, nil)
	mockClient.On("GetPlayerHistory", mock.Anything, 1).Return(risingSeries(1, gameweeks), nil)
	mockClient.On("GetPlayerHistory", mock.Anything, 2).Return(fallingSeries(2, gameweeks), nil)
	return mockClient
}

func fetchConfig(t *testing.T) *contract.Config {
	t.Helper()
	cfg := analysisConfig()
	cfg.BaseURL = "https://fantasy.premierleague.com/api"
	cfg.DataDir = t.TempDir()
	cfg.FetchWorkers = 2
	return cfg
}

func TestFetchPool(t *testing.T) {
	ctx := context.Background()
	mockClient := poolClient(6)
	cfg := fetchConfig(t)

	output, err := fetchPool(ctx, cfg, mockClient, nil)
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.Len(t, output.Players, 2)
	assert.Equal(t, 6, output.Gameweek)
	assert.Zero(t, output.Failed)

	// Worker completion order varies; the pool must come back sorted
	require.Len(t, output.Pool, 2)
	assert.Equal(t, 1, output.Pool[0].Player.ID)
	assert.Equal(t, 2, output.Pool[1].Player.ID)
	assert.Len(t, output.Pool[0].Records, 6)

	mockClient.AssertExpectations(t)
}

func TestFetchPool_PartialFailure(t *testing.T) {
	ctx := context.Background()
	mockClient := &contract.MockFPLClient{}
	players := []schema.Player{
		{ID: 1, WebName: "Riser"},
		{ID: 2, WebName: "Broken"},
	}
	mockClient.On("GetPlayers", mock.Anything).Return(players, nil)
	mockClient.On("GetCurrentGameweek", mock.Anything).Return(6, nil)
	mockClient.On("GetPlayerHistory", mock.Anything, 1).Return(risingSeries(1, 6), nil)
	mockClient.On("GetPlayerHistory", mock.Anything, 2).Return(nil, assert.AnError)

	cfg := fetchConfig(t)
	output, err := fetchPool(ctx, cfg, mockClient, nil)
	require.NoError(t, err)

	// One failed history drops that player and keeps the rest
	assert.Equal(t, 1, output.Failed)
	require.Len(t, output.Pool, 1)
	assert.Equal(t, 1, output.Pool[0].Player.ID)

	mockClient.AssertExpectations(t)
}

func TestFetchPool_BootstrapError(t *testing.T) {
	mockClient := &contract.MockFPLClient{}
	mockClient.On("GetPlayers", mock.Anything).Return(nil, assert.AnError)

	output, err := fetchPool(context.Background(), fetchConfig(t), mockClient, nil)
	assert.Error(t, err)
	assert.Nil(t, output)
	mockClient.AssertExpectations(t)
}

func TestFetchPool_GameweekError(t *testing.T) {
	mockClient := &contract.MockFPLClient{}
	mockClient.On("GetPlayers", mock.Anything).Return([]schema.Player{{ID: 1}}, nil)
	mockClient.On("GetCurrentGameweek", mock.Anything).Return(0, assert.AnError)

	output, err := fetchPool(context.Background(), fetchConfig(t), mockClient, nil)
	assert.Error(t, err)
	assert.Nil(t, output)
	mockClient.AssertExpectations(t)
}

func TestRunAnalysisCore_Tracking(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	mockStore := &iocache.MockAnalysisStore{}
	mockStore.On("BeginAnalysis", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	mockStore.On("RecordPlayerSignals", int64(7), mock.Anything).Return(nil)
	mockStore.On("EndAnalysis", int64(7), mock.AnythingOfType("time.Time"), 1, 6).Return(nil)

	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAnalysisStore").Return(mockStore)

	pool := []schema.PlayerSeries{
		{Player: schema.Player{ID: 1, WebName: "Riser"}, Records: risingSeries(1, 6)},
	}

	result, err := runAnalysisCore(ctx, analysisConfig(), mockMgr, pool)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	mockStore.AssertExpectations(t)
	mockMgr.AssertExpectations(t)
}

func TestRunAnalysisCore_NoTracking(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	pool := []schema.PlayerSeries{
		{Player: schema.Player{ID: 1, WebName: "Riser"}, Records: risingSeries(1, 6)},
	}

	result, err := runAnalysisCore(ctx, analysisConfig(), nil, pool)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)
}

func TestRunAnalysisCore_TrackingFailureIsNonFatal(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	mockStore := &iocache.MockAnalysisStore{}
	mockStore.On("BeginAnalysis", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(0), assert.AnError)

	mockMgr := &iocache.MockStoreManager{}
	mockMgr.On("GetAnalysisStore").Return(mockStore)

	pool := []schema.PlayerSeries{
		{Player: schema.Player{ID: 1, WebName: "Riser"}, Records: risingSeries(1, 6)},
	}

	// A broken tracking store must not break the analysis itself
	result, err := runAnalysisCore(ctx, analysisConfig(), mockMgr, pool)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 1)

	mockStore.AssertNotCalled(t, "RecordPlayerSignals", mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "EndAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteFetch_WritesDatasets(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	mockClient := poolClient(6)
	cfg := fetchConfig(t)

	err := ExecuteFetch(ctx, cfg, mockClient, nil)
	require.NoError(t, err)

	_, err = os.Stat(parquet.PlayersPath(cfg.DataDir))
	assert.NoError(t, err)
	_, err = os.Stat(parquet.HistoryPath(cfg.DataDir))
	assert.NoError(t, err)
}

func TestExecutePipeline_EndToEnd(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	mockClient := poolClient(6)

	cfg := fetchConfig(t)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = cfg.DataDir + "/report.json"

	// fetch writes the datasets
	require.NoError(t, ExecuteFetch(ctx, cfg, mockClient, nil))

	// analyze computes and persists the momentum rows
	require.NoError(t, ExecuteAnalyze(ctx, cfg, nil))
	_, err := os.Stat(parquet.AnalysisPath(cfg.DataDir))
	assert.NoError(t, err)
	_, err = os.Stat(cfg.OutputFile)
	assert.NoError(t, err)

	// report renders straight from the saved analysis
	require.NoError(t, ExecuteReport(ctx, cfg))

	// players lists the fetched pool
	require.NoError(t, ExecutePlayers(ctx, cfg))

	// programmatic accessors see the same data
	rows, err := GetReportRows(cfg)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Riser", rows[0].WebName)
	assert.Equal(t, schema.BuySignal, rows[0].Signal)

	players, err := GetPlayersResults(cfg)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	result, err := GetAnalysisResults(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 6, result.Gameweek)
}

func TestExecuteAnalyze_MissingDataset(t *testing.T) {
	cfg := analysisConfig()
	cfg.DataDir = t.TempDir()

	err := ExecuteAnalyze(context.Background(), cfg, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run 'fpltracker fetch' first")
}

func TestExecuteReport_MissingAnalysis(t *testing.T) {
	cfg := analysisConfig()
	cfg.DataDir = t.TempDir()

	err := ExecuteReport(context.Background(), cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run 'fpltracker analyze' first")
}

func TestExecutePlayers_MissingDataset(t *testing.T) {
	cfg := analysisConfig()
	cfg.DataDir = t.TempDir()

	err := ExecutePlayers(context.Background(), cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "run 'fpltracker fetch' first")
}
