package contract

import (
	"context"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/mock"
)

// --- MockFPLClient Implementation ---

// MockFPLClient is an autogenerated mock type for the FPLClient type.
type MockFPLClient struct {
	mock.Mock
}

var _ FPLClient = &MockFPLClient{} // Compile-time check

// GetPlayers implements the contract.FPLClient interface.
func (m *MockFPLClient) GetPlayers(ctx context.Context) ([]schema.Player, error) {
	ret := m.Called(ctx)
	players, _ := ret.Get(0).([]schema.Player)
	return players, ret.Error(1)
}

// GetCurrentGameweek implements the contract.FPLClient interface.
func (m *MockFPLClient) GetCurrentGameweek(ctx context.Context) (int, error) {
	ret := m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}

// GetPlayerHistory implements the contract.FPLClient interface.
func (m *MockFPLClient) GetPlayerHistory(ctx context.Context, playerID int) ([]schema.PerformanceRecord, error) {
	ret := m.Called(ctx, playerID)
	records, _ := ret.Get(0).([]schema.PerformanceRecord)
	return records, ret.Error(1)
}
