package iocache

import (
	"time"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a testify mock over StoreManager, used where tests
// need to hand out canned stores.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

func (m *MockStoreManager) GetResponseStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

func (m *MockStoreManager) GetAnalysisStore() contract.AnalysisStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AnalysisStore)
	return store
}

// MockCacheStore records response-cache calls for assertion in tests.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Int(1), args.Get(2).(int64), args.Error(3)
}

func (m *MockCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAnalysisStore records run-tracking calls for assertion in tests.
type MockAnalysisStore struct {
	mock.Mock
}

var _ contract.AnalysisStore = &MockAnalysisStore{} // Compile-time check

func (m *MockAnalysisStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalysisStore) EndAnalysis(analysisID int64, endTime time.Time, totalPlayers int, gameweek int) error {
	args := m.Called(analysisID, endTime, totalPlayers, gameweek)
	return args.Error(0)
}

func (m *MockAnalysisStore) RecordPlayerSignals(analysisID int64, rows []schema.PlayerAnalysis) error {
	args := m.Called(analysisID, rows)
	return args.Error(0)
}

func (m *MockAnalysisStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.AnalysisRunRecord)
	return runs, args.Error(1)
}

func (m *MockAnalysisStore) GetAllPlayerSignals() ([]schema.PlayerSignalRecord, error) {
	args := m.Called()
	signals, _ := args.Get(0).([]schema.PlayerSignalRecord)
	return signals, args.Error(1)
}

func (m *MockAnalysisStore) GetStatus() (schema.AnalysisStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.AnalysisStatus), args.Error(1)
}

func (m *MockAnalysisStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
