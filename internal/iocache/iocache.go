// Package iocache is for caching I/O calls.
package iocache

import (
	"sync"

	"github.com/k1lgor/fpl-momentum-tracker/internal/contract"
)

// CacheStoreManager manages the response cache and analysis store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	response     contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.StoreManager = &CacheStoreManager{} // Compile-time check

// GetResponseStore returns the API response CacheStore.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.response
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
