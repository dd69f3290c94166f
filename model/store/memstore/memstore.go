package memstore

import (
	"sync"

	"taskmate/model/model"
)

type mappingKey struct {
	sourceAccountID string
	externalID      string
}

// MemStore is the in-memory model.Model implementation used in
// development and tests. Same contract as the postgres store,
// guarded by a single mutex.
type MemStore struct {
	lock sync.Mutex

	sourceAccounts map[string]model.SourceAccount
	// Secondary uniqueness index for (owner, source_name).
	sourceAccountsByOwnerName map[mappingKey]string

	assignmentMappings map[mappingKey]model.AssignmentMapping
}

var instance *MemStore
var once sync.Once

// GetInstance returns the process-wide memstore. State survives across
// GetStore calls, like a database connection would.
func GetInstance() *MemStore {
	once.Do(func() {
		instance = &MemStore{
			sourceAccounts:            make(map[string]model.SourceAccount),
			sourceAccountsByOwnerName: make(map[mappingKey]string),
			assignmentMappings:        make(map[mappingKey]model.AssignmentMapping),
		}
	})
	return instance
}
