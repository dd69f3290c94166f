package store

import (
	C "taskmate/config"
	"taskmate/model"
	storeMem "taskmate/model/store/memstore"
	storePostgres "taskmate/model/store/postgres"
)

// GetStore - Decides on which model implementation to use by
// configuration and returns the store.
func GetStore() model.Model {
	if C.GetConfig().StoreType == C.StoreTypeMemory {
		return storeMem.GetInstance()
	}

	return &storePostgres.Postgres{}
}
