package memstore

import (
	"net/http"
	"time"

	"taskmate/model/model"
	U "taskmate/util"
)

func (store *MemStore) CreateOrUpdateAssignmentMapping(mapping *model.AssignmentMapping) int {
	if mapping.SourceAccountID == "" || mapping.ExternalID == "" || mapping.InternalTaskID == "" {
		return http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	key := mappingKey{mapping.SourceAccountID, mapping.ExternalID}
	existing, exists := store.assignmentMappings[key]
	if exists {
		existing.InternalTaskID = mapping.InternalTaskID
		existing.LastExternalModificationTimestamp = mapping.LastExternalModificationTimestamp
		existing.UpdatedAt = time.Now()
		store.assignmentMappings[key] = existing
		return http.StatusAccepted
	}

	if mapping.ID == "" {
		mapping.ID = U.GetUUID()
	}
	mapping.CreatedAt = time.Now()
	mapping.UpdatedAt = mapping.CreatedAt
	store.assignmentMappings[key] = *mapping
	return http.StatusCreated
}

func (store *MemStore) GetAssignmentMapping(sourceAccountID, externalID string) (*model.AssignmentMapping, int) {
	if sourceAccountID == "" || externalID == "" {
		return nil, http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	mapping, exists := store.assignmentMappings[mappingKey{sourceAccountID, externalID}]
	if !exists {
		return nil, http.StatusNotFound
	}

	return &mapping, http.StatusFound
}

func (store *MemStore) GetAssignmentMappingsBySource(sourceAccountID string) ([]model.AssignmentMapping, int) {
	if sourceAccountID == "" {
		return nil, http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	mappings := make([]model.AssignmentMapping, 0)
	for key := range store.assignmentMappings {
		if key.sourceAccountID == sourceAccountID {
			mappings = append(mappings, store.assignmentMappings[key])
		}
	}

	return mappings, http.StatusFound
}
