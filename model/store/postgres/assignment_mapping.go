package postgres

import (
	"net/http"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"

	C "taskmate/config"
	"taskmate/model/model"
	U "taskmate/util"
)

// CreateOrUpdateAssignmentMapping upserts the mapping for
// (source_account_id, external_id). Idempotent: repeating the call with
// the same arguments leaves the same final state. A duplicate on insert
// means a concurrent resolve won the race; last writer wins.
func (store *Postgres) CreateOrUpdateAssignmentMapping(mapping *model.AssignmentMapping) int {
	logCtx := log.WithFields(log.Fields{"source_account_id": mapping.SourceAccountID,
		"external_id": mapping.ExternalID})

	if mapping.SourceAccountID == "" || mapping.ExternalID == "" || mapping.InternalTaskID == "" {
		logCtx.Error("Invalid parameters on create or update assignment mapping.")
		return http.StatusBadRequest
	}

	existing, errCode := store.GetAssignmentMapping(mapping.SourceAccountID, mapping.ExternalID)
	if errCode == http.StatusInternalServerError {
		return errCode
	}

	if errCode == http.StatusFound {
		return store.updateAssignmentMapping(existing.ID, mapping)
	}

	if mapping.ID == "" {
		mapping.ID = U.GetUUID()
	}

	db := C.GetServices().Db
	if err := db.Create(mapping).Error; err != nil {
		if IsDuplicateRecordError(err) {
			existing, errCode = store.GetAssignmentMapping(mapping.SourceAccountID, mapping.ExternalID)
			if errCode != http.StatusFound {
				return http.StatusInternalServerError
			}
			return store.updateAssignmentMapping(existing.ID, mapping)
		}

		logCtx.WithError(err).Error("Failed to create assignment mapping.")
		return http.StatusInternalServerError
	}

	return http.StatusCreated
}

func (store *Postgres) updateAssignmentMapping(id string, mapping *model.AssignmentMapping) int {
	db := C.GetServices().Db
	err := db.Model(model.AssignmentMapping{}).Where("id = ?", id).
		Update(map[string]interface{}{
			"internal_task_id":                     mapping.InternalTaskID,
			"last_external_modification_timestamp": mapping.LastExternalModificationTimestamp,
		}).Error
	if err != nil {
		log.WithField("id", id).WithError(err).Error("Failed to update assignment mapping.")
		return http.StatusInternalServerError
	}

	return http.StatusAccepted
}

func (store *Postgres) GetAssignmentMapping(sourceAccountID, externalID string) (*model.AssignmentMapping, int) {
	if sourceAccountID == "" || externalID == "" {
		return nil, http.StatusBadRequest
	}

	var mapping model.AssignmentMapping
	db := C.GetServices().Db
	err := db.Model(model.AssignmentMapping{}).Where("source_account_id = ? AND external_id = ?",
		sourceAccountID, externalID).Find(&mapping).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, http.StatusNotFound
		}

		log.WithFields(log.Fields{"source_account_id": sourceAccountID, "external_id": externalID}).
			WithError(err).Error("Failed to get assignment mapping.")
		return nil, http.StatusInternalServerError
	}

	return &mapping, http.StatusFound
}

func (store *Postgres) GetAssignmentMappingsBySource(sourceAccountID string) ([]model.AssignmentMapping, int) {
	if sourceAccountID == "" {
		return nil, http.StatusBadRequest
	}

	var mappings []model.AssignmentMapping
	db := C.GetServices().Db
	err := db.Model(model.AssignmentMapping{}).Where("source_account_id = ?",
		sourceAccountID).Find(&mappings).Error
	if err != nil {
		log.WithField("source_account_id", sourceAccountID).WithError(err).
			Error("Failed to get assignment mappings for source account.")
		return nil, http.StatusInternalServerError
	}

	return mappings, http.StatusFound
}
