package postgres

import (
	"net/http"
	"time"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"

	C "taskmate/config"
	"taskmate/model/model"
	U "taskmate/util"
)

func (store *Postgres) CreateSourceAccount(account *model.SourceAccount) int {
	logCtx := log.WithFields(log.Fields{"owner": account.Owner, "source_name": account.SourceName})

	if account.Owner == "" || account.SourceType == "" || account.SourceName == "" ||
		account.ConnectionDetails == nil {
		logCtx.Error("Invalid parameters on create source account.")
		return http.StatusBadRequest
	}

	if account.ID == "" {
		account.ID = U.GetUUID()
	}

	db := C.GetServices().Db
	if err := db.Create(account).Error; err != nil {
		if IsDuplicateRecordError(err) {
			return http.StatusConflict
		}

		logCtx.WithError(err).Error("Failed to create source account.")
		return http.StatusInternalServerError
	}

	return http.StatusCreated
}

func (store *Postgres) GetSourceAccount(id string) (*model.SourceAccount, int) {
	if id == "" {
		return nil, http.StatusBadRequest
	}

	var account model.SourceAccount
	db := C.GetServices().Db
	err := db.Model(model.SourceAccount{}).Where("id = ?", id).Find(&account).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, http.StatusNotFound
		}

		log.WithField("id", id).WithError(err).Error("Failed to get source account.")
		return nil, http.StatusInternalServerError
	}

	return &account, http.StatusFound
}

func (store *Postgres) GetSourceAccountByOwnerAndName(owner, sourceName string) (*model.SourceAccount, int) {
	if owner == "" || sourceName == "" {
		return nil, http.StatusBadRequest
	}

	var account model.SourceAccount
	db := C.GetServices().Db
	err := db.Model(model.SourceAccount{}).Where("owner = ? AND source_name = ?",
		owner, sourceName).Find(&account).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, http.StatusNotFound
		}

		log.WithFields(log.Fields{"owner": owner, "source_name": sourceName}).WithError(err).
			Error("Failed to get source account by owner and name.")
		return nil, http.StatusInternalServerError
	}

	return &account, http.StatusFound
}

func (store *Postgres) GetSourceAccountsByOwner(owner string) ([]model.SourceAccount, int) {
	if owner == "" {
		return nil, http.StatusBadRequest
	}

	var accounts []model.SourceAccount
	db := C.GetServices().Db
	err := db.Model(model.SourceAccount{}).Where("owner = ?", owner).Find(&accounts).Error
	if err != nil {
		log.WithField("owner", owner).WithError(err).Error("Failed to get source accounts for owner.")
		return nil, http.StatusInternalServerError
	}

	return accounts, http.StatusFound
}

func (store *Postgres) GetAllSourceAccounts() ([]model.SourceAccount, int) {
	var accounts []model.SourceAccount
	db := C.GetServices().Db
	if err := db.Model(model.SourceAccount{}).Find(&accounts).Error; err != nil {
		log.WithError(err).Error("Failed to get all source accounts.")
		return nil, http.StatusInternalServerError
	}

	if len(accounts) == 0 {
		return nil, http.StatusNotFound
	}

	return accounts, http.StatusFound
}

func (store *Postgres) UpdateSourceAccountLastPoll(id string, pollTime time.Time) int {
	if id == "" || pollTime.IsZero() {
		return http.StatusBadRequest
	}

	db := C.GetServices().Db
	query := db.Model(model.SourceAccount{}).Where("id = ?", id).
		Update("last_successful_poll", pollTime)
	if query.Error != nil {
		log.WithField("id", id).WithError(query.Error).
			Error("Failed to update last successful poll on source account.")
		return http.StatusInternalServerError
	}

	if query.RowsAffected == 0 {
		return http.StatusNotFound
	}

	return http.StatusAccepted
}

// DeleteSourceAccountWithMappings removes the account and every mapping
// referencing it in one transaction. Mappings go first so an interrupted
// delete can never leave mappings pointing at a missing account.
func (store *Postgres) DeleteSourceAccountWithMappings(id string) int {
	logCtx := log.WithField("id", id)
	if id == "" {
		logCtx.Error("Invalid parameters on delete source account.")
		return http.StatusBadRequest
	}

	db := C.GetServices().Db
	tx := db.Begin()
	if tx.Error != nil {
		logCtx.WithError(tx.Error).Error("Failed to begin delete source account transaction.")
		return http.StatusInternalServerError
	}

	if err := tx.Where("source_account_id = ?", id).
		Delete(model.AssignmentMapping{}).Error; err != nil {
		tx.Rollback()
		logCtx.WithError(err).Error("Failed to delete mappings for source account.")
		return http.StatusInternalServerError
	}

	query := tx.Where("id = ?", id).Delete(model.SourceAccount{})
	if query.Error != nil {
		tx.Rollback()
		logCtx.WithError(query.Error).Error("Failed to delete source account.")
		return http.StatusInternalServerError
	}

	if query.RowsAffected == 0 {
		tx.Rollback()
		return http.StatusNotFound
	}

	if err := tx.Commit().Error; err != nil {
		logCtx.WithError(err).Error("Failed to commit delete source account transaction.")
		return http.StatusInternalServerError
	}

	return http.StatusAccepted
}
