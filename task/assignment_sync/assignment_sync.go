package assignment_sync

import (
	"errors"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"taskmate/integration"
	"taskmate/model/model"
	"taskmate/model/store"
)

// One reconciliation cycle for one source account is poll, then
// identify changes, then the caller's resolution recorded via
// RecordSync. Cycles for different accounts run in parallel; within one
// account every operation below serializes on the account lock so a
// resolve is never compared against a stale mapping snapshot.
var accountLocks sync.Map

func lockAccount(sourceAccountID string) *sync.Mutex {
	lock, _ := accountLocks.LoadOrStore(sourceAccountID, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()
	return mutex
}

// ConnectSource validates credentials with the platform and persists a
// new source account. The local name collision check runs before the
// remote validation call, so a doomed request never spends an external
// call. Nothing is persisted on any failure path.
func ConnectSource(owner, sourceType, sourceName string,
	details *model.ConnectionDetails) (*model.SourceAccount, error) {

	logCtx := log.WithFields(log.Fields{"owner": owner, "source_name": sourceName,
		"source_type": sourceType})

	_, errCode := store.GetStore().GetSourceAccountByOwnerAndName(owner, sourceName)
	if errCode == http.StatusFound {
		return nil, model.ErrDuplicateSource
	}
	if errCode != http.StatusNotFound {
		logCtx.WithField("err_code", errCode).Error("Failed duplicate check on connect source.")
		return nil, errors.New("failed to check for existing source")
	}

	connector, err := integration.GetConnector(sourceType)
	if err != nil {
		return nil, err
	}

	if err := connector.ValidateCredentials(details); err != nil {
		if err == model.ErrInvalidCredentials {
			return nil, err
		}
		// Anything unrecognized from a connector is retried later, not
		// treated as permanent.
		return nil, model.ErrNetwork
	}

	account := &model.SourceAccount{Owner: owner, SourceType: sourceType, SourceName: sourceName}
	if err := account.SetConnectionDetails(details); err != nil {
		return nil, err
	}

	errCode = store.GetStore().CreateSourceAccount(account)
	if errCode == http.StatusConflict {
		return nil, model.ErrDuplicateSource
	}
	if errCode != http.StatusCreated {
		logCtx.WithField("err_code", errCode).Error("Failed to persist source account on connect.")
		return nil, errors.New("failed to create source account")
	}

	return account, nil
}

// DisconnectSource removes the account and cascades deletion of all its
// mappings. Terminal; there is no re-connect state.
func DisconnectSource(sourceAccountID string) error {
	mutex := lockAccount(sourceAccountID)
	defer mutex.Unlock()

	errCode := store.GetStore().DeleteSourceAccountWithMappings(sourceAccountID)
	if errCode == http.StatusNotFound {
		return model.ErrSourceNotFound
	}
	if errCode != http.StatusAccepted {
		return errors.New("failed to disconnect source account")
	}

	return nil
}

// PollSource fetches the account's current assignment list through its
// connector. lastSuccessfulPoll advances only when the poll fully
// succeeds; failed or partial polls leave it untouched.
func PollSource(sourceAccountID string) ([]model.RawExternalAssignment, error) {
	mutex := lockAccount(sourceAccountID)
	defer mutex.Unlock()

	return pollSource(sourceAccountID)
}

func pollSource(sourceAccountID string) ([]model.RawExternalAssignment, error) {
	logCtx := log.WithField("source_account_id", sourceAccountID)

	account, errCode := store.GetStore().GetSourceAccount(sourceAccountID)
	if errCode == http.StatusNotFound {
		return nil, model.ErrSourceNotFound
	}
	if errCode != http.StatusFound {
		return nil, errors.New("failed to get source account")
	}

	connector, err := integration.GetConnector(account.SourceType)
	if err != nil {
		return nil, err
	}

	details, err := account.GetConnectionDetails()
	if err != nil {
		logCtx.WithError(err).Error("Failed to decode connection details on poll.")
		return nil, err
	}

	rawAssignments, err := connector.PollAssignments(details)
	if err != nil {
		if err == model.ErrInvalidCredentials {
			// The account exists, so a credential rejection here is a
			// discovered connection health failure, not an initial one.
			return nil, model.ErrSourceConnection
		}
		if err == model.ErrRateLimit || err == model.ErrNetwork {
			return nil, err
		}
		return nil, model.ErrNetwork
	}

	errCode = store.GetStore().UpdateSourceAccountLastPoll(sourceAccountID, time.Now())
	if errCode != http.StatusAccepted {
		logCtx.WithField("err_code", errCode).Error("Failed to update last successful poll.")
	}

	return rawAssignments, nil
}

// IdentifyChanges classifies a polled batch against the account's
// current mapping snapshot. Read only; the store is never mutated here.
func IdentifyChanges(sourceAccountID string,
	rawAssignments []model.RawExternalAssignment) ([]model.AssignmentToProcess, error) {

	mutex := lockAccount(sourceAccountID)
	defer mutex.Unlock()

	return identifyChanges(sourceAccountID, rawAssignments)
}

func identifyChanges(sourceAccountID string,
	rawAssignments []model.RawExternalAssignment) ([]model.AssignmentToProcess, error) {

	_, errCode := store.GetStore().GetSourceAccount(sourceAccountID)
	if errCode == http.StatusNotFound {
		return nil, model.ErrSourceNotFound
	}
	if errCode != http.StatusFound {
		return nil, errors.New("failed to get source account")
	}

	mappings, errCode := store.GetStore().GetAssignmentMappingsBySource(sourceAccountID)
	if errCode != http.StatusFound {
		return nil, errors.New("failed to get assignment mappings")
	}

	mappingsByExternalID := make(map[string]*model.AssignmentMapping, len(mappings))
	for i := range mappings {
		mappingsByExternalID[mappings[i].ExternalID] = &mappings[i]
	}

	return model.GetAssignmentsToProcess(rawAssignments, mappingsByExternalID), nil
}

// RecordSync is the caller's attestation that the internal task now
// reflects the external state as of the given timestamp. Idempotent
// upsert on (source account, external id).
func RecordSync(sourceAccountID, externalID, internalTaskID string,
	externalModificationTimestamp int64) error {

	mutex := lockAccount(sourceAccountID)
	defer mutex.Unlock()

	_, errCode := store.GetStore().GetSourceAccount(sourceAccountID)
	if errCode == http.StatusNotFound {
		return model.ErrSourceNotFound
	}
	if errCode != http.StatusFound {
		return errors.New("failed to get source account")
	}

	mapping := &model.AssignmentMapping{
		SourceAccountID:                   sourceAccountID,
		ExternalID:                        externalID,
		InternalTaskID:                    internalTaskID,
		LastExternalModificationTimestamp: externalModificationTimestamp,
	}

	errCode = store.GetStore().CreateOrUpdateAssignmentMapping(mapping)
	if errCode != http.StatusCreated && errCode != http.StatusAccepted {
		return errors.New("failed to record assignment sync")
	}

	return nil
}
