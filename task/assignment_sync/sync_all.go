package assignment_sync

import (
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"taskmate/model/model"
	"taskmate/model/store"
)

// Status is one account's outcome from a RunSyncAll cycle.
type Status struct {
	SourceAccountID string `json:"source_account_id"`
	Owner           string `json:"owner"`
	SourceName      string `json:"source_name"`
	PendingCount    int    `json:"pending_count"`
	Message         string `json:"message,omitempty"`
	Failure         bool   `json:"failure"`
}

type syncAllStatus struct {
	Status     []Status
	HasFailure bool
	Lock       sync.Mutex
}

func (s *syncAllStatus) addStatus(status Status) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.Status = append(s.Status, status)
	if status.Failure {
		s.HasFailure = true
	}
}

func syncWorker(account model.SourceAccount, wg *sync.WaitGroup, syncStatus *syncAllStatus) {
	defer wg.Done()

	status := Status{SourceAccountID: account.ID, Owner: account.Owner,
		SourceName: account.SourceName}

	rawAssignments, err := PollSource(account.ID)
	if err != nil {
		log.WithField("source_account_id", account.ID).WithError(err).
			Error("Poll failed on sync all.")
		status.Message = err.Error()
		status.Failure = true
		syncStatus.addStatus(status)
		return
	}

	assignmentsToProcess, err := IdentifyChanges(account.ID, rawAssignments)
	if err != nil {
		status.Message = err.Error()
		status.Failure = true
		syncStatus.addStatus(status)
		return
	}

	status.PendingCount = len(assignmentsToProcess)
	syncStatus.addStatus(status)
}

// RunSyncAll runs one poll and classify cycle for every connected
// source account, numAccountRoutines accounts at a time. Resolution of
// the pending work stays with the caller; the job reports how much is
// pending per account. One account's failure never stops the others.
func RunSyncAll(numAccountRoutines int) ([]Status, bool) {
	accounts, errCode := store.GetStore().GetAllSourceAccounts()
	if errCode == http.StatusNotFound {
		return []Status{}, false
	}
	if errCode != http.StatusFound {
		log.WithField("err_code", errCode).Error("Failed to get source accounts on sync all.")
		return nil, true
	}

	if numAccountRoutines < 1 {
		numAccountRoutines = 1
	}

	syncStatus := &syncAllStatus{}
	var wg sync.WaitGroup
	for i := range accounts {
		wg.Add(1)
		go syncWorker(accounts[i], &wg, syncStatus)

		if (i+1)%numAccountRoutines == 0 {
			wg.Wait()
		}
	}
	wg.Wait()

	return syncStatus.Status, syncStatus.HasFailure
}
