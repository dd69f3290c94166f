package memstore

import (
	"net/http"
	"time"

	"taskmate/model/model"
	U "taskmate/util"
)

func (store *MemStore) CreateSourceAccount(account *model.SourceAccount) int {
	if account.Owner == "" || account.SourceType == "" || account.SourceName == "" ||
		account.ConnectionDetails == nil {
		return http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	ownerNameKey := mappingKey{account.Owner, account.SourceName}
	if _, exists := store.sourceAccountsByOwnerName[ownerNameKey]; exists {
		return http.StatusConflict
	}

	if account.ID == "" {
		account.ID = U.GetUUID()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt

	store.sourceAccounts[account.ID] = *account
	store.sourceAccountsByOwnerName[ownerNameKey] = account.ID
	return http.StatusCreated
}

func (store *MemStore) GetSourceAccount(id string) (*model.SourceAccount, int) {
	if id == "" {
		return nil, http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	account, exists := store.sourceAccounts[id]
	if !exists {
		return nil, http.StatusNotFound
	}

	return &account, http.StatusFound
}

func (store *MemStore) GetSourceAccountByOwnerAndName(owner, sourceName string) (*model.SourceAccount, int) {
	if owner == "" || sourceName == "" {
		return nil, http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	id, exists := store.sourceAccountsByOwnerName[mappingKey{owner, sourceName}]
	if !exists {
		return nil, http.StatusNotFound
	}

	account := store.sourceAccounts[id]
	return &account, http.StatusFound
}

func (store *MemStore) GetSourceAccountsByOwner(owner string) ([]model.SourceAccount, int) {
	if owner == "" {
		return nil, http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	accounts := make([]model.SourceAccount, 0)
	for id := range store.sourceAccounts {
		if store.sourceAccounts[id].Owner == owner {
			accounts = append(accounts, store.sourceAccounts[id])
		}
	}

	return accounts, http.StatusFound
}

func (store *MemStore) GetAllSourceAccounts() ([]model.SourceAccount, int) {
	store.lock.Lock()
	defer store.lock.Unlock()

	accounts := make([]model.SourceAccount, 0, len(store.sourceAccounts))
	for id := range store.sourceAccounts {
		accounts = append(accounts, store.sourceAccounts[id])
	}

	if len(accounts) == 0 {
		return nil, http.StatusNotFound
	}

	return accounts, http.StatusFound
}

func (store *MemStore) UpdateSourceAccountLastPoll(id string, pollTime time.Time) int {
	if id == "" || pollTime.IsZero() {
		return http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	account, exists := store.sourceAccounts[id]
	if !exists {
		return http.StatusNotFound
	}

	account.LastSuccessfulPoll = &pollTime
	account.UpdatedAt = time.Now()
	store.sourceAccounts[id] = account
	return http.StatusAccepted
}

func (store *MemStore) DeleteSourceAccountWithMappings(id string) int {
	if id == "" {
		return http.StatusBadRequest
	}

	store.lock.Lock()
	defer store.lock.Unlock()

	account, exists := store.sourceAccounts[id]
	if !exists {
		return http.StatusNotFound
	}

	// Mappings first, then the account. Both under the same lock.
	for key := range store.assignmentMappings {
		if key.sourceAccountID == id {
			delete(store.assignmentMappings, key)
		}
	}
	delete(store.sourceAccountsByOwnerName, mappingKey{account.Owner, account.SourceName})
	delete(store.sourceAccounts, id)
	return http.StatusAccepted
}
