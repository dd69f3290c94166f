package model

import (
	"time"

	"taskmate/model/model"
)

// Model - Interface of all methods to be implemented by the stores.
type Model interface {
	// source_account
	CreateSourceAccount(account *model.SourceAccount) int
	GetSourceAccount(id string) (*model.SourceAccount, int)
	GetSourceAccountByOwnerAndName(owner, sourceName string) (*model.SourceAccount, int)
	GetSourceAccountsByOwner(owner string) ([]model.SourceAccount, int)
	GetAllSourceAccounts() ([]model.SourceAccount, int)
	UpdateSourceAccountLastPoll(id string, pollTime time.Time) int
	DeleteSourceAccountWithMappings(id string) int

	// assignment_mapping
	CreateOrUpdateAssignmentMapping(mapping *model.AssignmentMapping) int
	GetAssignmentMapping(sourceAccountID, externalID string) (*model.AssignmentMapping, int)
	GetAssignmentMappingsBySource(sourceAccountID string) ([]model.AssignmentMapping, int)
}
