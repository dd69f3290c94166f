package model

import (
	"errors"
	"time"

	"github.com/jinzhu/gorm/dialects/postgres"

	U "taskmate/util"
)

// Source types with a registered connector.
const (
	SourceTypeCanvas = "Canvas"
)

// ConnectionDetails is the platform specific credential bundle for one
// source account. For Canvas this is an API token and the instance URL.
type ConnectionDetails struct {
	APIToken string `json:"api_token"`
	BaseURL  string `json:"base_url"`
}

// SourceAccount is one user's stored connection to an external
// academic platform.
type SourceAccount struct {
	ID         string `gorm:"primary_key:true" json:"id"`
	Owner      string `gorm:"not null;unique_index:uidx_owner_source_name" json:"owner"`
	SourceType string `gorm:"not null" json:"source_type"`
	SourceName string `gorm:"not null;unique_index:uidx_owner_source_name" json:"source_name"`
	// Credentials never leave this subsystem. Not serialized on any response.
	ConnectionDetails *postgres.Jsonb `json:"-"`
	// Advanced only after a fully successful poll.
	LastSuccessfulPoll *time.Time `json:"last_successful_poll,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (account *SourceAccount) GetConnectionDetails() (*ConnectionDetails, error) {
	if account.ConnectionDetails == nil {
		return nil, errors.New("source account without connection details")
	}

	var details ConnectionDetails
	if err := U.DecodePostgresJsonbToStructType(account.ConnectionDetails, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

func (account *SourceAccount) SetConnectionDetails(details *ConnectionDetails) error {
	if details == nil || details.APIToken == "" || details.BaseURL == "" {
		return errors.New("invalid connection details")
	}

	detailsJsonb, err := U.EncodeStructTypeToPostgresJsonb(details)
	if err != nil {
		return err
	}

	account.ConnectionDetails = detailsJsonb
	return nil
}
