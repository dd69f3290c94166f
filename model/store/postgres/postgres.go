package postgres

import "strings"

// Postgres implements the model.Model store interface on gorm/postgres.
type Postgres struct{}

// IsDuplicateRecordError - pq unique violations surface as plain errors
// from gorm; matched on the constraint violation message.
func IsDuplicateRecordError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
