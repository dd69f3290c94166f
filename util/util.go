package util

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm/dialects/postgres"
)

func GetUUID() string {
	return uuid.New().String()
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// TimeNowUnixMilli returns current time as milliseconds since epoch,
// the unit used for external modification timestamps.
func TimeNowUnixMilli() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// EncodeStructTypeToPostgresJsonb marshals any struct type into a
// postgres jsonb value for gorm columns.
func EncodeStructTypeToPostgresJsonb(structType interface{}) (*postgres.Jsonb, error) {
	if structType == nil {
		return nil, errors.New("nil struct type on jsonb encode")
	}

	structTypeAsJSON, err := json.Marshal(structType)
	if err != nil {
		return nil, err
	}

	return &postgres.Jsonb{RawMessage: structTypeAsJSON}, nil
}

// DecodePostgresJsonbToStructType unmarshals a jsonb column value into
// the given struct pointer.
func DecodePostgresJsonbToStructType(sourceJsonb *postgres.Jsonb, structType interface{}) error {
	if sourceJsonb == nil {
		return errors.New("nil jsonb on decode")
	}

	return json.Unmarshal(sourceJsonb.RawMessage, structType)
}
