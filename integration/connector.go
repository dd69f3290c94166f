package integration

import (
	"sync"

	"taskmate/model/model"
)

// Connector is the capability one platform type implements: validate
// credentials at connect time and poll the platform's current list of
// actionable assignments, normalized into the platform independent
// shape. Failures are classified into the model sync error vocabulary.
type Connector interface {
	ValidateCredentials(details *model.ConnectionDetails) error
	PollAssignments(details *model.ConnectionDetails) ([]model.RawExternalAssignment, error)
}

var connectorsLock sync.RWMutex
var connectors = make(map[string]Connector)

// RegisterConnector binds a connector implementation to a source type.
// New platforms are added here, never by branching on the source type
// inside shared sync logic.
func RegisterConnector(sourceType string, connector Connector) {
	connectorsLock.Lock()
	defer connectorsLock.Unlock()

	connectors[sourceType] = connector
}

func GetConnector(sourceType string) (Connector, error) {
	connectorsLock.RLock()
	defer connectorsLock.RUnlock()

	connector, exists := connectors[sourceType]
	if !exists {
		return nil, model.ErrUnsupportedSourceType
	}

	return connector, nil
}
