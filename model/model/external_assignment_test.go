package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAssignmentsToProcessNewAssignment(t *testing.T) {
	raw := []RawExternalAssignment{
		{ExternalID: "1", Details: ExternalAssignmentDetails{Name: "PS1"}, ExternalModificationTimestamp: 100},
		{ExternalID: "2", Details: ExternalAssignmentDetails{Name: "PS2"}, ExternalModificationTimestamp: 100},
	}

	toProcess := GetAssignmentsToProcess(raw, map[string]*AssignmentMapping{})
	assert.Len(t, toProcess, 2)
	for i := range toProcess {
		assert.Nil(t, toProcess[i].ExistingInternalID)
	}
	assert.Equal(t, "1", toProcess[0].ExternalID)
	assert.Equal(t, "2", toProcess[1].ExternalID)
}

func TestGetAssignmentsToProcessChangedAssignment(t *testing.T) {
	mappings := map[string]*AssignmentMapping{
		"1": {SourceAccountID: "sa", ExternalID: "1", InternalTaskID: "I1",
			LastExternalModificationTimestamp: 100},
	}

	raw := []RawExternalAssignment{
		{ExternalID: "1", ExternalModificationTimestamp: 150},
	}

	toProcess := GetAssignmentsToProcess(raw, mappings)
	assert.Len(t, toProcess, 1)
	assert.NotNil(t, toProcess[0].ExistingInternalID)
	assert.Equal(t, "I1", *toProcess[0].ExistingInternalID)
}

func TestGetAssignmentsToProcessUnchangedOnEqualTimestamp(t *testing.T) {
	mappings := map[string]*AssignmentMapping{
		"1": {SourceAccountID: "sa", ExternalID: "1", InternalTaskID: "I1",
			LastExternalModificationTimestamp: 100},
	}

	// Equal timestamp is no change. Re-polling unmodified data must not
	// re-surface it.
	raw := []RawExternalAssignment{{ExternalID: "1", ExternalModificationTimestamp: 100}}
	assert.Empty(t, GetAssignmentsToProcess(raw, mappings))

	// Older is no change either.
	raw = []RawExternalAssignment{{ExternalID: "1", ExternalModificationTimestamp: 50}}
	assert.Empty(t, GetAssignmentsToProcess(raw, mappings))
}

func TestGetAssignmentsToProcessMixedBatch(t *testing.T) {
	mappings := map[string]*AssignmentMapping{
		"1": {ExternalID: "1", InternalTaskID: "I1", LastExternalModificationTimestamp: 100},
		"2": {ExternalID: "2", InternalTaskID: "I2", LastExternalModificationTimestamp: 200},
	}

	raw := []RawExternalAssignment{
		{ExternalID: "1", ExternalModificationTimestamp: 150}, // changed
		{ExternalID: "2", ExternalModificationTimestamp: 200}, // unchanged
		{ExternalID: "3", ExternalModificationTimestamp: 100}, // new
	}

	toProcess := GetAssignmentsToProcess(raw, mappings)
	assert.Len(t, toProcess, 2)

	assert.Equal(t, "1", toProcess[0].ExternalID)
	assert.Equal(t, "I1", *toProcess[0].ExistingInternalID)

	assert.Equal(t, "3", toProcess[1].ExternalID)
	assert.Nil(t, toProcess[1].ExistingInternalID)
}
