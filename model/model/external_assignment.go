package model

// ExternalAssignmentDetails is the normalized, platform independent
// shape of one assignment's details. Description may be a URL back to
// the item rather than prose, depending on the platform.
type ExternalAssignmentDetails struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Milliseconds since epoch. Nil when the platform reports no due time.
	DueDate *int64 `json:"due_date,omitempty"`
}

// RawExternalAssignment is one assignment as returned by a connector
// poll. Transient, never persisted.
type RawExternalAssignment struct {
	ExternalID                    string                    `json:"external_id"`
	Details                       ExternalAssignmentDetails `json:"details"`
	ExternalModificationTimestamp int64                     `json:"external_modification_timestamp"`
}

// AssignmentToProcess is a classified raw assignment awaiting the
// caller's resolution. ExistingInternalID carries the mapped internal
// task id for changed assignments and is nil for new ones.
type AssignmentToProcess struct {
	RawExternalAssignment
	ExistingInternalID *string `json:"existing_internal_id,omitempty"`
}

// GetAssignmentsToProcess classifies a polled batch against the current
// mapping state for the source account, keyed by external id. New
// assignments and assignments with a strictly newer external
// modification timestamp are returned; everything else is unchanged.
// Equal timestamps are unchanged on purpose, so re-polling unmodified
// data never re-surfaces it as pending. Pure, no store access.
func GetAssignmentsToProcess(rawAssignments []RawExternalAssignment,
	mappingsByExternalID map[string]*AssignmentMapping) []AssignmentToProcess {

	assignmentsToProcess := make([]AssignmentToProcess, 0)
	for i := range rawAssignments {
		mapping, exists := mappingsByExternalID[rawAssignments[i].ExternalID]
		if !exists {
			assignmentsToProcess = append(assignmentsToProcess,
				AssignmentToProcess{RawExternalAssignment: rawAssignments[i]})
			continue
		}

		if rawAssignments[i].ExternalModificationTimestamp > mapping.LastExternalModificationTimestamp {
			internalID := mapping.InternalTaskID
			assignmentsToProcess = append(assignmentsToProcess,
				AssignmentToProcess{RawExternalAssignment: rawAssignments[i], ExistingInternalID: &internalID})
		}
	}

	return assignmentsToProcess
}
