package assignment_sync

import (
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	C "taskmate/config"
	"taskmate/integration"
	"taskmate/model/model"
	"taskmate/model/store"
	U "taskmate/util"
)

func TestMain(m *testing.M) {
	C.Init(&C.Configuration{AppName: "assignment_sync_test", Env: C.DEVELOPMENT,
		StoreType: C.StoreTypeMemory})
	os.Exit(m.Run())
}

// fakeConnector implements integration.Connector with scripted results.
type fakeConnector struct {
	validateErr error
	pollResult  []model.RawExternalAssignment
	pollErr     error
}

func (f *fakeConnector) ValidateCredentials(details *model.ConnectionDetails) error {
	return f.validateErr
}

func (f *fakeConnector) PollAssignments(details *model.ConnectionDetails) ([]model.RawExternalAssignment, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return f.pollResult, nil
}

// registerFakeConnector registers the fake under a fresh source type, so
// tests sharing the process never see each other's scripts.
func registerFakeConnector(fake *fakeConnector) string {
	sourceType := "fake_" + U.GetUUID()
	integration.RegisterConnector(sourceType, fake)
	return sourceType
}

func testConnectionDetails() *model.ConnectionDetails {
	return &model.ConnectionDetails{APIToken: "token", BaseURL: "https://platform.example.edu"}
}

func rawAssignment(externalID string, modTimestamp int64) model.RawExternalAssignment {
	return model.RawExternalAssignment{
		ExternalID:                    externalID,
		Details:                       model.ExternalAssignmentDetails{Name: "Assignment " + externalID},
		ExternalModificationTimestamp: modTimestamp,
	}
}

func TestConnectSource(t *testing.T) {
	sourceType := registerFakeConnector(&fakeConnector{})
	owner := U.GetUUID()

	account, err := ConnectSource(owner, sourceType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)
	assert.NotNil(t, account)
	assert.True(t, U.IsValidUUID(account.ID))
	assert.Nil(t, account.LastSuccessfulPoll)

	// Credentials are stored on the account, not returned over JSON.
	details, err := account.GetConnectionDetails()
	assert.Nil(t, err)
	assert.Equal(t, "token", details.APIToken)

	// Same owner and name again.
	_, err = ConnectSource(owner, sourceType, "canvas_main", testConnectionDetails())
	assert.Equal(t, model.ErrDuplicateSource, err)

	// Same name under a different owner is fine.
	_, err = ConnectSource(U.GetUUID(), sourceType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)
}

func TestConnectSourceInvalidCredentialsPersistsNothing(t *testing.T) {
	sourceType := registerFakeConnector(&fakeConnector{validateErr: model.ErrInvalidCredentials})
	owner := U.GetUUID()

	account, err := ConnectSource(owner, sourceType, "canvas_main", testConnectionDetails())
	assert.Equal(t, model.ErrInvalidCredentials, err)
	assert.Nil(t, account)

	_, errCode := store.GetStore().GetSourceAccountByOwnerAndName(owner, "canvas_main")
	assert.Equal(t, http.StatusNotFound, errCode)
}

func TestConnectSourceErrorFolding(t *testing.T) {
	// A connector failure outside the shared vocabulary reads as
	// retriable, never as permanently bad credentials.
	sourceType := registerFakeConnector(&fakeConnector{validateErr: assert.AnError})
	_, err := ConnectSource(U.GetUUID(), sourceType, "canvas_main", testConnectionDetails())
	assert.Equal(t, model.ErrNetwork, err)

	_, err = ConnectSource(U.GetUUID(), "no_such_platform", "canvas_main", testConnectionDetails())
	assert.Equal(t, model.ErrUnsupportedSourceType, err)
}

func TestPollSourceAdvancesLastPollOnlyOnSuccess(t *testing.T) {
	fake := &fakeConnector{pollResult: []model.RawExternalAssignment{rawAssignment("1", 100)}}
	sourceType := registerFakeConnector(fake)

	account, err := ConnectSource(U.GetUUID(), sourceType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)

	raw, err := PollSource(account.ID)
	assert.Nil(t, err)
	assert.Len(t, raw, 1)

	polledAccount, errCode := store.GetStore().GetSourceAccount(account.ID)
	assert.Equal(t, http.StatusFound, errCode)
	assert.NotNil(t, polledAccount.LastSuccessfulPoll)
	firstPoll := *polledAccount.LastSuccessfulPoll

	// Failed poll leaves the watermark where it was.
	fake.pollErr = model.ErrNetwork
	raw, err = PollSource(account.ID)
	assert.Equal(t, model.ErrNetwork, err)
	assert.Nil(t, raw)

	polledAccount, _ = store.GetStore().GetSourceAccount(account.ID)
	assert.Equal(t, firstPoll, *polledAccount.LastSuccessfulPoll)
}

func TestPollSourceErrorTranslation(t *testing.T) {
	fake := &fakeConnector{}
	sourceType := registerFakeConnector(fake)

	account, err := ConnectSource(U.GetUUID(), sourceType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)

	// Credential rejection after connect is a connection health failure.
	fake.pollErr = model.ErrInvalidCredentials
	_, err = PollSource(account.ID)
	assert.Equal(t, model.ErrSourceConnection, err)

	fake.pollErr = model.ErrRateLimit
	_, err = PollSource(account.ID)
	assert.Equal(t, model.ErrRateLimit, err)

	fake.pollErr = assert.AnError
	_, err = PollSource(account.ID)
	assert.Equal(t, model.ErrNetwork, err)

	_, err = PollSource(U.GetUUID())
	assert.Equal(t, model.ErrSourceNotFound, err)
}

// The full cycle: first poll surfaces everything as new, recording a
// sync makes it unchanged, an external edit surfaces exactly that
// assignment again with its mapped internal id.
func TestReconciliationCycle(t *testing.T) {
	fake := &fakeConnector{pollResult: []model.RawExternalAssignment{
		rawAssignment("1", 100), rawAssignment("2", 100)}}
	sourceType := registerFakeConnector(fake)

	account, err := ConnectSource(U.GetUUID(), sourceType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)

	raw, err := PollSource(account.ID)
	assert.Nil(t, err)

	toProcess, err := IdentifyChanges(account.ID, raw)
	assert.Nil(t, err)
	assert.Len(t, toProcess, 2)
	for i := range toProcess {
		assert.Nil(t, toProcess[i].ExistingInternalID)
	}

	assert.Nil(t, RecordSync(account.ID, "1", "I1", 100))
	assert.Nil(t, RecordSync(account.ID, "2", "I2", 100))

	// Unmodified re-poll has nothing to process.
	raw, err = PollSource(account.ID)
	assert.Nil(t, err)
	toProcess, err = IdentifyChanges(account.ID, raw)
	assert.Nil(t, err)
	assert.Empty(t, toProcess)

	// External edit on assignment 1 only.
	fake.pollResult = []model.RawExternalAssignment{
		rawAssignment("1", 150), rawAssignment("2", 100)}

	raw, err = PollSource(account.ID)
	assert.Nil(t, err)
	toProcess, err = IdentifyChanges(account.ID, raw)
	assert.Nil(t, err)
	assert.Len(t, toProcess, 1)
	assert.Equal(t, "1", toProcess[0].ExternalID)
	assert.NotNil(t, toProcess[0].ExistingInternalID)
	assert.Equal(t, "I1", *toProcess[0].ExistingInternalID)

	// Resolving the edit settles the account again, and the internal
	// task keeps its id across the update.
	assert.Nil(t, RecordSync(account.ID, "1", "I1", 150))
	toProcess, err = IdentifyChanges(account.ID, raw)
	assert.Nil(t, err)
	assert.Empty(t, toProcess)

	mapping, errCode := store.GetStore().GetAssignmentMapping(account.ID, "1")
	assert.Equal(t, http.StatusFound, errCode)
	assert.Equal(t, "I1", mapping.InternalTaskID)
	assert.Equal(t, int64(150), mapping.LastExternalModificationTimestamp)
}

func TestRecordSyncUnknownAccount(t *testing.T) {
	assert.Equal(t, model.ErrSourceNotFound, RecordSync(U.GetUUID(), "1", "I1", 100))
}

func TestIdentifyChangesUnknownAccount(t *testing.T) {
	_, err := IdentifyChanges(U.GetUUID(), []model.RawExternalAssignment{rawAssignment("1", 100)})
	assert.Equal(t, model.ErrSourceNotFound, err)
}

func TestDisconnectSource(t *testing.T) {
	sourceType := registerFakeConnector(&fakeConnector{
		pollResult: []model.RawExternalAssignment{rawAssignment("1", 100)}})

	account, err := ConnectSource(U.GetUUID(), sourceType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)
	assert.Nil(t, RecordSync(account.ID, "1", "I1", 100))

	assert.Nil(t, DisconnectSource(account.ID))

	_, errCode := store.GetStore().GetAssignmentMapping(account.ID, "1")
	assert.Equal(t, http.StatusNotFound, errCode)

	// Disconnect is terminal.
	assert.Equal(t, model.ErrSourceNotFound, DisconnectSource(account.ID))
	assert.Equal(t, model.ErrSourceNotFound, RecordSync(account.ID, "1", "I1", 100))
}

func TestRunSyncAll(t *testing.T) {
	healthyType := registerFakeConnector(&fakeConnector{
		pollResult: []model.RawExternalAssignment{rawAssignment("1", 100), rawAssignment("2", 100)}})
	brokenType := registerFakeConnector(&fakeConnector{pollErr: model.ErrNetwork})

	healthy, err := ConnectSource(U.GetUUID(), healthyType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)
	broken, err := ConnectSource(U.GetUUID(), brokenType, "canvas_main", testConnectionDetails())
	assert.Nil(t, err)

	statuses, hasFailure := RunSyncAll(2)
	assert.True(t, hasFailure)

	statusByAccountID := make(map[string]Status)
	for i := range statuses {
		statusByAccountID[statuses[i].SourceAccountID] = statuses[i]
	}

	healthyStatus, exists := statusByAccountID[healthy.ID]
	assert.True(t, exists)
	assert.False(t, healthyStatus.Failure)
	assert.Equal(t, 2, healthyStatus.PendingCount)

	brokenStatus, exists := statusByAccountID[broken.ID]
	assert.True(t, exists)
	assert.True(t, brokenStatus.Failure)
	assert.Equal(t, model.ErrNetwork.Error(), brokenStatus.Message)
}
