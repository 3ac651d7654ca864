package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

func TestInitiateConnection_UserToExpert(t *testing.T) {
	db := setupServiceDB(t, "conn_create")
	user := seedUser(t, db, "carol", model.RoleUser)
	expertUser := seedUser(t, db, "drew", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseWeightLoss)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionPending, conn.Status)
	assert.Equal(t, user.ID, conn.UserID)
	assert.Equal(t, expert.ID, conn.ExpertID)
}

func TestInitiateConnection_OnlyUserRole(t *testing.T) {
	db := setupServiceDB(t, "conn_role")
	expertUser := seedUser(t, db, "gail", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseMaintaining)

	_, err := initiateConnection(db, expertUser, expert.ID)
	assert.True(t, util.IsPermissionDenied(err))
}

func TestInitiateConnection_UnknownExpert(t *testing.T) {
	db := setupServiceDB(t, "conn_noexpert")
	user := seedUser(t, db, "hugo", model.RoleUser)

	_, err := initiateConnection(db, user, 4242)
	assert.True(t, util.IsNotFound(err))
}

func TestInitiateConnection_NoDuplicateWhileLive(t *testing.T) {
	db := setupServiceDB(t, "conn_dup")
	user := seedUser(t, db, "ivy", model.RoleUser)
	expertUser := seedUser(t, db, "jay", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseWeightGain)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)

	// Duplicate while PENDING.
	_, err = initiateConnection(db, user, expert.ID)
	assert.True(t, util.IsDuplicateEntry(err))

	// Still a duplicate after acceptance.
	_, err = respondToConnection(db, expertUser, conn.ID, model.ConnectionAccepted)
	require.NoError(t, err)
	_, err = initiateConnection(db, user, expert.ID)
	assert.True(t, util.IsDuplicateEntry(err))
}

func TestInitiateConnection_AllowedAfterRejection(t *testing.T) {
	db := setupServiceDB(t, "conn_retry")
	user := seedUser(t, db, "kai", model.RoleUser)
	expertUser := seedUser(t, db, "lou", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseWeightLoss)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)
	_, err = respondToConnection(db, expertUser, conn.ID, model.ConnectionRejected)
	require.NoError(t, err)

	// A rejected connection is terminal, so a fresh request may be opened.
	again, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)
	assert.NotEqual(t, conn.ID, again.ID)
	assert.Equal(t, model.ConnectionPending, again.Status)
}

func TestRespondToConnection_OnlyTargetExpert(t *testing.T) {
	db := setupServiceDB(t, "conn_respond_perm")
	user := seedUser(t, db, "mel", model.RoleUser)
	expertUser := seedUser(t, db, "ned", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseMaintaining)
	otherExpertUser := seedUser(t, db, "oli", model.RoleExpert)
	seedExpert(t, db, otherExpertUser, model.ExpertiseWeightLoss)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)

	_, err = respondToConnection(db, otherExpertUser, conn.ID, model.ConnectionAccepted)
	assert.True(t, util.IsPermissionDenied(err))

	// The initiating user cannot accept their own request either.
	_, err = respondToConnection(db, user, conn.ID, model.ConnectionAccepted)
	assert.True(t, util.IsPermissionDenied(err))
}

func TestRespondToConnection_TerminalStatesAreFinal(t *testing.T) {
	db := setupServiceDB(t, "conn_terminal")
	user := seedUser(t, db, "pam", model.RoleUser)
	expertUser := seedUser(t, db, "quin", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseWeightGain)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)

	accepted, err := respondToConnection(db, expertUser, conn.ID, model.ConnectionAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionAccepted, accepted.Status)

	_, err = respondToConnection(db, expertUser, conn.ID, model.ConnectionRejected)
	assert.True(t, util.IsInvalidInput(err))
}

func TestRespondToConnection_InvalidStatus(t *testing.T) {
	db := setupServiceDB(t, "conn_badstatus")
	user := seedUser(t, db, "rae", model.RoleUser)
	expertUser := seedUser(t, db, "sam", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseWeightLoss)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)

	_, err = respondToConnection(db, expertUser, conn.ID, "PENDING")
	assert.True(t, util.IsInvalidInput(err))
}

func TestGetConnection_ForeignLooksLikeMissing(t *testing.T) {
	db := setupServiceDB(t, "conn_foreign")
	user := seedUser(t, db, "tia", model.RoleUser)
	expertUser := seedUser(t, db, "uma", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseMaintaining)
	stranger := seedUser(t, db, "vic", model.RoleUser)

	conn, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)

	_, err = getConnection(db, stranger, conn.ID)
	assert.True(t, util.IsNotFound(err))

	// Both parties can still see it.
	got, err := getConnection(db, user, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)
	got, err = getConnection(db, expertUser, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, conn.ID, got.ID)
}

func TestListConnections_RoleSpecificViews(t *testing.T) {
	db := setupServiceDB(t, "conn_list")
	user := seedUser(t, db, "wes", model.RoleUser)
	expertUser := seedUser(t, db, "xan", model.RoleExpert)
	expert := seedExpert(t, db, expertUser, model.ExpertiseWeightLoss)
	otherUser := seedUser(t, db, "yve", model.RoleUser)

	_, err := initiateConnection(db, user, expert.ID)
	require.NoError(t, err)
	_, err = initiateConnection(db, otherUser, expert.ID)
	require.NoError(t, err)

	mine, err := listConnections(db, user)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	incoming, err := listConnections(db, expertUser)
	require.NoError(t, err)
	assert.Len(t, incoming, 2)
}
