package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/codercomm/models"
)

func TestFriendRequestAcceptFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := createUser(t, db, "ann")
	b := createUser(t, db, "bob")
	svc := NewFriendService(db)

	req, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendPending, req.Status)
	require.NotNil(t, req.From)
	require.NotNil(t, req.To)
	assert.Equal(t, a.ID, req.From.ID)
	assert.Equal(t, b.ID, req.To.ID)

	incoming, err := svc.ListIncoming(ctx, b.ID, NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, incoming.Items, 1)
	outgoing, err := svc.ListOutgoing(ctx, a.ID, NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, outgoing.Items, 1)
	assert.Equal(t, req.ID, outgoing.Items[0].ID)

	accepted, err := svc.Respond(ctx, b.ID, a.ID, models.FriendAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.FriendAccepted, accepted.Status)

	friendsOfA, err := svc.ListFriends(ctx, a.ID, "", NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, friendsOfA.Items, 1)
	assert.Equal(t, b.ID, friendsOfA.Items[0].ID)

	friendsOfB, err := svc.ListFriends(ctx, b.ID, "", NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, friendsOfB.Items, 1)
	assert.Equal(t, a.ID, friendsOfB.Items[0].ID)

	assert.EqualValues(t, 1, reloadUser(t, db, a.ID).FriendCount)
	assert.EqualValues(t, 1, reloadUser(t, db, b.ID).FriendCount)

	incoming, err = svc.ListIncoming(ctx, b.ID, NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, incoming.Items)
}

func TestFriendRequestGuards(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := createUser(t, db, "ann")
	b := createUser(t, db, "bob")
	svc := NewFriendService(db)

	_, err := svc.SendRequest(ctx, a.ID, a.ID)
	requireKind(t, err, models.KindValidation)

	_, err = svc.SendRequest(ctx, a.ID, models.NewID())
	requireKind(t, err, models.KindNotFound)

	_, err = svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	// one relationship per unordered pair
	_, err = svc.SendRequest(ctx, a.ID, b.ID)
	requireKind(t, err, models.KindConflict)
	_, err = svc.SendRequest(ctx, b.ID, a.ID)
	requireKind(t, err, models.KindConflict)

	// only the recipient may respond
	_, err = svc.Respond(ctx, a.ID, b.ID, models.FriendAccepted)
	requireKind(t, err, models.KindUnauthorized)

	_, err = svc.Respond(ctx, b.ID, a.ID, models.FriendStatus("blocked"))
	requireKind(t, err, models.KindValidation)

	_, err = svc.Respond(ctx, b.ID, a.ID, models.FriendAccepted)
	require.NoError(t, err)
	_, err = svc.Respond(ctx, b.ID, a.ID, models.FriendDeclined)
	requireKind(t, err, models.KindConflict)

	_, err = svc.SendRequest(ctx, b.ID, a.ID)
	requireKind(t, err, models.KindConflict)
}

func TestDeclinedRequestIsNotResurrected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := createUser(t, db, "ann")
	b := createUser(t, db, "bob")
	svc := NewFriendService(db)

	_, err := svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)
	declined, err := svc.Respond(ctx, b.ID, a.ID, models.FriendDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.FriendDeclined, declined.Status)

	_, err = svc.SendRequest(ctx, a.ID, b.ID)
	requireKind(t, err, models.KindConflict)
	_, err = svc.Cancel(ctx, a.ID, b.ID)
	requireKind(t, err, models.KindConflict)
	_, err = svc.Remove(ctx, a.ID, b.ID)
	requireKind(t, err, models.KindNotFound)

	assert.EqualValues(t, 0, reloadUser(t, db, a.ID).FriendCount)
}

func TestCancelFriendRequest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := createUser(t, db, "ann")
	b := createUser(t, db, "bob")
	svc := NewFriendService(db)

	_, err := svc.Cancel(ctx, a.ID, b.ID)
	requireKind(t, err, models.KindNotFound)

	_, err = svc.SendRequest(ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, a.ID)
	requireKind(t, err, models.KindUnauthorized)

	cancelled, err := svc.Cancel(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendPending, cancelled.Status)

	var n int64
	require.NoError(t, db.Model(&models.Friend{}).Count(&n).Error)
	assert.Zero(t, n)

	// the pair is free again after a cancel
	_, err = svc.SendRequest(ctx, b.ID, a.ID)
	require.NoError(t, err)
}

func TestRemoveFriend(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := createUser(t, db, "ann")
	b := createUser(t, db, "bob")
	c := createUser(t, db, "cat")
	svc := NewFriendService(db)

	_, err := svc.SendRequest(ctx, a.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.Remove(ctx, a.ID, c.ID)
	requireKind(t, err, models.KindNotFound)

	befriend(t, db, a.ID, b.ID)
	// either party may remove
	_, err = svc.Remove(ctx, b.ID, a.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 0, reloadUser(t, db, a.ID).FriendCount)
	assert.EqualValues(t, 0, reloadUser(t, db, b.ID).FriendCount)
	friends, err := svc.ListFriends(ctx, a.ID, "", NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, friends.Items)
	assert.Zero(t, friends.Count)
}

func TestListFriendsFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	me := createUser(t, db, "me")
	names := []string{"alice", "alfred", "bob"}
	for _, n := range names {
		u := createUser(t, db, n)
		befriend(t, db, me.ID, u.ID)
	}
	svc := NewFriendService(db)

	all, err := svc.ListFriends(ctx, me.ID, "", NewPage(1, 2))
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.EqualValues(t, 3, all.Count)
	assert.Equal(t, 2, all.TotalPages)

	al, err := svc.ListFriends(ctx, me.ID, "al", NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, al.Items, 2)
	assert.Equal(t, "alfred", al.Items[0].Name)
	assert.Equal(t, "alice", al.Items[1].Name)

	ids, err := FriendIDs(db, me.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}
