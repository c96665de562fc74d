package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: ":memory:",
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func reloadUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Where("id = ?", id).Take(&u).Error)
	return u
}

func reloadPost(t *testing.T, db *gorm.DB, id string) models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, db.Where("id = ?", id).Take(&p).Error)
	return p
}

// befriend runs a full request/accept cycle between a and b.
func befriend(t *testing.T, db *gorm.DB, a, b string) {
	t.Helper()
	svc := NewFriendService(db)
	_, err := svc.SendRequest(context.Background(), a, b)
	require.NoError(t, err)
	_, err = svc.Respond(context.Background(), b, a, models.FriendAccepted)
	require.NoError(t, err)
}

func requireKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, models.IsKind(err, kind), "expected %s, got %v", kind, err)
}
