package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vansh565/Nexus-store/apperr"
	"github.com/vansh565/Nexus-store/auth"
	"github.com/vansh565/Nexus-store/models"
	"github.com/vansh565/Nexus-store/testutil"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, auth.CheckPassword(hash, "secret123"))
	assert.False(t, auth.CheckPassword(hash, "secret124"))
	assert.False(t, auth.CheckPassword("not-a-hash", "secret123"))

	_, err = auth.HashPassword("")
	assert.Error(t, err)
}

func TestNewToken_Unique(t *testing.T) {
	assert.NotEqual(t, auth.NewToken(), auth.NewToken())
	assert.Len(t, auth.NewToken(), 36)
}

func TestValidateSession(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	live, err := auth.CreateSession(db, "a@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := auth.CreateSession(db, "a@example.com", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		want     string
		wantKind apperr.Kind
		wantErr  bool
	}{
		{name: "valid", token: live.Token, want: "a@example.com"},
		{name: "empty token", token: "", wantKind: apperr.Unauthenticated, wantErr: true},
		{name: "unknown token", token: "nope", wantKind: apperr.InvalidSession, wantErr: true},
		{name: "expired", token: expired.Token, wantKind: apperr.InvalidSession, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := auth.ValidateSession(ctx, db, tt.token)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, email)
		})
	}
}

func TestRevokeAll(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	first, err := auth.CreateSession(db, "a@example.com", time.Hour)
	require.NoError(t, err)
	second, err := auth.CreateSession(db, "a@example.com", time.Hour)
	require.NoError(t, err)
	other, err := auth.CreateSession(db, "b@example.com", time.Hour)
	require.NoError(t, err)

	require.NoError(t, auth.RevokeAll(db, "a@example.com"))

	for _, token := range []string{first.Token, second.Token} {
		_, err := auth.ValidateSession(ctx, db, token)
		assert.Equal(t, apperr.InvalidSession, apperr.KindOf(err))
	}
	email, err := auth.ValidateSession(ctx, db, other.Token)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", email)
}

func TestRevokeSession(t *testing.T) {
	db := testutil.NewDB(t)

	session, err := auth.CreateSession(db, "a@example.com", time.Hour)
	require.NoError(t, err)

	require.NoError(t, auth.RevokeSession(db, session.Token))
	require.NoError(t, auth.RevokeSession(db, "never-existed"))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestValidateSession_DatabaseError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "sessions"`).WillReturnError(errors.New("connection reset"))

	_, err = auth.ValidateSession(context.Background(), db, "token")
	require.Error(t, err)
	assert.Equal(t, apperr.ServerError, apperr.KindOf(err))
	assert.Equal(t, "Server error", apperr.MessageOf(err))
}
