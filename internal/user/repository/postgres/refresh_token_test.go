package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meryemgkrt/food-ordering/pkg/database"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

func newTestRefreshTokenRepo(t *testing.T) (*RefreshTokenRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewRefreshTokenRepository(mock), mock
}

func TestRefreshTokenRepository_Create(t *testing.T) {
	repo, mock := newTestRefreshTokenRepo(t)

	expiresAt := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(pgxmock.AnyArg(), "user-001", "tokenhash", expiresAt, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), "user-001", "tokenhash", expiresAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_GetByHash_Success(t *testing.T) {
	repo, mock := newTestRefreshTokenRepo(t)

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE token_hash").
		WithArgs("tokenhash").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at",
		}).AddRow("tok-001", "user-001", "tokenhash", now.Add(24*time.Hour), now, nil))

	token, err := repo.GetByHash(context.Background(), "tokenhash")
	require.NoError(t, err)
	assert.Equal(t, "user-001", token.UserID)
	assert.Nil(t, token.RevokedAt)
}

func TestRefreshTokenRepository_GetByHash_NotFound(t *testing.T) {
	repo, mock := newTestRefreshTokenRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE token_hash").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at",
		}))

	_, err := repo.GetByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRefreshTokenRepository_Revoke(t *testing.T) {
	repo, mock := newTestRefreshTokenRepo(t)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(pgxmock.AnyArg(), "tokenhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Revoke(context.Background(), "tokenhash")
	assert.NoError(t, err)
}

func TestRefreshTokenRepository_RevokeByUserID(t *testing.T) {
	repo, mock := newTestRefreshTokenRepo(t)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(pgxmock.AnyArg(), "user-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	err := repo.RevokeByUserID(context.Background(), "user-001")
	assert.NoError(t, err)
}
