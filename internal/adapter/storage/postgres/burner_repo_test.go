package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBurner(owner uuid.UUID, addr string, created time.Time) domain.BurnerWallet {
	return domain.BurnerWallet{
		Address:             addr,
		EncryptedPrivateKey: "aabbcc:ddeeff",
		OwnerUserID:         owner,
		Status:              domain.BurnerStatusActive,
		CreatedAt:           created,
	}
}

func burnerColumnNames() []string {
	return []string{"address", "encrypted_pk", "owner_user_id", "status", "created_at", "swept_at", "sweep_tx_hash"}
}

func addBurnerRow(rows *pgxmock.Rows, b domain.BurnerWallet) *pgxmock.Rows {
	return rows.AddRow(
		b.Address, b.EncryptedPrivateKey, b.OwnerUserID, string(b.Status),
		b.CreatedAt, b.SweptAt, b.SweepTxHash,
	)
}

func TestBurnerRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := NewBurnerRepo(mock)
	repo.now = func() time.Time { return now }
	owner := uuid.New()

	mock.ExpectExec("INSERT INTO burner_wallets").
		WithArgs("0xaaaa000000000000000000000000000000000001", "enc", owner, "active", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	b, err := repo.Create(context.Background(), owner, "0xaaaa000000000000000000000000000000000001", "enc")
	require.NoError(t, err)
	assert.Equal(t, domain.BurnerStatusActive, b.Status)
	assert.Equal(t, owner, b.OwnerUserID)
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_Create_DuplicateAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectExec("INSERT INTO burner_wallets").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err = repo.Create(context.Background(), uuid.New(), "0xaaaa000000000000000000000000000000000001", "enc")
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateAddress), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_Create_StorageError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectExec("INSERT INTO burner_wallets").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.Create(context.Background(), uuid.New(), "0xaaaa000000000000000000000000000000000001", "enc")
	assert.True(t, apperror.HasCode(err, apperror.CodeStorageUnavailable))
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_ListActiveByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)
	owner := uuid.New()
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	first := newTestBurner(owner, "0xaaaa000000000000000000000000000000000001", t0)
	second := newTestBurner(owner, "0xaaaa000000000000000000000000000000000002", t0.Add(time.Minute))

	rows := pgxmock.NewRows(burnerColumnNames())
	addBurnerRow(rows, first)
	addBurnerRow(rows, second)

	mock.ExpectQuery("SELECT .+ FROM burner_wallets\\s+WHERE owner_user_id = \\$1 AND status = 'active'\\s+ORDER BY created_at ASC, address ASC").
		WithArgs(owner).
		WillReturnRows(rows)

	got, err := repo.ListActiveByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.Address, got[0].Address)
	assert.Equal(t, second.Address, got[1].Address)
	assert.Equal(t, "aabbcc:ddeeff", got[0].EncryptedPrivateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_ListActiveByOwner_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)
	owner := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM burner_wallets").
		WithArgs(owner).
		WillReturnRows(pgxmock.NewRows(burnerColumnNames()))

	got, err := repo.ListActiveByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_ListAllActiveWithOwnerAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)
	t0 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	withWallet := newTestBurner(uuid.New(), "0xaaaa000000000000000000000000000000000001", t0)
	noWallet := newTestBurner(uuid.New(), "0xaaaa000000000000000000000000000000000002", t0)

	rows := pgxmock.NewRows(append(burnerColumnNames(), "main_wallet_address")).
		AddRow(withWallet.Address, withWallet.EncryptedPrivateKey, withWallet.OwnerUserID, "active",
			withWallet.CreatedAt, withWallet.SweptAt, withWallet.SweepTxHash, "0x5555000000000000000000000000000000000005").
		AddRow(noWallet.Address, noWallet.EncryptedPrivateKey, noWallet.OwnerUserID, "active",
			noWallet.CreatedAt, noWallet.SweptAt, noWallet.SweepTxHash, "")

	mock.ExpectQuery("FROM burner_wallets b\\s+LEFT JOIN users u ON u.id = b.owner_user_id\\s+WHERE b.status = 'active'").
		WillReturnRows(rows)

	got, err := repo.ListAllActiveWithOwnerAddress(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "0x5555000000000000000000000000000000000005", got[0].OwnerMainAddress)
	assert.Equal(t, withWallet.OwnerUserID, got[0].Burner.OwnerUserID)
	assert.Equal(t, "", got[1].OwnerMainAddress)
	assert.True(t, got[1].Burner.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_ListAllActiveWithOwnerAddress_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectQuery("FROM burner_wallets b").WillReturnError(errors.New("too many connections"))

	_, err = repo.ListAllActiveWithOwnerAddress(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeStorageUnavailable))
}

func TestBurnerRepo_MarkSwept(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectExec("UPDATE burner_wallets\\s+SET status = 'swept'.+WHERE address = \\$1 AND status = 'active'").
		WithArgs("0xaaaa000000000000000000000000000000000001", "0xfeed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.MarkSwept(context.Background(), "0xaaaa000000000000000000000000000000000001", "0xfeed")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_MarkSwept_AlreadySweptIsNoop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectExec("UPDATE burner_wallets").
		WithArgs("0xaaaa000000000000000000000000000000000001", "0xfeed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.MarkSwept(context.Background(), "0xaaaa000000000000000000000000000000000001", "0xfeed"))
}

func TestBurnerRepo_MarkSwept_StorageError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectExec("UPDATE burner_wallets").
		WithArgs("0xaaaa000000000000000000000000000000000001", "0xfeed").
		WillReturnError(errors.New("read-only transaction"))

	err = repo.MarkSwept(context.Background(), "0xaaaa000000000000000000000000000000000001", "0xfeed")
	assert.True(t, apperror.HasCode(err, apperror.CodeStorageUnavailable))
	assert.ErrorContains(t, err, "read-only transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_GetByAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)
	b := newTestBurner(uuid.New(), "0xaaaa000000000000000000000000000000000001", time.Now().UTC().Truncate(time.Microsecond))
	sweptAt := b.CreatedAt.Add(time.Hour)
	hash := "0xfeed"
	b.Status = domain.BurnerStatusSwept
	b.SweptAt = &sweptAt
	b.SweepTxHash = &hash

	mock.ExpectQuery("SELECT .+ FROM burner_wallets WHERE address = \\$1").
		WithArgs(b.Address).
		WillReturnRows(addBurnerRow(pgxmock.NewRows(burnerColumnNames()), b))

	got, err := repo.GetByAddress(context.Background(), b.Address)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.BurnerStatusSwept, got.Status)
	require.NotNil(t, got.SweepTxHash)
	assert.Equal(t, "0xfeed", *got.SweepTxHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBurnerRepo_GetByAddress_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM burner_wallets WHERE address").
		WithArgs("0xaaaa000000000000000000000000000000000009").
		WillReturnRows(pgxmock.NewRows(burnerColumnNames()))

	got, err := repo.GetByAddress(context.Background(), "0xaaaa000000000000000000000000000000000009")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestBurnerRepo_CountByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBurnerRepo(mock)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM burner_wallets GROUP BY status").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("active", int64(3)).
			AddRow("swept", int64(12)))

	got, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got[domain.BurnerStatusActive])
	assert.Equal(t, int64(12), got[domain.BurnerStatusSwept])
}
