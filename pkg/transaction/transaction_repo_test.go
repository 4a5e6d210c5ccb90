package transaction

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monetapp/moneta/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	container, connect := test_utils.TestWithDB()
	db = connect()
	code := m.Run()
	db.Close()
	_ = container.Terminate(context.Background())
	os.Exit(code)
}

func createTestOwner(t *testing.T) string {
	t.Helper()
	ownerId := uuid.NewString()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, email, username, password_hash, role, status)
			VALUES ($1, $2, $3, 'x', 'user', 'approved')`,
		ownerId, ownerId+"@example.com", ownerId)
	require.NoError(t, err)
	return ownerId
}

func storeTestTransaction(t *testing.T, repo *RepoImpl, ownerId string, tx Transaction) Transaction {
	t.Helper()
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	if tx.Category == "" {
		tx.Category = "Uncategorized"
	}
	require.NoError(t, repo.Store(context.Background(), ownerId, tx))
	return tx
}

func TestRepoImpl_StoreAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(db)
	ownerId := createTestOwner(t)

	stored := storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1",
		Payee:     "Grocery Store",
		Category:  "Groceries",
		Amount:    decimal.RequireFromString("42.50"),
		Type:      TypeExpense,
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Notes:     "weekly shop",
	})

	loaded, err := repo.Get(ctx, ownerId, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Payee, loaded.Payee)
	assert.Equal(t, stored.Category, loaded.Category)
	assert.True(t, loaded.Amount.Equal(stored.Amount))
	assert.Equal(t, TypeExpense, loaded.Type)
	assert.Equal(t, "2026-03-15", loaded.Date.Format(DateFormat))
	assert.Equal(t, "weekly shop", loaded.Notes)
}

func TestRepoImpl_GetIsScopedByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(db)
	ownerId := createTestOwner(t)
	otherId := createTestOwner(t)

	stored := storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1",
		Payee:     "Coffee",
		Amount:    decimal.RequireFromString("4.20"),
		Type:      TypeExpense,
		Date:      time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	_, err := repo.Get(ctx, otherId, stored.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestRepoImpl_GetAllFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(db)
	ownerId := createTestOwner(t)

	storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1", Payee: "Grocery Store", Category: "Groceries",
		Amount: decimal.RequireFromString("42.50"), Type: TypeExpense,
		Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-2", Payee: "Acme Corp", Category: "Salary",
		Amount: decimal.RequireFromString("2000.00"), Type: TypeIncome,
		Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1", Payee: "Old Purchase", Category: "Groceries",
		Amount: decimal.RequireFromString("10.00"), Type: TypeExpense,
		Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	})

	all, err := repo.GetAll(ctx, ownerId, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// newest first
	assert.Equal(t, "Grocery Store", all[0].Payee)

	byAccount, err := repo.GetAll(ctx, ownerId, Filter{AccountID: "acc-2"})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, "Acme Corp", byAccount[0].Payee)

	byType, err := repo.GetAll(ctx, ownerId, Filter{Type: TypeExpense})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byRange, err := repo.GetAll(ctx, ownerId, Filter{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)
}

func TestRepoImpl_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(db)
	ownerId := createTestOwner(t)

	stored := storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1", Payee: "Coffee",
		Amount: decimal.RequireFromString("4.20"), Type: TypeExpense,
		Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	})

	stored.Payee = "Espresso Bar"
	stored.Amount = decimal.RequireFromString("5.10")
	updated, err := repo.Update(ctx, ownerId, stored)
	require.NoError(t, err)
	assert.True(t, updated)

	loaded, err := repo.Get(ctx, ownerId, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso Bar", loaded.Payee)
	assert.True(t, loaded.Amount.Equal(decimal.RequireFromString("5.10")))

	deleted, err := repo.Delete(ctx, ownerId, stored.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.Get(ctx, ownerId, stored.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestRepoImpl_Aggregates(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(db)
	ownerId := createTestOwner(t)
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1", Payee: "Acme Corp", Category: "Salary",
		Amount: decimal.RequireFromString("2000.00"), Type: TypeIncome,
		Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1", Payee: "Grocery Store", Category: "Groceries",
		Amount: decimal.RequireFromString("120.00"), Type: TypeExpense,
		Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	// previous month, must not count into March aggregates
	storeTestTransaction(t, repo, ownerId, Transaction{
		AccountID: "acc-1", Payee: "Grocery Store", Category: "Groceries",
		Amount: decimal.RequireFromString("999.00"), Type: TypeExpense,
		Date: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
	})

	signed, err := repo.SignedSumByAccount(ctx, ownerId, "acc-1")
	require.NoError(t, err)
	assert.True(t, signed.Equal(decimal.RequireFromString("881.00")), "got %s", signed)

	spent, err := repo.SumByCategoryAndMonth(ctx, ownerId, "Groceries", TypeExpense, march)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.RequireFromString("120.00")), "got %s", spent)

	income, err := repo.SumByTypeAndMonth(ctx, ownerId, TypeIncome, march)
	require.NoError(t, err)
	assert.True(t, income.Equal(decimal.RequireFromString("2000.00")), "got %s", income)
}
