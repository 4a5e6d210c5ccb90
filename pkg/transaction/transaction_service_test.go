package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: "owner-1"})
}

func newTestService(repo Repo) *ServiceImpl {
	return NewTransactionService(repo, event_bus.NewEventBus())
}

func validTransaction() Transaction {
	return Transaction{
		AccountID: "acc-1",
		Payee:     "Grocery Store",
		Category:  "Groceries",
		Amount:    decimal.NewFromFloat(42.50),
		Type:      TypeExpense,
		Date:      time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateTransaction(t *testing.T) {
	ctx := testContext()

	t.Run("valid transaction gets an id and defaults", func(t *testing.T) {
		repo := NewStubTransactionRepo()
		service := newTestService(repo)

		tx := validTransaction()
		tx.Category = ""
		created, err := service.Create(ctx, tx)

		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Uncategorized", created.Category)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		service := newTestService(NewStubTransactionRepo())

		tx := validTransaction()
		tx.Amount = decimal.Zero
		_, err := service.Create(ctx, tx)
		assert.Error(t, err)

		tx.Amount = decimal.NewFromInt(-5)
		_, err = service.Create(ctx, tx)
		assert.Error(t, err)
	})

	t.Run("empty payee is rejected", func(t *testing.T) {
		service := newTestService(NewStubTransactionRepo())

		tx := validTransaction()
		tx.Payee = ""
		_, err := service.Create(ctx, tx)
		assert.Error(t, err)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		service := newTestService(NewStubTransactionRepo())

		tx := validTransaction()
		tx.Type = "transfer"
		_, err := service.Create(ctx, tx)
		assert.Error(t, err)
	})

	t.Run("missing user in context fails", func(t *testing.T) {
		service := newTestService(NewStubTransactionRepo())

		_, err := service.Create(context.Background(), validTransaction())
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestDeleteTransaction_RecomputesAccountBalance(t *testing.T) {
	ctx := testContext()
	repo := NewStubTransactionRepo()
	service := newTestService(repo)

	income := validTransaction()
	income.Type = TypeIncome
	income.Amount = decimal.NewFromInt(100)
	createdIncome, err := service.Create(ctx, income)
	assert.NoError(t, err)

	expense := validTransaction()
	expense.Amount = decimal.NewFromInt(30)
	_, err = service.Create(ctx, expense)
	assert.NoError(t, err)

	sum, err := repo.SignedSumByAccount(ctx, "owner-1", "acc-1")
	assert.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(70)))

	ok, err := service.Delete(ctx, createdIncome.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	sum, err = repo.SignedSumByAccount(ctx, "owner-1", "acc-1")
	assert.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(-30)))
}

func TestGetAllTransactions_Filtering(t *testing.T) {
	ctx := testContext()
	repo := NewStubTransactionRepo()
	service := newTestService(repo)

	groceries := validTransaction()
	_, err := service.Create(ctx, groceries)
	assert.NoError(t, err)

	salary := validTransaction()
	salary.Payee = "Employer"
	salary.Category = "Salary"
	salary.Type = TypeIncome
	salary.Date = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = service.Create(ctx, salary)
	assert.NoError(t, err)

	byType, err := service.GetAll(ctx, Filter{Type: TypeIncome})
	assert.NoError(t, err)
	assert.Len(t, byType, 1)
	assert.Equal(t, "Employer", byType[0].Payee)

	byRange, err := service.GetAll(ctx, Filter{
		From: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	assert.Len(t, byRange, 1)
	assert.Equal(t, "Groceries", byRange[0].Category)
}

func TestEventBusNotified(t *testing.T) {
	ctx := testContext()
	bus := event_bus.NewEventBus()
	service := NewTransactionService(NewStubTransactionRepo(), bus)

	var got []event_bus.CollectionChanged
	bus.Subscribe(event_bus.TransactionsChanged, func(e event_bus.Event) error {
		if payload, ok := e.Data.(event_bus.CollectionChanged); ok {
			got = append(got, payload)
		}
		return nil
	})

	_, err := service.Create(ctx, validTransaction())
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "owner-1", got[0].OwnerID)
	assert.Equal(t, "transactions", got[0].Collection)
}
