package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/internal/utils"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: "owner-1"})
}

type fixture struct {
	service *ServiceImpl
	repo    *StubRecurringRepo
	txRepo  *transaction.StubTransactionRepo
	clock   *utils.MockClock
}

func newFixture(now time.Time) fixture {
	txRepo := transaction.NewStubTransactionRepo()
	repo := NewStubRecurringRepo(txRepo)
	clock := &utils.MockClock{FixedNow: now}
	return fixture{
		service: NewRecurringService(repo, event_bus.NewEventBus(), clock),
		repo:    repo,
		txRepo:  txRepo,
		clock:   clock,
	}
}

func rentTemplate() RecurringTransaction {
	return RecurringTransaction{
		AccountID: "acc-1",
		Payee:     "Landlord",
		Category:  "Housing",
		Amount:    decimal.NewFromInt(1200),
		Type:      transaction.TypeExpense,
		Frequency: Monthly,
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateRecurring(t *testing.T) {
	ctx := testContext()
	f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))

	created, err := f.service.Create(ctx, rentTemplate())

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, created.StartDate, created.NextDueDate)
	assert.Nil(t, created.LastGeneratedDate)
}

func TestMarkAsPaid(t *testing.T) {
	ctx := testContext()

	t.Run("creates occurrence dated at due date and advances schedule", func(t *testing.T) {
		f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
		created, err := f.service.Create(ctx, rentTemplate())
		assert.NoError(t, err)

		occurrence, err := f.service.MarkAsPaid(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), occurrence.Date)
		assert.Equal(t, "Landlord", occurrence.Payee)
		assert.Contains(t, occurrence.Notes, "Auto-generated from recurring")

		updated, err := f.repo.Get(ctx, "owner-1", created.ID)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), updated.NextDueDate)
		assert.NotNil(t, updated.LastGeneratedDate)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *updated.LastGeneratedDate)
	})

	t.Run("paused template cannot be paid", func(t *testing.T) {
		f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
		created, err := f.service.Create(ctx, rentTemplate())
		assert.NoError(t, err)
		_, err = f.service.Toggle(ctx, created.ID)
		assert.NoError(t, err)

		_, err = f.service.MarkAsPaid(ctx, created.ID)
		assert.Error(t, err)
	})

	t.Run("stale due date loses the race without generating a duplicate", func(t *testing.T) {
		f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
		created, err := f.service.Create(ctx, rentTemplate())
		assert.NoError(t, err)

		// Simulate a concurrent caller that advanced the schedule after our read.
		stale := created
		_, err = f.service.MarkAsPaid(ctx, created.ID)
		assert.NoError(t, err)

		err = f.repo.GenerateOccurrence(ctx, "owner-1", stale, transaction.Transaction{ID: "dup"}, stale.NextDueDate.AddDate(0, 1, 0))
		assert.ErrorIs(t, err, ErrDueDateMoved)

		transactions, err := f.txRepo.GetAll(ctx, "owner-1", transaction.Filter{})
		assert.NoError(t, err)
		assert.Len(t, transactions, 1)
	})
}

func TestSkipNextOccurrence(t *testing.T) {
	ctx := testContext()
	f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	created, err := f.service.Create(ctx, rentTemplate())
	assert.NoError(t, err)

	skipped, err := f.service.SkipNextOccurrence(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), skipped.NextDueDate)

	// no transaction was created
	transactions, err := f.txRepo.GetAll(ctx, "owner-1", transaction.Filter{})
	assert.NoError(t, err)
	assert.Len(t, transactions, 0)

	// last generated stays untouched
	stored, err := f.repo.Get(ctx, "owner-1", created.ID)
	assert.NoError(t, err)
	assert.Nil(t, stored.LastGeneratedDate)
}

func TestToggle(t *testing.T) {
	ctx := testContext()
	f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
	created, err := f.service.Create(ctx, rentTemplate())
	assert.NoError(t, err)

	paused, err := f.service.Toggle(ctx, created.ID)
	assert.NoError(t, err)
	assert.False(t, paused.Active)

	resumed, err := f.service.Toggle(ctx, created.ID)
	assert.NoError(t, err)
	assert.True(t, resumed.Active)
	assert.Equal(t, created.NextDueDate, resumed.NextDueDate)
}

func TestGenerateDueTransactions(t *testing.T) {
	ctx := testContext()

	t.Run("generates exactly one occurrence per due template", func(t *testing.T) {
		f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))

		rent := rentTemplate()
		_, err := f.service.Create(ctx, rent)
		assert.NoError(t, err)

		gym := rentTemplate()
		gym.Payee = "Gym"
		gym.Frequency = Weekly
		gym.StartDate = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		_, err = f.service.Create(ctx, gym)
		assert.NoError(t, err)

		notYetDue := rentTemplate()
		notYetDue.Payee = "Insurance"
		notYetDue.StartDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		_, err = f.service.Create(ctx, notYetDue)
		assert.NoError(t, err)

		generated, err := f.service.GenerateDueTransactions(ctx)
		assert.NoError(t, err)
		assert.Len(t, generated, 2)
	})

	t.Run("does not backfill multiple missed periods", func(t *testing.T) {
		// The template has been due since May; three monthly periods elapsed.
		f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
		rent := rentTemplate()
		rent.StartDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		created, err := f.service.Create(ctx, rent)
		assert.NoError(t, err)

		generated, err := f.service.GenerateDueTransactions(ctx)
		assert.NoError(t, err)
		assert.Len(t, generated, 1)
		assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), generated[0].Date)

		stored, err := f.repo.Get(ctx, "owner-1", created.ID)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), stored.NextDueDate)

		// A later visit picks up the next stale period, again only one.
		generated, err = f.service.GenerateDueTransactions(ctx)
		assert.NoError(t, err)
		assert.Len(t, generated, 1)
		assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), generated[0].Date)
	})

	t.Run("paused templates are skipped", func(t *testing.T) {
		f := newFixture(time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC))
		created, err := f.service.Create(ctx, rentTemplate())
		assert.NoError(t, err)
		_, err = f.service.Toggle(ctx, created.ID)
		assert.NoError(t, err)

		generated, err := f.service.GenerateDueTransactions(ctx)
		assert.NoError(t, err)
		assert.Len(t, generated, 0)
	})

	t.Run("template due today is generated", func(t *testing.T) {
		f := newFixture(time.Date(2026, 8, 1, 23, 30, 0, 0, time.UTC))
		_, err := f.service.Create(ctx, rentTemplate())
		assert.NoError(t, err)

		generated, err := f.service.GenerateDueTransactions(ctx)
		assert.NoError(t, err)
		assert.Len(t, generated, 1)
	})
}

func TestGetUpcoming(t *testing.T) {
	ctx := testContext()
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	create := func(t *testing.T, f fixture, payee string, due time.Time) RecurringTransaction {
		t.Helper()
		rec := rentTemplate()
		rec.Payee = payee
		rec.StartDate = due
		created, err := f.service.Create(ctx, rec)
		assert.NoError(t, err)
		return created
	}

	t.Run("window is 7 days inclusive of today", func(t *testing.T) {
		f := newFixture(now)
		create(t, f, "today", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
		create(t, f, "window-edge", time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC))
		create(t, f, "past-window", time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC))
		create(t, f, "overdue", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

		upcoming, err := f.service.GetUpcoming(ctx)
		assert.NoError(t, err)

		payees := make([]string, 0, len(upcoming))
		for _, rec := range upcoming {
			payees = append(payees, rec.Payee)
		}
		assert.ElementsMatch(t, []string{"today", "window-edge"}, payees)
	})

	t.Run("paused templates are excluded", func(t *testing.T) {
		f := newFixture(now)
		created := create(t, f, "paused", time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))
		_, err := f.service.Toggle(ctx, created.ID)
		assert.NoError(t, err)

		upcoming, err := f.service.GetUpcoming(ctx)
		assert.NoError(t, err)
		assert.Len(t, upcoming, 0)
	})
}
