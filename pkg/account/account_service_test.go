package account

import (
	"context"
	"testing"

	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubSignedSums struct {
	sums map[string]decimal.Decimal
}

func (s *stubSignedSums) SignedSumByAccount(ctx context.Context, ownerId string, accountId string) (decimal.Decimal, error) {
	return s.sums[accountId], nil
}

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: "owner-1"})
}

func TestCreateAccount(t *testing.T) {
	ctx := testContext()
	repo := NewStubAccountRepo()
	sums := &stubSignedSums{sums: map[string]decimal.Decimal{}}
	service := NewAccountService(repo, sums, event_bus.NewEventBus())

	created, err := service.Create(ctx, Account{
		Name:            "Main Checking",
		Type:            TypeChecking,
		StartingBalance: decimal.NewFromInt(100),
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Balance.Equal(decimal.NewFromInt(100)))
}

func TestCreateAccount_RejectsInvalidType(t *testing.T) {
	ctx := testContext()
	service := NewAccountService(NewStubAccountRepo(), &stubSignedSums{sums: map[string]decimal.Decimal{}}, event_bus.NewEventBus())

	_, err := service.Create(ctx, Account{Name: "Weird", Type: "bitcoin"})
	assert.Error(t, err)
}

func TestUpdateAccount_RejectsEmptyName(t *testing.T) {
	ctx := testContext()
	repo := NewStubAccountRepo()
	sums := &stubSignedSums{sums: map[string]decimal.Decimal{}}
	service := NewAccountService(repo, sums, event_bus.NewEventBus())

	created, err := service.Create(ctx, Account{Name: "Card", Type: TypeCreditCard})
	assert.NoError(t, err)

	created.Name = ""
	_, err = service.Update(ctx, created)
	assert.Error(t, err)

	got, err := service.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Card", got.Name)
}

func TestGetAccount_DerivesBalanceFromTransactions(t *testing.T) {
	ctx := testContext()
	repo := NewStubAccountRepo()
	sums := &stubSignedSums{sums: map[string]decimal.Decimal{}}
	service := NewAccountService(repo, sums, event_bus.NewEventBus())

	created, err := service.Create(ctx, Account{Name: "Card", Type: TypeCreditCard, StartingBalance: decimal.NewFromInt(500)})
	assert.NoError(t, err)

	// expenses outweigh income by 120
	sums.sums[created.ID] = decimal.NewFromInt(-120)

	got, err := service.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(380)), "expected 380, got %s", got.Balance)
}

func TestDeleteAccount_DoesNotAffectOtherBalances(t *testing.T) {
	ctx := testContext()
	repo := NewStubAccountRepo()
	sums := &stubSignedSums{sums: map[string]decimal.Decimal{}}
	service := NewAccountService(repo, sums, event_bus.NewEventBus())

	first, err := service.Create(ctx, Account{Name: "First", Type: TypeChecking, StartingBalance: decimal.NewFromInt(100)})
	assert.NoError(t, err)
	second, err := service.Create(ctx, Account{Name: "Second", Type: TypeSavings, StartingBalance: decimal.NewFromInt(200)})
	assert.NoError(t, err)
	sums.sums[second.ID] = decimal.NewFromInt(50)

	ok, err := service.Delete(ctx, first.ID)
	assert.NoError(t, err)
	assert.True(t, ok)

	remaining, err := service.Get(ctx, second.ID)
	assert.NoError(t, err)
	assert.True(t, remaining.Balance.Equal(decimal.NewFromInt(250)))
}

func TestDeleteAccount_NotFound(t *testing.T) {
	ctx := testContext()
	service := NewAccountService(NewStubAccountRepo(), &stubSignedSums{sums: map[string]decimal.Decimal{}}, event_bus.NewEventBus())

	ok, err := service.Delete(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}
