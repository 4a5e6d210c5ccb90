package transfer

import (
	"context"
	"fmt"

	"github.com/monetapp/moneta/internal/utils"
	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/budget"
	"github.com/monetapp/moneta/pkg/recurring"
	"github.com/monetapp/moneta/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ExportCSV(ctx context.Context) (string, error)
	ExportBackup(ctx context.Context) (Backup, error)
	ImportCSV(ctx context.Context, raw string, confirm bool) (ImportResult, error)
}

// ServiceImpl composes the per-collection services so that export and import
// run through the same ownership and validation rules as the regular API.
type ServiceImpl struct {
	accounts     account.Service
	transactions transaction.Service
	budgets      budget.Service
	recurring    recurring.Service
	clock        utils.Clock
}

func NewTransferService(
	accounts account.Service,
	transactions transaction.Service,
	budgets budget.Service,
	recurring recurring.Service,
	clock utils.Clock,
) *ServiceImpl {
	return &ServiceImpl{
		accounts:     accounts,
		transactions: transactions,
		budgets:      budgets,
		recurring:    recurring,
		clock:        clock,
	}
}

func (s *ServiceImpl) ExportCSV(ctx context.Context) (string, error) {
	transactions, err := s.transactions.GetAll(ctx, transaction.Filter{})
	if err != nil {
		return "", fmt.Errorf("failed to load transactions: %w", err)
	}
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load accounts: %w", err)
	}
	return ExportCSV(transactions, accounts)
}

func (s *ServiceImpl) ExportBackup(ctx context.Context) (Backup, error) {
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	transactions, err := s.transactions.GetAll(ctx, transaction.Filter{})
	if err != nil {
		return Backup{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	budgets, err := s.budgets.GetAll(ctx)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to load budgets: %w", err)
	}
	recurringTransactions, err := s.recurring.GetAll(ctx)
	if err != nil {
		return Backup{}, fmt.Errorf("failed to load recurring transactions: %w", err)
	}
	return NewBackup(s.clock.Now().UTC(), BackupData{
		Accounts:              accounts,
		Transactions:          transactions,
		Budgets:               budgets,
		RecurringTransactions: recurringTransactions,
	}), nil
}

// ImportCSV parses the raw CSV and, when confirm is set, inserts the valid
// rows one by one. A failed insert is reported and skipped, rows stored
// before it stay stored.
func (s *ServiceImpl) ImportCSV(ctx context.Context, raw string, confirm bool) (ImportResult, error) {
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	result := ParseCSV(raw, accounts)
	if !confirm {
		return result, nil
	}

	imported := make([]transaction.Transaction, 0, len(result.Preview))
	for i, tx := range result.Preview {
		stored, err := s.transactions.Create(ctx, tx)
		if err != nil {
			log.Warnf("failed to import transaction %q: %v", tx.Payee, err)
			result.Errors = append(result.Errors, fmt.Sprintf("Import failed for row %d (%s): %v", i+1, tx.Payee, err))
			continue
		}
		imported = append(imported, stored)
	}
	result.Preview = imported
	return result, nil
}
