package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/monetapp/moneta/pkg/account"
	"github.com/monetapp/moneta/pkg/budget"
	"github.com/monetapp/moneta/pkg/recurring"
	"github.com/monetapp/moneta/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type BackupDTO struct {
	ExportDate time.Time     `json:"exportDate"`
	Version    string        `json:"version"`
	Data       BackupDataDTO `json:"data"`
}

type BackupDataDTO struct {
	Accounts              []account.AccountDTO         `json:"accounts"`
	Transactions          []transaction.TransactionDTO `json:"transactions"`
	Budgets               []budget.BudgetDTO           `json:"budgets"`
	RecurringTransactions []recurring.RecurringDTO     `json:"recurringTransactions"`
}

type ImportRequest struct {
	Content string `json:"content"`
}

type ImportResponse struct {
	Preview []transaction.TransactionDTO `json:"preview"`
	Errors  []string                     `json:"errors"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting transactions as CSV")

	content, err := h.service.ExportCSV(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if _, err := io.WriteString(w, content); err != nil {
		log.Warnf("failed to write CSV export response: %v", err)
	}
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting full data backup")

	backup, err := h.service.ExportBackup(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := BackupDTO{
		ExportDate: backup.ExportDate,
		Version:    backup.Version,
		Data: BackupDataDTO{
			Accounts:              make([]account.AccountDTO, 0, len(backup.Data.Accounts)),
			Transactions:          make([]transaction.TransactionDTO, 0, len(backup.Data.Transactions)),
			Budgets:               make([]budget.BudgetDTO, 0, len(backup.Data.Budgets)),
			RecurringTransactions: make([]recurring.RecurringDTO, 0, len(backup.Data.RecurringTransactions)),
		},
	}
	for _, acc := range backup.Data.Accounts {
		dto.Data.Accounts = append(dto.Data.Accounts, account.AccountToDTO(acc))
	}
	for _, tx := range backup.Data.Transactions {
		dto.Data.Transactions = append(dto.Data.Transactions, transaction.TransactionToDTO(tx))
	}
	for _, b := range backup.Data.Budgets {
		dto.Data.Budgets = append(dto.Data.Budgets, budget.BudgetToDTO(b))
	}
	for _, rec := range backup.Data.RecurringTransactions {
		dto.Data.RecurringTransactions = append(dto.Data.RecurringTransactions, recurring.RecurringToDTO(rec))
	}

	w.Header().Set("Content-Type", "application/json")
	filename := fmt.Sprintf(`attachment; filename="moneta-backup-%s.json"`, backup.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", filename)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ImportCSV previews an upload, or imports it when confirm=true is set.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	confirm := r.URL.Query().Get("confirm") == "true"

	result, err := h.service.ImportCSV(r.Context(), req.Content, confirm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := ImportResponse{
		Preview: make([]transaction.TransactionDTO, 0, len(result.Preview)),
		Errors:  result.Errors,
	}
	for _, tx := range result.Preview {
		response.Preview = append(response.Preview, transaction.TransactionToDTO(tx))
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
