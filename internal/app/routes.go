package app

import (
	"github.com/gorilla/mux"
	"github.com/monetapp/moneta/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Auth
	r.HandleFunc("/api/auth/signup", deps.UserHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.UserHandler.Login).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")

	// Admin user management
	r.HandleFunc("/api/admin/user/pending", requireAdmin(deps.UserHandler.PendingUsers)).Methods("GET")
	r.HandleFunc("/api/admin/user/{id}/approve", requireAdmin(deps.UserHandler.Approve)).Methods("POST")
	r.HandleFunc("/api/admin/user/{id}/reject", requireAdmin(deps.UserHandler.Reject)).Methods("POST")

	// Accounts
	r.HandleFunc("/api/account", deps.AccountHandler.Create).Methods("POST")
	r.HandleFunc("/api/account", deps.AccountHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/account/{id}", deps.AccountHandler.Get).Methods("GET")
	r.HandleFunc("/api/account/{id}", deps.AccountHandler.Update).Methods("PUT")
	r.HandleFunc("/api/account/{id}", deps.AccountHandler.Delete).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Get).Methods("GET")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budget/progress", deps.BudgetHandler.GetProgress).Methods("GET")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Recurring transactions
	r.HandleFunc("/api/recurring", deps.RecurringHandler.Create).Methods("POST")
	r.HandleFunc("/api/recurring", deps.RecurringHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/recurring/upcoming", deps.RecurringHandler.Upcoming).Methods("GET")
	r.HandleFunc("/api/recurring/generate-due", deps.RecurringHandler.GenerateDue).Methods("POST")
	r.HandleFunc("/api/recurring/{id}", deps.RecurringHandler.Update).Methods("PUT")
	r.HandleFunc("/api/recurring/{id}", deps.RecurringHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/recurring/{id}/pay", deps.RecurringHandler.MarkAsPaid).Methods("POST")
	r.HandleFunc("/api/recurring/{id}/skip", deps.RecurringHandler.Skip).Methods("POST")
	r.HandleFunc("/api/recurring/{id}/toggle", deps.RecurringHandler.Toggle).Methods("POST")

	// Receipts
	r.HandleFunc("/api/receipt", deps.ReceiptHandler.Create).Methods("POST")
	r.HandleFunc("/api/receipt", deps.ReceiptHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/receipt/extract", deps.ReceiptHandler.Extract).Methods("POST")
	r.HandleFunc("/api/receipt/{id}", deps.ReceiptHandler.Get).Methods("GET")
	r.HandleFunc("/api/receipt/{id}", deps.ReceiptHandler.Update).Methods("PUT")
	r.HandleFunc("/api/receipt/{id}", deps.ReceiptHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/receipt/{id}/image", deps.ReceiptHandler.UploadImage).Methods("PUT")
	r.HandleFunc("/api/receipt/{id}/image", deps.ReceiptHandler.GetImage).Methods("GET")

	// Import / export
	r.HandleFunc("/api/transfer/export/csv", deps.TransferHandler.ExportCSV).Methods("GET")
	r.HandleFunc("/api/transfer/export/backup", deps.TransferHandler.ExportBackup).Methods("GET")
	r.HandleFunc("/api/transfer/import/csv", deps.TransferHandler.ImportCSV).Methods("POST")

	// Change feed + dashboard
	r.HandleFunc("/api/changes", deps.ChangeHandler.GetRevision).Methods("GET")
	r.HandleFunc("/api/stats/summary", deps.StatsHandler.GetSummary).Methods("GET")
}
