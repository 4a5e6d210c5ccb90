package recurring

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RecurringDTO struct {
	ID                string `json:"id"`
	AccountID         string `json:"accountId"`
	Payee             string `json:"payee"`
	Category          string `json:"category,omitempty"`
	Amount            string `json:"amount"`
	Type              string `json:"type"`
	Frequency         string `json:"frequency"`
	StartDate         string `json:"startDate"`
	NextDueDate       string `json:"nextDueDate,omitempty"`
	LastGeneratedDate string `json:"lastGeneratedDate,omitempty"`
	Active            bool   `json:"active"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new recurring transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto RecurringDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec, err := dtoToRecurring(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(RecurringToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	recs, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRecurringList(w, recs)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var dto RecurringDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" || dto.ID != id {
		http.Error(w, "Invalid recurring transaction id in request body", http.StatusBadRequest)
		return
	}
	rec, err := dtoToRecurring(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Update(r.Context(), rec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Recurring transaction not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Recurring transaction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	occurrence, err := h.service.MarkAsPaid(r.Context(), id)
	if errors.Is(err, ErrRecurringNotFound) {
		http.Error(w, "Recurring transaction not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrDueDateMoved) {
		http.Error(w, "Occurrence was already generated", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transaction.TransactionToDTO(occurrence)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	rec, err := h.service.SkipNextOccurrence(r.Context(), id)
	if errors.Is(err, ErrRecurringNotFound) {
		http.Error(w, "Recurring transaction not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrDueDateMoved) {
		http.Error(w, "Due date was already advanced", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(RecurringToDTO(rec)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	rec, err := h.service.Toggle(r.Context(), id)
	if errors.Is(err, ErrRecurringNotFound) {
		http.Error(w, "Recurring transaction not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(RecurringToDTO(rec)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GenerateDue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	generated, err := h.service.GenerateDueTransactions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]transaction.TransactionDTO, 0, len(generated))
	for _, tx := range generated {
		dtos = append(dtos, transaction.TransactionToDTO(tx))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	recs, err := h.service.GetUpcoming(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRecurringList(w, recs)
}

func writeRecurringList(w http.ResponseWriter, recs []RecurringTransaction) {
	dtos := make([]RecurringDTO, 0, len(recs))
	for _, rec := range recs {
		dtos = append(dtos, RecurringToDTO(rec))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func RecurringToDTO(rec RecurringTransaction) RecurringDTO {
	dto := RecurringDTO{
		ID:          rec.ID,
		AccountID:   rec.AccountID,
		Payee:       rec.Payee,
		Category:    rec.Category,
		Amount:      rec.Amount.StringFixed(2),
		Type:        string(rec.Type),
		Frequency:   string(rec.Frequency),
		StartDate:   rec.StartDate.Format(transaction.DateFormat),
		NextDueDate: rec.NextDueDate.Format(transaction.DateFormat),
		Active:      rec.Active,
	}
	if rec.LastGeneratedDate != nil {
		dto.LastGeneratedDate = rec.LastGeneratedDate.Format(transaction.DateFormat)
	}
	return dto
}

func dtoToRecurring(dto RecurringDTO) (RecurringTransaction, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return RecurringTransaction{}, errors.New("invalid amount")
	}
	startDate, err := time.Parse(transaction.DateFormat, dto.StartDate)
	if err != nil {
		return RecurringTransaction{}, errors.New("invalid start date, expected YYYY-MM-DD")
	}
	return RecurringTransaction{
		ID:        dto.ID,
		AccountID: dto.AccountID,
		Payee:     dto.Payee,
		Category:  dto.Category,
		Amount:    amount,
		Type:      transaction.TxType(dto.Type),
		Frequency: Frequency(dto.Frequency),
		StartDate: startDate,
	}, nil
}
