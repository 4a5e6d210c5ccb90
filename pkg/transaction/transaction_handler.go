package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Payee     string `json:"payee"`
	Category  string `json:"category,omitempty"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Notes     string `json:"notes,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tx, err := DTOToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), tx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(TransactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	tx, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrTransactionNotFound) {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(TransactionToDTO(tx)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.service.GetAll(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, TransactionToDTO(tx))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" || dto.ID != id {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}
	tx, err := DTOToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Update(r.Context(), tx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
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
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func filterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		AccountID: q.Get("accountId"),
		Category:  q.Get("category"),
		Type:      TxType(q.Get("type")),
	}
	if from := q.Get("from"); from != "" {
		t, err := time.Parse(DateFormat, from)
		if err != nil {
			return Filter{}, errors.New("invalid from date")
		}
		filter.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(DateFormat, to)
		if err != nil {
			return Filter{}, errors.New("invalid to date")
		}
		filter.To = t
	}
	return filter, nil
}

func TransactionToDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Payee:     tx.Payee,
		Category:  tx.Category,
		Amount:    tx.Amount.StringFixed(2),
		Type:      string(tx.Type),
		Date:      tx.Date.Format(DateFormat),
		Notes:     tx.Notes,
	}
}

func DTOToTransaction(dto TransactionDTO) (Transaction, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Transaction{}, errors.New("invalid amount")
	}
	date, err := time.Parse(DateFormat, dto.Date)
	if err != nil {
		return Transaction{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return Transaction{
		ID:        dto.ID,
		AccountID: dto.AccountID,
		Payee:     dto.Payee,
		Category:  dto.Category,
		Amount:    amount,
		Type:      TxType(dto.Type),
		Date:      date,
		Notes:     dto.Notes,
	}, nil
}
