package stats

import (
	"encoding/json"
	"net/http"

	"github.com/monetapp/moneta/pkg/budget"
	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	NetWorth     string               `json:"netWorth"`
	MonthIncome  string               `json:"monthIncome"`
	MonthExpense string               `json:"monthExpense"`
	Budgets      []budget.ProgressDTO `json:"budgets"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log.Debug("Building dashboard summary")
	w.Header().Set("Content-Type", "application/json")

	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := SummaryDTO{
		NetWorth:     summary.NetWorth.StringFixed(2),
		MonthIncome:  summary.MonthIncome.StringFixed(2),
		MonthExpense: summary.MonthExpense.StringFixed(2),
		Budgets:      make([]budget.ProgressDTO, 0, len(summary.Budgets)),
	}
	for _, p := range summary.Budgets {
		dto.Budgets = append(dto.Budgets, budget.ProgressDTO{
			Budget:     budget.BudgetToDTO(p.Budget),
			Spent:      p.Spent.StringFixed(2),
			Remaining:  p.Remaining.StringFixed(2),
			IsOver:     p.IsOver,
			Percentage: p.Percentage,
		})
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
