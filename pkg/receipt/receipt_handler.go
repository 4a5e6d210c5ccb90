package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/monetapp/moneta/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ReceiptDTO struct {
	ID            string `json:"id"`
	StoreName     string `json:"storeName"`
	Date          string `json:"date,omitempty"`
	Total         string `json:"total"`
	Tax           string `json:"tax"`
	Category      string `json:"category"`
	Notes         string `json:"notes,omitempty"`
	OcrText       string `json:"ocrText,omitempty"`
	TaxDeductible bool   `json:"taxDeductible"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

type ExtractRequest struct {
	Text string `json:"text"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new receipt")
	w.Header().Set("Content-Type", "application/json")

	var dto ReceiptDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec, err := dtoToReceipt(dto)
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
	if err := json.NewEncoder(w).Encode(receiptToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	rec, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrReceiptNotFound) {
		http.Error(w, "Receipt not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(receiptToDTO(rec)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	receipts, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]ReceiptDTO, 0, len(receipts))
	for _, rec := range receipts {
		dtos = append(dtos, receiptToDTO(rec))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var dto ReceiptDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == "" || dto.ID != id {
		http.Error(w, "Invalid receipt id in request body", http.StatusBadRequest)
		return
	}
	rec, err := dtoToReceipt(dto)
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
		http.Error(w, "Receipt not found", http.StatusNotFound)
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
		http.Error(w, "Receipt not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log.Debug("Uploading receipt image")
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	// arg 5 << 20 specifies a maximum upload of 5MB files
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		log.Debugf("File is too large: %v", err)
		http.Error(w, "Image is too large, maximum size is 5MB", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	log.Debugf("Uploaded file: %s (%d bytes)", header.Filename, header.Size)

	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.service.StoreImage(r.Context(), id, image)
	if errors.Is(err, ErrReceiptNotFound) {
		http.Error(w, "Receipt not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(receiptToDTO(rec)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	image, err := h.service.GetImage(r.Context(), id)
	if errors.Is(err, ErrReceiptNotFound) || errors.Is(err, ErrNoImage) {
		http.Error(w, "Receipt image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := w.Write(image); err != nil {
		log.Warnf("failed to write receipt image response: %v", err)
	}
}

// Extract runs the field heuristics over client-submitted OCR text.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := json.NewEncoder(w).Encode(ExtractFields(req.Text)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func receiptToDTO(rec Receipt) ReceiptDTO {
	dto := ReceiptDTO{
		ID:            rec.ID,
		StoreName:     rec.StoreName,
		Total:         rec.Total.StringFixed(2),
		Tax:           rec.Tax.StringFixed(2),
		Category:      rec.Category,
		Notes:         rec.Notes,
		OcrText:       rec.OcrText,
		TaxDeductible: rec.TaxDeductible,
	}
	if !rec.Date.IsZero() {
		dto.Date = rec.Date.Format(transaction.DateFormat)
	}
	if rec.ImagePath != "" {
		dto.ImageURL = fmt.Sprintf("/api/receipt/%s/image", rec.ID)
	}
	return dto
}

func dtoToReceipt(dto ReceiptDTO) (Receipt, error) {
	rec := Receipt{
		ID:            dto.ID,
		StoreName:     dto.StoreName,
		Category:      dto.Category,
		Notes:         dto.Notes,
		OcrText:       dto.OcrText,
		TaxDeductible: dto.TaxDeductible,
	}
	if dto.Date != "" {
		date, err := time.Parse(transaction.DateFormat, dto.Date)
		if err != nil {
			return Receipt{}, errors.New("invalid date, expected format YYYY-MM-DD")
		}
		rec.Date = date
	}
	var err error
	if dto.Total != "" {
		if rec.Total, err = decimal.NewFromString(dto.Total); err != nil {
			return Receipt{}, errors.New("invalid total amount")
		}
	}
	if dto.Tax != "" {
		if rec.Tax, err = decimal.NewFromString(dto.Tax); err != nil {
			return Receipt{}, errors.New("invalid tax amount")
		}
	}
	return rec, nil
}
