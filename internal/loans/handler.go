// internal/loans/handler.go
package loans

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookhive/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	session, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		BookIDs []uuid.UUID `json:"book_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.service.BorrowBooks(r.Context(), session.UserID, req.BookIDs)
	if err != nil {
		http.Error(w, err.Error(), borrowStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transactions)
}

func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	transactionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transaction ID", http.StatusBadRequest)
		return
	}

	var req struct {
		BookID uuid.UUID `json:"book_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ReturnBook(r.Context(), transactionID, req.BookID); err != nil {
		http.Error(w, err.Error(), returnStatus(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	loans, err := h.service.UserLoans(r.Context(), session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loans)
}

func borrowStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoBooks):
		return http.StatusBadRequest
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBookUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func returnStatus(err error) int {
	switch {
	case errors.Is(err, ErrTransactionNotFound), errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotBorrowed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
