package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lariosa/stockroom-be/internal/models"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Auth routes report errors under "message", product routes under "error".

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// productPayload accepts the full replacement field set. Stock is left
// untyped so both numeric and string JSON values coerce the same way the
// stored value does before the audit comparison.
type productPayload struct {
	Name     string      `json:"name"`
	Unit     string      `json:"unit"`
	Category string      `json:"category"`
	Brand    string      `json:"brand"`
	Stock    interface{} `json:"stock"`
	Status   string      `json:"status"`
	Image    *string     `json:"image"`
}

func (p productPayload) toProduct() models.Product {
	return models.Product{
		Name:     p.Name,
		Unit:     p.Unit,
		Category: p.Category,
		Brand:    p.Brand,
		Stock:    coerceNumber(p.Stock),
		Status:   p.Status,
		Image:    p.Image,
	}
}

func coerceNumber(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return int64(f)
	default:
		return 0
	}
}
