package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lariosa/stockroom-be/internal/auth"
	"github.com/lariosa/stockroom-be/internal/services"
)

// ProductHandler handles HTTP requests for products, inventory history and
// bulk import.
type ProductHandler struct {
	service   services.ProductServiceProvider
	inventory services.InventoryServiceProvider
	importer  services.ImportServiceProvider
	uploadDir string
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductServiceProvider, inventory services.InventoryServiceProvider, importer services.ImportServiceProvider, uploadDir string) *ProductHandler {
	return &ProductHandler{service: service, inventory: inventory, importer: importer, uploadDir: uploadDir}
}

// List handles the paginated, sortable product listing.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 5
	}

	result, err := h.service.ListProducts(services.ListOptions{
		Page:      page,
		Limit:     limit,
		SortField: r.URL.Query().Get("sortField"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Search returns all products whose name contains the fragment.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.SearchProducts(r.URL.Query().Get("name"))
	if err != nil {
		log.Error().Err(err).Msg("Product search failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// Create inserts a new product and returns the stored row.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.CreateProduct(payload.toProduct())
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create product")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Update replaces all product fields and returns the stored row. A stock
// change is audited with the acting user's email from the token claims.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	changedBy := "system"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.Email != "" {
		changedBy = claims.Email
	}

	product, err := h.service.UpdateProduct(id, payload.toProduct(), changedBy)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Delete removes a product. Deleting an absent id still reports success.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, parseErr := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if parseErr == nil {
		if err := h.service.DeleteProduct(id); err != nil {
			log.Error().Err(err).Int64("product_id", id).Msg("Failed to delete product")
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// History returns a product's audit rows, newest first. An unknown product
// yields an empty array.
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	logs, err := h.inventory.GetHistory(id)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("History fetch error")
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, logs)
}

// Import accepts a multipart upload in field "file", stages it under the
// upload directory and bulk-inserts the parsed rows. The staged file is
// removed only after a successful parse pass.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "CSV file required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		log.Error().Err(err).Str("dir", h.uploadDir).Msg("Failed to create upload directory")
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	stagedPath := filepath.Join(h.uploadDir, uuid.New().String()+filepath.Ext(header.Filename))
	staged, err := os.Create(stagedPath)
	if err != nil {
		log.Error().Err(err).Str("path", stagedPath).Msg("Failed to create staged upload")
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		log.Error().Err(err).Str("path", stagedPath).Msg("Failed to write staged upload")
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	staged.Close()

	added, err := h.importer.ImportProducts(stagedPath)
	if err != nil {
		log.Error().Err(err).Str("path", stagedPath).Msg("Import failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := os.Remove(stagedPath); err != nil {
		log.Warn().Err(err).Str("path", stagedPath).Msg("Failed to remove staged upload")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "CSV imported",
		"added":   added,
	})
}
