package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lariosa/stockroom-be/internal/models"
	"github.com/lariosa/stockroom-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ErrProductNotFound is returned when a referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// allowedSortFields is the allow-list for the listing ORDER BY clause. The
// sort field is spliced into the SQL text, so anything outside this set
// silently falls back to "id".
var allowedSortFields = map[string]bool{
	"id":       true,
	"name":     true,
	"category": true,
	"brand":    true,
	"stock":    true,
}

// ListOptions carries the listing query parameters.
type ListOptions struct {
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	ListProducts(opts ListOptions) (models.ProductPage, error)
	SearchProducts(name string) ([]models.Product, error)
	GetProductByID(id int64) (models.Product, error)
	CreateProduct(p models.Product) (models.Product, error)
	UpdateProduct(id int64, p models.Product, changedBy string) (models.Product, error)
	DeleteProduct(id int64) error
	LowStock(threshold int64) ([]models.Product, error)
}

// ProductService provides business logic for product management.
type ProductService struct {
	db        *sql.DB
	inventory InventoryServiceProvider
	hub       *websocket.Hub
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB, inventory InventoryServiceProvider, hub *websocket.Hub) *ProductService {
	return &ProductService{db: db, inventory: inventory, hub: hub}
}

const productColumns = "id, name, unit, category, brand, stock, status, image"

func scanProduct(row *sql.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Unit, &p.Category, &p.Brand, &p.Stock, &p.Status, &p.Image)
	return p, err
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.Category, &p.Brand, &p.Stock, &p.Status, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProducts returns one page of products ordered by the requested sort
// field. An out-of-range page yields an empty data slice, not an error.
func (s *ProductService) ListProducts(opts ListOptions) (models.ProductPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 5
	}
	offset := (page - 1) * limit

	sortField := opts.SortField
	if !allowedSortFields[sortField] {
		sortField = "id"
	}
	sortOrder := "ASC"
	if opts.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return models.ProductPage{}, err
	}
	totalPages := (total + limit - 1) / limit

	query := fmt.Sprintf("SELECT %s FROM products ORDER BY %s %s LIMIT ? OFFSET ?", productColumns, sortField, sortOrder)
	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return models.ProductPage{}, err
	}

	products, err := scanProducts(rows)
	if err != nil {
		return models.ProductPage{}, err
	}

	return models.ProductPage{
		Data: products,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// SearchProducts returns every product whose name contains the fragment,
// case-insensitively. No pagination.
func (s *ProductService) SearchProducts(name string) ([]models.Product, error) {
	rows, err := s.db.Query(
		"SELECT "+productColumns+" FROM products WHERE LOWER(name) LIKE LOWER(?)",
		"%"+name+"%",
	)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// GetProductByID retrieves a single product.
func (s *ProductService) GetProductByID(id int64) (models.Product, error) {
	row := s.db.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

// CreateProduct inserts a new product and reads it back by its assigned id.
func (s *ProductService) CreateProduct(p models.Product) (models.Product, error) {
	res, err := s.db.Exec(
		"INSERT INTO products (name, unit, category, brand, stock, status, image) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.Name, p.Unit, p.Category, p.Brand, p.Stock, p.Status, p.Image,
	)
	if err != nil {
		return models.Product{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Product{}, err
	}
	return s.GetProductByID(id)
}

// UpdateProduct replaces all mutable fields of a product. When the stock
// value changes an audit row is written with the acting identity; that write
// is best-effort: a failure is logged and the already-applied update stands.
// The product mutation and the audit record are not atomic with each other.
func (s *ProductService) UpdateProduct(id int64, p models.Product, changedBy string) (models.Product, error) {
	current, err := s.GetProductByID(id)
	if err != nil {
		return models.Product{}, err
	}

	_, err = s.db.Exec(
		"UPDATE products SET name=?, unit=?, category=?, brand=?, stock=?, status=?, image=? WHERE id=?",
		p.Name, p.Unit, p.Category, p.Brand, p.Stock, p.Status, p.Image, id,
	)
	if err != nil {
		return models.Product{}, err
	}

	if current.Stock != p.Stock {
		if logErr := s.inventory.RecordChange(id, current.Stock, p.Stock, changedBy); logErr != nil {
			log.Error().Err(logErr).Int64("product_id", id).Msg("Failed to write inventory log")
		} else if s.hub != nil {
			s.hub.NotifyStockChange(models.InventoryLog{
				ProductID: id,
				OldStock:  current.Stock,
				NewStock:  p.Stock,
				ChangedBy: changedBy,
			})
		}
	}

	return s.GetProductByID(id)
}

// DeleteProduct removes a product by id. Deleting an id that does not exist
// is not an error.
func (s *ProductService) DeleteProduct(id int64) error {
	_, err := s.db.Exec("DELETE FROM products WHERE id = ?", id)
	return err
}

// LowStock returns all products at or below the given stock threshold.
func (s *ProductService) LowStock(threshold int64) ([]models.Product, error) {
	rows, err := s.db.Query("SELECT "+productColumns+" FROM products WHERE stock <= ?", threshold)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}
