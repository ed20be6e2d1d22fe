package services

import (
	"database/sql"

	"github.com/lariosa/stockroom-be/internal/models"
)

// InventoryServiceProvider defines the interface for stock audit services.
type InventoryServiceProvider interface {
	RecordChange(productID, oldStock, newStock int64, changedBy string) error
	GetHistory(productID int64) ([]models.InventoryLog, error)
}

// InventoryService manages the immutable stock-change audit trail.
type InventoryService struct {
	db *sql.DB
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(db *sql.DB) *InventoryService {
	return &InventoryService{db: db}
}

// RecordChange inserts one audit row. The timestamp is store-generated.
func (s *InventoryService) RecordChange(productID, oldStock, newStock int64, changedBy string) error {
	_, err := s.db.Exec(
		"INSERT INTO inventory_logs (product_id, old_stock, new_stock, changed_by) VALUES (?, ?, ?, ?)",
		productID, oldStock, newStock, changedBy,
	)
	return err
}

// GetHistory returns all audit rows for a product, newest first. An unknown
// product id simply yields an empty slice.
func (s *InventoryService) GetHistory(productID int64) ([]models.InventoryLog, error) {
	rows, err := s.db.Query(
		"SELECT id, product_id, old_stock, new_stock, changed_by, timestamp FROM inventory_logs WHERE product_id = ? ORDER BY timestamp DESC",
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.InventoryLog{}
	for rows.Next() {
		var entry models.InventoryLog
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.OldStock, &entry.NewStock, &entry.ChangedBy, &entry.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
