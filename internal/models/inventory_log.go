package models

// InventoryLog is an immutable audit record of a stock-count change.
// Rows are only ever created as a side effect of a product update whose
// stock value actually changed.
type InventoryLog struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	OldStock  int64  `json:"old_stock"`
	NewStock  int64  `json:"new_stock"`
	ChangedBy string `json:"changed_by"`
	Timestamp string `json:"timestamp"`
}
