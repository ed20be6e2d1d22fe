package services

import (
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lariosa/stockroom-be/internal/database"
	"github.com/lariosa/stockroom-be/internal/models"
)

var productCols = []string{"id", "name", "unit", "category", "brand", "stock", "status", "image"}

func productRow(id int64, name string, stock int64) *sqlmock.Rows {
	return sqlmock.NewRows(productCols).AddRow(id, name, "pcs", "tools", "Acme", stock, "active", nil)
}

func newTestProductService(t *testing.T) (*ProductService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewProductService(db, NewInventoryService(db), nil), mock, db
}

func TestListProducts_Pagination(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rows := sqlmock.NewRows(productCols)
	for i := int64(1); i <= 5; i++ {
		rows.AddRow(i, "p", "pcs", "tools", "Acme", 10, "active", nil)
	}
	mock.ExpectQuery("ORDER BY id ASC LIMIT \\? OFFSET \\?").
		WithArgs(5, 0).
		WillReturnRows(rows)

	page, err := svc.ListProducts(ListOptions{Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 5 {
		t.Errorf("expected 5 rows, got %d", len(page.Data))
	}
	want := models.Pagination{Page: 1, Limit: 5, Total: 12, TotalPages: 3}
	if page.Pagination != want {
		t.Errorf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestListProducts_SortFieldFallsBackToID(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("ORDER BY id ASC").
		WithArgs(5, 0).
		WillReturnRows(sqlmock.NewRows(productCols))

	page, err := svc.ListProducts(ListOptions{Page: 1, Limit: 5, SortField: "name; DROP TABLE products"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 0 {
		t.Errorf("expected empty page, got %d rows", len(page.Data))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListProducts_DescendingOrder(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY stock DESC").
		WithArgs(5, 0).
		WillReturnRows(productRow(1, "Widget", 9))

	if _, err := svc.ListProducts(ListOptions{Page: 1, Limit: 5, SortField: "stock", SortOrder: "desc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSearchProducts(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) LIKE LOWER(?)")).
		WithArgs("%wid%").
		WillReturnRows(productRow(1, "Widget", 10))

	products, err := svc.SearchProducts("wid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Widget" {
		t.Errorf("unexpected result: %+v", products)
	}
}

func TestUpdateProduct_StockChangeWritesAuditRow(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRow(1, "Widget", 3))
	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inventory_logs").
		WithArgs(int64(1), int64(3), int64(9), "jo@example.com").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRow(1, "Widget", 9))

	updated, err := svc.UpdateProduct(1, models.Product{Name: "Widget", Unit: "pcs", Category: "tools", Brand: "Acme", Stock: 9, Status: "active"}, "jo@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stock != 9 {
		t.Errorf("expected stock 9, got %d", updated.Stock)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateProduct_UnchangedStockSkipsAudit(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRow(1, "Widget", 9))
	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRow(1, "Widget", 9))

	if _, err := svc.UpdateProduct(1, models.Product{Name: "Widget", Stock: 9}, "jo@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No inventory_logs INSERT may be issued.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.UpdateProduct(99, models.Product{}, "system")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateProduct_AuditFailureIsSwallowed(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRow(1, "Widget", 3))
	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inventory_logs").
		WillReturnError(errors.New("disk full"))
	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(productRow(1, "Widget", 9))

	updated, err := svc.UpdateProduct(1, models.Product{Name: "Widget", Stock: 9}, "system")
	if err != nil {
		t.Fatalf("audit failure must not surface, got %v", err)
	}
	if updated.Stock != 9 {
		t.Errorf("expected stock 9, got %d", updated.Stock)
	}
}

func TestDeleteProduct_NonexistentIsSuccess(t *testing.T) {
	svc, mock, db := newTestProductService(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM products WHERE id").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.DeleteProduct(404); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteProduct_WithHistoryRows(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	inventory := NewInventoryService(db)
	svc := NewProductService(db, inventory, nil)

	created, err := svc.CreateProduct(models.Product{Name: "Widget", Unit: "pcs", Category: "tools", Brand: "Acme", Stock: 3, Status: "active"})
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	if err := inventory.RecordChange(created.ID, 3, 9, "jo@example.com"); err != nil {
		t.Fatalf("failed to record change: %v", err)
	}

	// Audit rows must not block the delete.
	if err := svc.DeleteProduct(created.ID); err != nil {
		t.Fatalf("delete must succeed for a product with history, got %v", err)
	}

	if _, err := svc.GetProductByID(created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}

	// History outlives the product.
	logs, err := inventory.GetHistory(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("expected 1 surviving audit row, got %d", len(logs))
	}
}

func TestGetHistory_EmptyForUnknownProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	svc := NewInventoryService(db)

	mock.ExpectQuery("FROM inventory_logs WHERE product_id").
		WithArgs(int64(123)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "old_stock", "new_stock", "changed_by", "timestamp"}))

	logs, err := svc.GetHistory(123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(logs) != 0 {
		t.Errorf("expected no rows, got %d", len(logs))
	}
}
