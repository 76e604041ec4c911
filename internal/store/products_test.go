package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"farmer-portal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{
	"id", "farmer_id", "name", "slug", "description", "price", "quantity", "unit", "category", "images", "created_at", "updated_at",
}

func TestGetProductsByFarmerWithReviews(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE farmer_id = $1")).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("p1", "f1", "Yam", "yam", "", 60.0, 10, "tuber", "roots", []byte("{}"), now, now).
			AddRow("p2", "f1", "Okra", "okra", "", 5.0, 50, "kg", "veg", []byte("{a.png,b.png}"), now, now))

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE product_id IN ($1, $2)")).
		WithArgs("p1", "p2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "farmer_id", "user_id", "rating", "comment", "created_at"}).
			AddRow("r1", "p2", "f1", "u1", 5, "great", now).
			AddRow("r2", "p2", "f1", "u2", 3, "ok", now))

	products, err := s.GetProductsByFarmer(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Empty(t, products[0].Reviews)
	assert.Len(t, products[1].Reviews, 2)
	assert.Equal(t, []string{"a.png", "b.png"}, []string(products[1].Images))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductsByFarmerEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE farmer_id = $1")).
		WithArgs("f2").
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := s.GetProductsByFarmer(context.Background(), "f2")
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("p9", "f1", "Cassava", "cassava", "", 12.0, 5, "kg", "roots", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &models.Product{
		ID: "p9", FarmerID: "f1", Name: "Cassava", Slug: "cassava",
		Price: 12, Quantity: 5, Unit: "kg", Category: "roots",
		Images: []string{"c.png"},
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }

func TestUpdateProductWritesOnlySentFields(t *testing.T) {
	s, mock := newMockStore(t)
	price := 70.0

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE products SET description = $1, price = $2, updated_at = NOW() WHERE id = $3 AND farmer_id = $4")).
		WithArgs("new", 70.0, "p1", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateProduct(context.Background(), models.ProductInput{
		ID: "p1", FarmerID: "f1", Description: strPtr("new"), Price: &price,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductAllFields(t *testing.T) {
	s, mock := newMockStore(t)
	price, qty := 60.0, 8
	images := []string{"a.png"}

	mock.ExpectExec(regexp.QuoteMeta(
		"SET name = $1, slug = $2, description = $3, price = $4, quantity = $5, unit = $6, category = $7, images = $8, updated_at = NOW() WHERE id = $9 AND farmer_id = $10")).
		WithArgs("Yam", "yam", "", 60.0, 8, "tuber", "roots", sqlmock.AnyArg(), "p1", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateProduct(context.Background(), models.ProductInput{
		ID: "p1", FarmerID: "f1", Name: strPtr("Yam"), Slug: strPtr("yam"), Description: strPtr(""),
		Price: &price, Quantity: &qty, Unit: strPtr("tuber"), Category: strPtr("roots"), Images: &images,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductOfAnotherFarmer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $2 AND farmer_id = $3")).
		WithArgs("hijacked", "p1", "f2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateProduct(context.Background(), models.ProductInput{ID: "p1", FarmerID: "f2", Name: strPtr("hijacked")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1 AND farmer_id = $2")).
		WithArgs("p1", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1 AND farmer_id = $2")).
		WithArgs("p1", "f1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteProduct(context.Background(), "f1", "p1"))
	err := s.DeleteProduct(context.Background(), "f1", "p1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductOfAnotherFarmer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1 AND farmer_id = $2")).
		WithArgs("p1", "f2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteProduct(context.Background(), "f2", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
