package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"farmer-portal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStoreWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestGetFarmerByID(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM farmers WHERE id = $1")).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "bio", "about", "region", "town", "image", "payment_account_id", "created_at", "updated_at",
		}).AddRow("f1", "u1", "Ama Farms", "bio", "about", "Volta", "Ho", "https://img/1.png", nil, now, now))

	farmer, err := s.GetFarmerByID(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "Ama Farms", farmer.Name)
	assert.Nil(t, farmer.PaymentAccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFarmerByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM farmers WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetFarmerByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateFarmerDetails(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE farmers SET bio = $1, name = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs("fresh produce", "Ama Farms", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateFarmerDetails(context.Background(), "f1", models.FarmerDetails{
		models.FieldName: "Ama Farms",
		models.FieldBio:  "fresh produce",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFarmerDetailsClearsPaymentAccount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE farmers SET payment_account_id = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(nil, "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateFarmerDetails(context.Background(), "f1", models.FarmerDetails{
		models.FieldPaymentAccountID: "",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFarmerDetailsRejectsBadInput(t *testing.T) {
	s, _ := newMockStore(t)

	err := s.UpdateFarmerDetails(context.Background(), "f1", models.FarmerDetails{})
	assert.Error(t, err)

	err = s.UpdateFarmerDetails(context.Background(), "f1", models.FarmerDetails{"email": "x@y"})
	assert.Error(t, err)
}

func TestUpdateFarmerDetailsMissingFarmer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE farmers").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateFarmerDetails(context.Background(), "nope", models.FarmerDetails{models.FieldTown: "Ho"})
	assert.True(t, errors.Is(err, ErrNotFound))
}
