package service

import (
	"context"
	"errors"
	"testing"

	"farmer-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type StoreMock struct{ mock.Mock }

func (m *StoreMock) GetFarmerStats(ctx context.Context, farmerID string) (*models.FarmerStats, error) {
	args := m.Called(ctx, farmerID)
	stats, _ := args.Get(0).(*models.FarmerStats)
	return stats, args.Error(1)
}

func (m *StoreMock) GetFarmerOrders(ctx context.Context, farmerID string, limit int) ([]models.OrderRow, error) {
	args := m.Called(ctx, farmerID, limit)
	rows, _ := args.Get(0).([]models.OrderRow)
	return rows, args.Error(1)
}

func (m *StoreMock) UpdateOrderStatus(ctx context.Context, farmerID, orderID, status string) error {
	return m.Called(ctx, farmerID, orderID, status).Error(0)
}

func (m *StoreMock) GetProductsByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	args := m.Called(ctx, farmerID)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *StoreMock) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *StoreMock) UpdateProduct(ctx context.Context, in models.ProductInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *StoreMock) DeleteProduct(ctx context.Context, farmerID, productID string) error {
	return m.Called(ctx, farmerID, productID).Error(0)
}

func (m *StoreMock) UpdateFarmerDetails(ctx context.Context, farmerID string, details models.FarmerDetails) error {
	return m.Called(ctx, farmerID, details).Error(0)
}

type InvalidatorMock struct{ mock.Mock }

func (m *InvalidatorMock) InvalidatePaths(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderStatusUpdated(ctx context.Context, orderID, action, status string) error {
	return m.Called(ctx, orderID, action, status).Error(0)
}

func (m *PublisherMock) PublishProductSaved(ctx context.Context, productID, farmerID string, created bool) error {
	return m.Called(ctx, productID, farmerID, created).Error(0)
}

func (m *PublisherMock) PublishProductDeleted(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *PublisherMock) PublishFarmerUpdated(ctx context.Context, farmerID string, fields []models.ProfileField) error {
	return m.Called(ctx, farmerID, fields).Error(0)
}

func newTestService() (*FarmerService, *StoreMock, *InvalidatorMock, *PublisherMock) {
	st := &StoreMock{}
	inv := &InvalidatorMock{}
	pub := &PublisherMock{}
	return NewFarmerService(st, inv, pub, 10), st, inv, pub
}

func TestGetFarmerStats(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("GetFarmerStats", mock.Anything, "f1").
		Return(&models.FarmerStats{TotalSales: 90, Orders: 3, Products: 2, Ratings: 4.2}, nil)

	res := svc.GetFarmerStats(context.Background(), "f1")

	assert.Empty(t, res.Error)
	assert.Equal(t, 90.0, res.Stats.TotalSales)
	assert.Equal(t, int64(3), res.Stats.Orders)
}

func TestGetFarmerStatsForNewFarmerIsZero(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("GetFarmerStats", mock.Anything, "new").Return(&models.FarmerStats{}, nil)

	res := svc.GetFarmerStats(context.Background(), "new")

	assert.Empty(t, res.Error)
	assert.Equal(t, models.FarmerStats{}, res.Stats)
}

func TestGetFarmerStatsFailure(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("GetFarmerStats", mock.Anything, "f1").Return(nil, errors.New("db down"))

	res := svc.GetFarmerStats(context.Background(), "f1")

	assert.Equal(t, "Something went wrong", res.Error)
	assert.Equal(t, models.FarmerStats{}, res.Stats)
}

func TestGetFarmerOrdersRecentUsesLimit(t *testing.T) {
	svc, st, _, _ := newTestService()
	rows := make([]models.OrderRow, 10)
	for i := range rows {
		rows[i] = models.OrderRow{ID: "o", ProductName: "Yam"}
	}
	st.On("GetFarmerOrders", mock.Anything, "f1", 10).Return(rows, nil)
	st.On("GetFarmerOrders", mock.Anything, "f1", 0).Return(append(rows, models.OrderRow{ID: "o11"}), nil)

	recent := svc.GetFarmerOrders(context.Background(), "f1", true)
	all := svc.GetFarmerOrders(context.Background(), "f1", false)

	assert.Len(t, recent.Orders, 10)
	assert.Len(t, all.Orders, 11)
	assert.Equal(t, "Yam", recent.Orders[0].Products[0].Name)
	st.AssertExpectations(t)
}

func TestGetFarmerOrdersFailure(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("GetFarmerOrders", mock.Anything, "f1", 0).Return(nil, errors.New("boom"))

	res := svc.GetFarmerOrders(context.Background(), "f1", false)

	assert.Equal(t, "Something went wrong", res.Error)
	assert.NotNil(t, res.Orders)
	assert.Empty(t, res.Orders)
}

func TestUpdateOrderStatusMapsActions(t *testing.T) {
	tests := []struct {
		action string
		status string
	}{
		{"Ship", "Shipping"},
		{"Complete", "Completed"},
		{"Cancel", "Canceled"},
		{"Whatever", "Pending"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			svc, st, inv, pub := newTestService()
			st.On("UpdateOrderStatus", mock.Anything, "f1", "o1", tt.status).Return(nil)
			inv.On("InvalidatePaths", mock.Anything, []string{models.PathOrders, models.PathDashboard}).Return(nil)
			pub.On("PublishOrderStatusUpdated", mock.Anything, "o1", tt.action, tt.status).Return(nil)

			res := svc.UpdateOrderStatus(context.Background(), "f1", "o1", tt.action)

			assert.True(t, res.Success)
			assert.Empty(t, res.Error)
			st.AssertExpectations(t)
			inv.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestUpdateOrderStatusFailureSkipsInvalidation(t *testing.T) {
	svc, st, inv, pub := newTestService()
	st.On("UpdateOrderStatus", mock.Anything, "f2", "o1", "Shipping").Return(errors.New("order o1: record not found"))

	res := svc.UpdateOrderStatus(context.Background(), "f2", "o1", "Ship")

	assert.False(t, res.Success)
	assert.Equal(t, "order o1: record not found", res.Error)
	inv.AssertNotCalled(t, "InvalidatePaths", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishOrderStatusUpdated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusSurvivesSideEffectFailures(t *testing.T) {
	svc, st, inv, pub := newTestService()
	st.On("UpdateOrderStatus", mock.Anything, "f1", "o1", "Completed").Return(nil)
	inv.On("InvalidatePaths", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	pub.On("PublishOrderStatusUpdated", mock.Anything, "o1", "Complete", "Completed").Return(errors.New("kafka down"))

	res := svc.UpdateOrderStatus(context.Background(), "f1", "o1", "Complete")

	assert.True(t, res.Success)
}

func TestGetFarmerProducts(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("GetProductsByFarmer", mock.Anything, "f1").Return([]models.Product{
		{ID: "p1", Reviews: []models.Review{{ID: "r1", Rating: 5}}},
	}, nil)

	res := svc.GetFarmerProducts(context.Background(), "f1")

	require.Len(t, res.Products, 1)
	assert.Len(t, res.Products[0].Reviews, 1)
}

func TestGetFarmerProductsFailure(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("GetProductsByFarmer", mock.Anything, "f1").Return(nil, errors.New("boom"))

	res := svc.GetFarmerProducts(context.Background(), "f1")

	assert.Equal(t, "Something went wrong", res.Error)
	assert.NotNil(t, res.Products)
}

func TestAddProductCreatesWhenNoID(t *testing.T) {
	svc, st, inv, pub := newTestService()
	name := "Plantain"
	st.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID != "" && p.FarmerID == "f1" && p.Name == "Plantain" && p.Images != nil
	})).Return(nil)
	inv.On("InvalidatePaths", mock.Anything, []string{models.PathProducts}).Return(nil)
	pub.On("PublishProductSaved", mock.Anything, mock.AnythingOfType("string"), "f1", true).Return(nil)

	res := svc.AddProduct(context.Background(), models.ProductInput{FarmerID: "f1", Name: &name})

	assert.True(t, res.Success)
	st.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	st.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestAddProductUpdatesWhenIDPresent(t *testing.T) {
	svc, st, inv, pub := newTestService()
	price := 15.0
	st.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(in models.ProductInput) bool {
		return in.ID == "p1" && in.FarmerID == "f1" && *in.Price == 15 && in.Name == nil
	})).Return(nil)
	inv.On("InvalidatePaths", mock.Anything, []string{models.PathProducts}).Return(nil)
	pub.On("PublishProductSaved", mock.Anything, "p1", "f1", false).Return(nil)

	res := svc.AddProduct(context.Background(), models.ProductInput{ID: "p1", FarmerID: "f1", Price: &price})

	assert.True(t, res.Success)
	st.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	st.AssertExpectations(t)
}

func TestAddProductRequiresFarmer(t *testing.T) {
	svc, st, _, _ := newTestService()

	res := svc.AddProduct(context.Background(), models.ProductInput{ID: "p1"})

	assert.False(t, res.Success)
	assert.Equal(t, "farmer id is required", res.Error)
	st.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
	st.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestAddProductFailure(t *testing.T) {
	svc, st, inv, _ := newTestService()
	st.On("UpdateProduct", mock.Anything, mock.Anything).Return(errors.New("product p1: record not found"))

	res := svc.AddProduct(context.Background(), models.ProductInput{ID: "p1", FarmerID: "f2"})

	assert.False(t, res.Success)
	assert.Equal(t, "product p1: record not found", res.Error)
	inv.AssertNotCalled(t, "InvalidatePaths", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	svc, st, inv, pub := newTestService()
	st.On("DeleteProduct", mock.Anything, "f1", "p1").Return(nil)
	inv.On("InvalidatePaths", mock.Anything, []string{models.PathProducts}).Return(nil)
	pub.On("PublishProductDeleted", mock.Anything, "p1").Return(nil)

	res := svc.DeleteProduct(context.Background(), "f1", "p1")

	assert.True(t, res.Success)
	inv.AssertExpectations(t)
}

func TestDeleteProductFailure(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("DeleteProduct", mock.Anything, "f1", "p1").Return(errors.New("fk violation"))

	res := svc.DeleteProduct(context.Background(), "f1", "p1")

	assert.False(t, res.Success)
	assert.Equal(t, "fk violation", res.Error)
}

func TestUpdateFarmerDetails(t *testing.T) {
	svc, st, inv, pub := newTestService()
	details := models.FarmerDetails{models.FieldTown: "Ho", models.FieldBio: "Organic"}
	st.On("UpdateFarmerDetails", mock.Anything, "f1", details).Return(nil)
	inv.On("InvalidatePaths", mock.Anything, []string{models.PathProfile}).Return(nil)
	pub.On("PublishFarmerUpdated", mock.Anything, "f1", []models.ProfileField{models.FieldBio, models.FieldTown}).Return(nil)

	res := svc.UpdateFarmerDetails(context.Background(), "f1", details)

	assert.True(t, res.Success)
	inv.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestUpdateFarmerDetailsFailure(t *testing.T) {
	svc, st, _, _ := newTestService()
	st.On("UpdateFarmerDetails", mock.Anything, "f1", mock.Anything).Return(errors.New("farmer f1: record not found"))

	res := svc.UpdateFarmerDetails(context.Background(), "f1", models.FarmerDetails{models.FieldName: "x"})

	assert.False(t, res.Success)
	assert.Equal(t, "farmer f1: record not found", res.Error)
}
