package service

import (
	"context"
	"time"

	"farmer-portal/internal/models"
	"farmer-portal/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// genericError is reported for failed reads; store details stay in the logs.
const genericError = "Something went wrong"

const errMissingFarmer = "farmer id is required"

// FarmerStore is the persistence used by FarmerService.
type FarmerStore interface {
	GetFarmerStats(ctx context.Context, farmerID string) (*models.FarmerStats, error)
	GetFarmerOrders(ctx context.Context, farmerID string, limit int) ([]models.OrderRow, error)
	UpdateOrderStatus(ctx context.Context, farmerID, orderID, status string) error
	GetProductsByFarmer(ctx context.Context, farmerID string) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, in models.ProductInput) error
	DeleteProduct(ctx context.Context, farmerID, productID string) error
	UpdateFarmerDetails(ctx context.Context, farmerID string, details models.FarmerDetails) error
}

// PathInvalidator marks presentation paths stale.
type PathInvalidator interface {
	InvalidatePaths(ctx context.Context, paths ...string) error
}

// EventPublisher announces portal changes to other services.
type EventPublisher interface {
	PublishOrderStatusUpdated(ctx context.Context, orderID, action, status string) error
	PublishProductSaved(ctx context.Context, productID, farmerID string, created bool) error
	PublishProductDeleted(ctx context.Context, productID string) error
	PublishFarmerUpdated(ctx context.Context, farmerID string, fields []models.ProfileField) error
}

// StatsResult is the outcome of GetFarmerStats
type StatsResult struct {
	Stats models.FarmerStats `json:"stats"`
	Error string             `json:"error,omitempty"`
}

// OrdersResult is the outcome of GetFarmerOrders
type OrdersResult struct {
	Orders []models.FarmerOrder `json:"orders"`
	Error  string               `json:"error,omitempty"`
}

// ProductsResult is the outcome of GetFarmerProducts
type ProductsResult struct {
	Products []models.Product `json:"products"`
	Error    string           `json:"error,omitempty"`
}

// MutationResult is the outcome of every write operation
type MutationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// FarmerService implements the farmer portal operations. Every operation
// reports failures in its result value instead of returning an error.
type FarmerService struct {
	store       FarmerStore
	invalidator PathInvalidator
	events      EventPublisher
	recentLimit int
	logger      *zap.Logger
}

// NewFarmerService creates a new farmer service
func NewFarmerService(
	store FarmerStore,
	invalidator PathInvalidator,
	events EventPublisher,
	recentLimit int,
) *FarmerService {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &FarmerService{
		store:       store,
		invalidator: invalidator,
		events:      events,
		recentLimit: recentLimit,
		logger:      util.GetLogger(),
	}
}

// GetFarmerStats aggregates sales, order count, product count and average rating
func (s *FarmerService) GetFarmerStats(ctx context.Context, farmerID string) StatsResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.GetFarmerStats", attribute.String("farmer_id", farmerID))
	defer span.End()

	start := time.Now()
	stats, err := s.store.GetFarmerStats(ctx, farmerID)
	util.StatsQueryLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.fail(span, "get_farmer_stats", err, zap.String("farmer_id", farmerID))
		return StatsResult{Error: genericError}
	}

	return StatsResult{Stats: *stats}
}

// GetFarmerOrders lists the farmer's orders; recent caps the list at the
// configured limit.
func (s *FarmerService) GetFarmerOrders(ctx context.Context, farmerID string, recent bool) OrdersResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.GetFarmerOrders",
		attribute.String("farmer_id", farmerID), attribute.Bool("recent", recent))
	defer span.End()

	limit := 0
	if recent {
		limit = s.recentLimit
	}

	rows, err := s.store.GetFarmerOrders(ctx, farmerID, limit)
	if err != nil {
		s.fail(span, "get_farmer_orders", err, zap.String("farmer_id", farmerID))
		return OrdersResult{Orders: []models.FarmerOrder{}, Error: genericError}
	}

	orders := make([]models.FarmerOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.Farmer())
	}
	return OrdersResult{Orders: orders}
}

// UpdateOrderStatus applies an order action (Ship, Complete, Cancel) to an
// order placed with farmerID and stores the resulting shipping status.
func (s *FarmerService) UpdateOrderStatus(ctx context.Context, farmerID, orderID, action string) MutationResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.UpdateOrderStatus",
		attribute.String("farmer_id", farmerID),
		attribute.String("order_id", orderID),
		attribute.String("action", action))
	defer span.End()

	status := models.StatusForAction(action)

	if err := s.store.UpdateOrderStatus(ctx, farmerID, orderID, status); err != nil {
		s.fail(span, "update_order_status", err, zap.String("order_id", orderID))
		return MutationResult{Error: err.Error()}
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status))

	s.invalidate(ctx, models.PathOrders, models.PathDashboard)
	if err := s.events.PublishOrderStatusUpdated(ctx, orderID, action, status); err != nil {
		s.logger.Error("Failed to publish OrderStatusUpdated event", zap.Error(err))
	}

	return MutationResult{Success: true}
}

// GetFarmerProducts lists the farmer's products with their reviews
func (s *FarmerService) GetFarmerProducts(ctx context.Context, farmerID string) ProductsResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.GetFarmerProducts", attribute.String("farmer_id", farmerID))
	defer span.End()

	products, err := s.store.GetProductsByFarmer(ctx, farmerID)
	if err != nil {
		s.fail(span, "get_farmer_products", err, zap.String("farmer_id", farmerID))
		return ProductsResult{Products: []models.Product{}, Error: genericError}
	}

	return ProductsResult{Products: products}
}

// AddProduct updates the sent fields of in.FarmerID's product when the
// request carries an ID, otherwise creates the product under in.FarmerID.
func (s *FarmerService) AddProduct(ctx context.Context, in models.ProductInput) MutationResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.AddProduct",
		attribute.String("farmer_id", in.FarmerID), attribute.String("product_id", in.ID))
	defer span.End()

	if in.FarmerID == "" {
		return MutationResult{Error: errMissingFarmer}
	}

	created := in.ID == ""
	kind := "updated"
	var err error
	if created {
		kind = "created"
		in.ID = uuid.New().String()
		product := in.Product()
		err = s.store.CreateProduct(ctx, &product)
	} else {
		err = s.store.UpdateProduct(ctx, in)
	}
	if err != nil {
		s.fail(span, "add_product", err, zap.String("product_id", in.ID))
		return MutationResult{Error: err.Error()}
	}

	util.ProductsSavedTotal.WithLabelValues(kind).Inc()
	s.logger.Info("Product saved",
		zap.String("product_id", in.ID),
		zap.String("kind", kind))

	s.invalidate(ctx, models.PathProducts)
	if err := s.events.PublishProductSaved(ctx, in.ID, in.FarmerID, created); err != nil {
		s.logger.Error("Failed to publish ProductSaved event", zap.Error(err))
	}

	return MutationResult{Success: true}
}

// DeleteProduct removes a product listed by farmerID
func (s *FarmerService) DeleteProduct(ctx context.Context, farmerID, productID string) MutationResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.DeleteProduct",
		attribute.String("farmer_id", farmerID), attribute.String("product_id", productID))
	defer span.End()

	if err := s.store.DeleteProduct(ctx, farmerID, productID); err != nil {
		s.fail(span, "delete_product", err, zap.String("product_id", productID))
		return MutationResult{Error: err.Error()}
	}

	util.ProductsDeletedTotal.Inc()
	s.invalidate(ctx, models.PathProducts)
	if err := s.events.PublishProductDeleted(ctx, productID); err != nil {
		s.logger.Error("Failed to publish ProductDeleted event", zap.Error(err))
	}

	return MutationResult{Success: true}
}

// UpdateFarmerDetails applies a partial update to the farmer record
func (s *FarmerService) UpdateFarmerDetails(ctx context.Context, farmerID string, details models.FarmerDetails) MutationResult {
	ctx, span := util.StartSpan(ctx, "FarmerService.UpdateFarmerDetails", attribute.String("farmer_id", farmerID))
	defer span.End()

	if err := s.store.UpdateFarmerDetails(ctx, farmerID, details); err != nil {
		s.fail(span, "update_farmer_details", err, zap.String("farmer_id", farmerID))
		return MutationResult{Error: err.Error()}
	}

	fields := details.Fields()
	util.FarmerDetailsUpdatesTotal.Inc()
	s.logger.Info("Farmer details updated",
		zap.String("farmer_id", farmerID),
		zap.Any("fields", fields))

	s.invalidate(ctx, models.PathProfile)
	if err := s.events.PublishFarmerUpdated(ctx, farmerID, fields); err != nil {
		s.logger.Error("Failed to publish FarmerUpdated event", zap.Error(err))
	}

	return MutationResult{Success: true}
}

// invalidate marks paths stale. The write already committed, so failures
// are only logged.
func (s *FarmerService) invalidate(ctx context.Context, paths ...string) {
	if err := s.invalidator.InvalidatePaths(ctx, paths...); err != nil {
		s.logger.Warn("Failed to invalidate paths",
			zap.Strings("paths", paths),
			zap.Error(err))
		return
	}
	for _, p := range paths {
		util.ViewInvalidationsTotal.WithLabelValues(p).Inc()
	}
}

func (s *FarmerService) fail(span trace.Span, operation string, err error, fields ...zap.Field) {
	util.ServiceErrorsTotal.WithLabelValues(operation).Inc()
	util.RecordError(span, err)
	s.logger.Error("Farmer service operation failed",
		append(fields, zap.String("operation", operation), zap.Error(err))...)
}
