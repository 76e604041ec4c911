package models

import (
	"time"

	"github.com/lib/pq"
)

// Farmer is the farmer record as stored.
type Farmer struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"userId"`
	Name             string    `db:"name" json:"name"`
	Bio              string    `db:"bio" json:"bio"`
	About            string    `db:"about" json:"about"`
	Region           string    `db:"region" json:"region"`
	Town             string    `db:"town" json:"town"`
	Image            string    `db:"image" json:"image"`
	PaymentAccountID *string   `db:"payment_account_id" json:"paymentAccountId"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// Profile projects the editable fields of the farmer record.
func (f *Farmer) Profile() FarmerProfile {
	p := FarmerProfile{
		ID:     f.ID,
		Name:   f.Name,
		Bio:    f.Bio,
		About:  f.About,
		Region: f.Region,
		Town:   f.Town,
		Image:  f.Image,
	}
	if f.PaymentAccountID != nil {
		p.PaymentAccountID = *f.PaymentAccountID
	}
	return p
}

// Product is a product listed by a farmer.
type Product struct {
	ID          string         `db:"id" json:"id"`
	FarmerID    string         `db:"farmer_id" json:"farmerId"`
	Name        string         `db:"name" json:"name"`
	Slug        string         `db:"slug" json:"slug"`
	Description string         `db:"description" json:"description"`
	Price       float64        `db:"price" json:"price"`
	Quantity    int            `db:"quantity" json:"quantity"`
	Unit        string         `db:"unit" json:"unit"`
	Category    string         `db:"category" json:"category"`
	Images      pq.StringArray `db:"images" json:"images"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
	Reviews     []Review       `db:"-" json:"reviews,omitempty"`
}

// ProductInput is an add-or-update request. On update only the fields that
// were sent (non-nil) are written.
type ProductInput struct {
	ID          string    `json:"id"`
	FarmerID    string    `json:"farmerId"`
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Quantity    *int      `json:"quantity"`
	Unit        *string   `json:"unit"`
	Category    *string   `json:"category"`
	Images      *[]string `json:"images"`
}

// Product returns the product a create request describes; unsent fields
// take their zero value.
func (in ProductInput) Product() Product {
	p := Product{ID: in.ID, FarmerID: in.FarmerID, Images: pq.StringArray{}}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Images != nil {
		p.Images = pq.StringArray(*in.Images)
	}
	return p
}

// Review is a buyer review of a product.
type Review struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"productId"`
	FarmerID  string    `db:"farmer_id" json:"farmerId"`
	UserID    string    `db:"user_id" json:"userId"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// OrderRow is one order joined with its buyer and product.
type OrderRow struct {
	ID            string         `db:"id"`
	OrderID       string         `db:"order_code"`
	CreatedAt     time.Time      `db:"created_at"`
	Amount        float64        `db:"amount"`
	UserName      string         `db:"user_name"`
	UserEmail     string         `db:"user_email"`
	Contact       string         `db:"contact"`
	Status        string         `db:"status"`
	Address       string         `db:"address"`
	Quantity      int            `db:"quantity"`
	ProductID     string         `db:"product_id"`
	ProductName   string         `db:"product_name"`
	ProductPrice  float64        `db:"product_price"`
	ProductSlug   string         `db:"product_slug"`
	ProductImages pq.StringArray `db:"product_images"`
}

// FarmerOrder is the flattened order projection shown in the portal.
type FarmerOrder struct {
	ID              string           `json:"id"`
	OrderID         string           `json:"orderID"`
	CreatedAt       time.Time        `json:"createdAt"`
	Amount          float64          `json:"amount"`
	UserName        string           `json:"userName"`
	UserEmail       string           `json:"userEmail"`
	Contact         string           `json:"contact"`
	ShippingStatus  string           `json:"shippingStatus"`
	ShippingAddress string           `json:"shippingAddress"`
	Quantity        int              `json:"quantity"`
	Products        []ProductSummary `json:"products"`
}

// ProductSummary is the product embedded in an order projection.
type ProductSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Slug   string   `json:"slug"`
	Images []string `json:"images"`
}

// Farmer returns the flattened projection of the row.
func (r OrderRow) Farmer() FarmerOrder {
	images := []string(r.ProductImages)
	if images == nil {
		images = []string{}
	}
	return FarmerOrder{
		ID:              r.ID,
		OrderID:         r.OrderID,
		CreatedAt:       r.CreatedAt,
		Amount:          r.Amount,
		UserName:        r.UserName,
		UserEmail:       r.UserEmail,
		Contact:         r.Contact,
		ShippingStatus:  r.Status,
		ShippingAddress: r.Address,
		Quantity:        r.Quantity,
		Products: []ProductSummary{{
			ID:     r.ProductID,
			Name:   r.ProductName,
			Price:  r.ProductPrice,
			Slug:   r.ProductSlug,
			Images: images,
		}},
	}
}

// FarmerStats is recomputed from the store on every request.
type FarmerStats struct {
	TotalSales float64 `db:"total_sales" json:"totalSales"`
	Orders     int64   `db:"orders" json:"orders"`
	Products   int64   `db:"products" json:"products"`
	Ratings    float64 `db:"ratings" json:"ratings"`
}

// Shipping statuses
const (
	ShippingStatusPending   = "Pending"
	ShippingStatusShipping  = "Shipping"
	ShippingStatusCompleted = "Completed"
	ShippingStatusCanceled  = "Canceled"
)

// Order actions accepted by the status transition
const (
	OrderActionShip     = "Ship"
	OrderActionComplete = "Complete"
	OrderActionCancel   = "Cancel"
)

// StatusForAction maps an order action to the shipping status it sets.
// Unrecognized actions fall back to Pending.
func StatusForAction(action string) string {
	switch action {
	case OrderActionShip:
		return ShippingStatusShipping
	case OrderActionComplete:
		return ShippingStatusCompleted
	case OrderActionCancel:
		return ShippingStatusCanceled
	default:
		return ShippingStatusPending
	}
}

// Presentation paths invalidated by mutating operations
const (
	PathOrders    = "/farmer-portal/orders"
	PathDashboard = "/farmer-portal/dashboard"
	PathProducts  = "/farmer-portal/products"
	PathProfile   = "/farmer-portal/profile"
)

// Roles
const (
	RoleFarmer = "FARMER"
	RoleBuyer  = "BUYER"
)
