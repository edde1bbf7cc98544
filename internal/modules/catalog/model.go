package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Product is a seller's listing. Listings are soft-disabled through
// IsActive and never hard-deleted while orders or offers reference them.
type Product struct {
	ID              uuid.UUID       `json:"id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           float64         `json:"price"`
	DiscountPrice   *float64        `json:"discount_price,omitempty"`
	Images          []string        `json:"images"`
	Category        string          `json:"category"`
	Stock           int             `json:"stock"`
	AllowBargain    bool            `json:"allow_bargain"`
	MinBargainPrice *float64        `json:"min_bargain_price,omitempty"`
	IsActive        bool            `json:"is_active"`
	Customization   json.RawMessage `json:"customization,omitempty"`
	StoreName       string          `json:"store_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateProductRequest is the payload for creating a listing.
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1"`
	Description     string          `json:"description" validate:"required,min=1"`
	Price           float64         `json:"price" validate:"required,gt=0"`
	DiscountPrice   *float64        `json:"discount_price" validate:"omitempty,gt=0"`
	Images          []string        `json:"images"`
	Category        string          `json:"category" validate:"required,min=1"`
	Stock           int             `json:"stock" validate:"min=0"`
	AllowBargain    bool            `json:"allow_bargain"`
	MinBargainPrice *float64        `json:"min_bargain_price" validate:"omitempty,gt=0"`
	Customization   json.RawMessage `json:"customization"`
}

// UpdateProductRequest is the partial-update payload; nil fields keep
// their current value.
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1"`
	Description     *string          `json:"description" validate:"omitempty,min=1"`
	Price           *float64         `json:"price" validate:"omitempty,gt=0"`
	DiscountPrice   *float64         `json:"discount_price" validate:"omitempty,gt=0"`
	Images          *[]string        `json:"images"`
	Category        *string          `json:"category" validate:"omitempty,min=1"`
	Stock           *int             `json:"stock" validate:"omitempty,min=0"`
	AllowBargain    *bool            `json:"allow_bargain"`
	MinBargainPrice *float64         `json:"min_bargain_price" validate:"omitempty,gt=0"`
	IsActive        *bool            `json:"is_active"`
	Customization   *json.RawMessage `json:"customization"`
}

// Filter narrows the public product listing.
type Filter struct {
	Category string
	SellerID string
	Search   string
}
