package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"  // invoice import / restock
	MovementOut MovementType = "OUT" // point-of-sale checkout
)

// StockMovement is the ledger row behind every stock mutation. IN rows are
// written by invoice ingestion, OUT rows by sale settlement; both are created
// inside the same transaction that changes Product.Stock.
type StockMovement struct {
	BaseModel
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product      `json:"product" validate:"-"`
	Type      MovementType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int          `gorm:"not null" json:"quantity" validate:"gte=0"`

	// UnitValue is the acquisition cost on IN and the effective (discounted)
	// sale price on OUT, snapshotted at movement time.
	UnitValue   float64 `gorm:"type:decimal(10,2);not null" json:"unit_value"`
	TotalAmount float64 `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	PaymentMethod string `gorm:"type:varchar(20)" json:"payment_method,omitempty"` // OUT only: CASH, CARD, PIX...
	Note          string `json:"note,omitempty"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
