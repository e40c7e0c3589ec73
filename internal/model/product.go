package model

// Markup applied over acquisition cost to derive the sale price of
// products discovered through invoice import.
const MarkupFactor = 1.5

type Product struct {
	BaseModel
	Code      string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string  `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	CostPrice float64 `gorm:"type:decimal(10,2);default:0" json:"cost_price" validate:"gte=0"`
	Price     float64 `gorm:"type:decimal(10,2);not null;default:0" json:"price" validate:"gte=0"`
	Discount  float64 `gorm:"default:0" json:"discount" validate:"gte=0,lte=100"` // percentage
	Stock     int     `gorm:"default:0" json:"stock" validate:"gte=0"`
	Category  string  `gorm:"type:varchar(50)" json:"category"`
	Unit      string  `gorm:"type:varchar(10);default:UN" json:"unit"`

	// Fiscal classification (NF-e)
	NCM  string `gorm:"type:varchar(10);default:00000000" json:"ncm"`
	CFOP string `gorm:"type:varchar(4);default:5102" json:"cfop"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	Movements []StockMovement `json:"movements,omitempty"`
}

// FinalPrice returns the sale price after the product's discount percentage.
// The stored price itself is never changed by a discount.
func (p *Product) FinalPrice() float64 {
	if p.Discount > 0 {
		return p.Price * (1 - p.Discount/100)
	}
	return p.Price
}
