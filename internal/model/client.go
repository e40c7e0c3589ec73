package model

// Client is an entry in the customer registry (CPF or CNPJ holders).
type Client struct {
	BaseModel
	Name     string `gorm:"type:varchar(150);not null" json:"name" validate:"required"`
	Document string `gorm:"type:varchar(20);uniqueIndex;not null" json:"document" validate:"required"`
	Email    string `gorm:"type:varchar(120)" json:"email" validate:"omitempty,email"`
	Phone    string `gorm:"type:varchar(20)" json:"phone"`

	// Address
	CEP     string `gorm:"type:varchar(10)" json:"cep"`
	Address string `gorm:"type:varchar(200)" json:"address"`
	Number  string `gorm:"type:varchar(10)" json:"number"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(2)" json:"state"`
}
