package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the HR record attached one-to-one to a User account.
type Employee struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id" validate:"uuid_required"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`

	// CPF or other national document, unique across employees
	Document string `gorm:"type:varchar(14);uniqueIndex" json:"document"`

	Position         string     `gorm:"type:varchar(100)" json:"position"`
	AdmissionDate    *time.Time `gorm:"type:date" json:"admission_date,omitempty"`
	BloodType        string     `gorm:"type:varchar(3)" json:"blood_type"`
	EmergencyContact string     `gorm:"type:varchar(20)" json:"emergency_contact"`
	Salary           float64    `gorm:"default:0" json:"salary"`

	// Address
	CEP     string `gorm:"type:varchar(9)" json:"cep"`
	Address string `gorm:"type:varchar(200)" json:"address"`
	Number  string `gorm:"type:varchar(10)" json:"number"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(2)" json:"state"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
}

// EmployeeResponse for API responses
type EmployeeResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Document         string    `json:"document"`
	Position         string    `json:"position"`
	AdmissionDate    string    `json:"admission_date,omitempty"`
	BloodType        string    `json:"blood_type"`
	EmergencyContact string    `json:"emergency_contact"`
	Salary           float64   `json:"salary"`
	CEP              string    `json:"cep"`
	Address          string    `json:"address"`
	Number           string    `json:"number"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Notes            string    `json:"notes,omitempty"`
}

// ToResponse converts Employee to EmployeeResponse
func (e *Employee) ToResponse() EmployeeResponse {
	response := EmployeeResponse{
		ID:               e.ID,
		UserID:           e.UserID,
		Document:         e.Document,
		Position:         e.Position,
		BloodType:        e.BloodType,
		EmergencyContact: e.EmergencyContact,
		Salary:           e.Salary,
		CEP:              e.CEP,
		Address:          e.Address,
		Number:           e.Number,
		City:             e.City,
		State:            e.State,
		Notes:            e.Notes,
	}
	if e.AdmissionDate != nil {
		response.AdmissionDate = e.AdmissionDate.Format("2006-01-02")
	}
	return response
}
