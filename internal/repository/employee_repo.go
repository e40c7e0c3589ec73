package repository

import (
	"go-pos-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	CreateTx(tx *gorm.DB, employee *model.Employee) error
	FindByUserID(userID uuid.UUID) (*model.Employee, error)
	FindByDocument(document string) (*model.Employee, error)
	Update(employee *model.Employee) error
	DeleteByUserIDTx(tx *gorm.DB, userID uuid.UUID) error
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db}
}

// CreateTx stages the HR record inside the same transaction that creates
// the user account.
func (r *employeeRepo) CreateTx(tx *gorm.DB, employee *model.Employee) error {
	return tx.Create(employee).Error
}

func (r *employeeRepo) FindByUserID(userID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.First(&employee, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) FindByDocument(document string) (*model.Employee, error) {
	var employee model.Employee
	if err := r.db.First(&employee, "document = ?", document).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) Update(employee *model.Employee) error {
	return r.db.Save(employee).Error
}

func (r *employeeRepo) DeleteByUserIDTx(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Delete(&model.Employee{}, "user_id = ?", userID).Error
}
