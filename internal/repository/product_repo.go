package repository

import (
	"go-pos-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	CreateTx(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	FindByCodeForUpdate(tx *gorm.DB, code string) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	UpdateTx(tx *gorm.DB, product *model.Product) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error
	Restock(tx *gorm.DB, id uuid.UUID, newStock int, costPrice float64, updatedBy string) error
	Delete(id uuid.UUID) error
	LastGeneratedCode() (string, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

// CreateTx stages a new product inside an open transaction.
func (r *productRepo) CreateTx(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("CreatedByUser").Preload("UpdatedByUser").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("CreatedByUser").Preload("UpdatedByUser").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByCodeForUpdate resolves a product by its code with a pessimistic row
// lock, so stock checks stay valid until the enclosing transaction commits.
func (r *productRepo) FindByCodeForUpdate(tx *gorm.DB, code string) (*model.Product, error) {
	var product model.Product
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) UpdateTx(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

// UpdateStock runs inside the caller's transaction so the whole cart or
// document commits atomically.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": updatedBy,
		}).Error
}

// Restock merges an invoice line into an existing product: stock is replaced
// with the merged total and cost price is overwritten (last write wins).
func (r *productRepo) Restock(tx *gorm.DB, id uuid.UUID, newStock int, costPrice float64, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"cost_price": costPrice,
			"updated_by": updatedBy,
		}).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// LastGeneratedCode returns the most recently created short numeric product
// code, or "" when none exists. Used to derive the next manual code. Vendor
// EAN/GTIN codes are 8+ digits and must not feed the sequence.
func (r *productRepo) LastGeneratedCode() (string, error) {
	var product model.Product
	err := r.db.Where("code ~ '^[0-9]{1,6}$'").Order("created_at DESC").First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return product.Code, nil
}
