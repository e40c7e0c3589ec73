package repository

import (
	"time"

	"go-pos-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	CreateTx(tx *gorm.DB, movement *model.StockMovement) error
	FindAll() ([]model.StockMovement, error)
	FindByID(id uuid.UUID) (*model.StockMovement, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
	GetFinancialSummary(startDate, endDate time.Time) (float64, float64, error)
}

// StockMovementData for chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats for overview stats
type DashboardStats struct {
	TotalProducts  int64   `json:"total_products"`
	LowStockCount  int64   `json:"low_stock_count"`
	TotalValuation float64 `json:"total_valuation"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

// CreateTx stages a ledger row inside the same transaction that mutates
// the product's stock.
func (r *movementRepo) CreateTx(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll() ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Product").Preload("CreatedByUser").Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := r.db.Preload("Product").Preload("CreatedByUser").First(&movement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *movementRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *movementRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	// Total Products
	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)

	// Low Stock Count (stock < 10)
	r.db.Model(&model.Product{}).Where("stock < ?", 10).Count(&stats.LowStockCount)

	// Total Valuation (SUM of stock * price)
	r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation)

	return &stats, nil
}

// GetFinancialSummary reports revenue (OUT movements) and acquisition cost
// (IN movements) for the period.
func (r *movementRepo) GetFinancialSummary(startDate, endDate time.Time) (float64, float64, error) {
	var income float64
	var expense float64

	err := r.db.Model(&model.StockMovement{}).
		Where("type = ? AND created_at BETWEEN ? AND ?", model.MovementOut, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&income).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.Model(&model.StockMovement{}).
		Where("type = ? AND created_at BETWEEN ? AND ?", model.MovementIn, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&expense).Error
	if err != nil {
		return 0, 0, err
	}

	return income, expense, nil
}
