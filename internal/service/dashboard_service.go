package service

import (
	"time"

	"go-pos-backoffice/internal/repository"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
	GetFinancialStats(startDate, endDate time.Time) (*FinancialStats, error)
}

// FinancialStats summarizes the ledger for a period: income from OUT
// movements (sales revenue), expense from IN movements (acquisition cost).
type FinancialStats struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

type dashboardService struct {
	movementRepo repository.MovementRepository
}

func NewDashboardService(movementRepo repository.MovementRepository) DashboardService {
	return &dashboardService{movementRepo: movementRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.movementRepo.GetDashboardStats()
}

func (s *dashboardService) GetFinancialStats(startDate, endDate time.Time) (*FinancialStats, error) {
	income, expense, err := s.movementRepo.GetFinancialSummary(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &FinancialStats{
		Income:  income,
		Expense: expense,
		Net:     income - expense,
	}, nil
}
