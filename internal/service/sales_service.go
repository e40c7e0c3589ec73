package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/repository"
	"go-pos-backoffice/internal/ws"
	"go-pos-backoffice/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsufficientStockError names the first cart line that asked for more than
// the available stock. The whole cart is rejected when it is returned.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product '%s'", e.ProductName)
}

type SalesService interface {
	Checkout(req *CheckoutRequest, userID, userName, userEmail string) (*CheckoutResult, error)
}

// CartLine is one caller-supplied cart entry; it lives only for the
// duration of the checkout call.
type CartLine struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Items         []CartLine `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string     `json:"payment_method"` // CASH, CARD, PIX...
	Note          string     `json:"note"`
}

type CheckoutItem struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"` // discounted effective price
	Subtotal       float64 `json:"subtotal"`
	RemainingStock int     `json:"remaining_stock"`
}

type CheckoutResult struct {
	Items         []CheckoutItem `json:"items"`
	SkippedCodes  []string       `json:"skipped_codes,omitempty"` // cart lines with no matching product
	Total         float64        `json:"total"`
	PaymentMethod string         `json:"payment_method"`
}

type salesService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	db           TxRunner
	wsHub        *ws.Hub
}

func NewSalesService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, db TxRunner, hub *ws.Hub) SalesService {
	return &salesService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

// Checkout settles a cart: every line is validated against available stock
// before any decrement is written, and all decrements plus their OUT ledger
// rows commit as one transaction. A single short line rejects the entire
// cart; stock can never go negative or reflect a partial cart.
func (s *salesService) Checkout(req *CheckoutRequest, userID, userName, userEmail string) (*CheckoutResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	result := &CheckoutResult{PaymentMethod: req.PaymentMethod}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		type resolvedLine struct {
			product  *model.Product
			quantity int
		}

		var resolved []resolvedLine
		// remaining tracks stock staged so far per product, so a cart that
		// repeats a code cannot oversell between its own lines.
		remaining := make(map[uuid.UUID]int)

		for _, line := range req.Items {
			product, err := s.productRepo.FindByCodeForUpdate(tx, line.Code)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Unknown codes are skipped, not fatal; they are reported
				// back so the caller can flag them.
				result.SkippedCodes = append(result.SkippedCodes, line.Code)
				continue
			}
			if err != nil {
				return err
			}

			if _, seen := remaining[product.ID]; !seen {
				remaining[product.ID] = product.Stock
			}
			if remaining[product.ID] < line.Quantity {
				return &InsufficientStockError{ProductName: product.Name}
			}
			remaining[product.ID] -= line.Quantity
			resolved = append(resolved, resolvedLine{product: product, quantity: line.Quantity})
		}

		for _, line := range resolved {
			if err := s.productRepo.UpdateStock(tx, line.product.ID, remaining[line.product.ID], userID); err != nil {
				return err
			}

			unitPrice := line.product.FinalPrice()
			movement := &model.StockMovement{
				ProductID:     line.product.ID,
				Type:          model.MovementOut,
				Quantity:      line.quantity,
				UnitValue:     unitPrice,
				TotalAmount:   unitPrice * float64(line.quantity),
				PaymentMethod: req.PaymentMethod,
				Note:          req.Note,
			}
			movement.CreatedBy = userID
			movement.CreatedByUserID = &userID
			if err := s.movementRepo.CreateTx(tx, movement); err != nil {
				return err
			}

			result.Items = append(result.Items, CheckoutItem{
				Code:           line.product.Code,
				Name:           line.product.Name,
				Quantity:       line.quantity,
				UnitPrice:      unitPrice,
				Subtotal:       movement.TotalAmount,
				RemainingStock: remaining[line.product.ID],
			})
			result.Total += movement.TotalAmount
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastSale(userID, userName, userEmail, result)
	return result, nil
}

func (s *salesService) broadcastSale(userID, userName, userEmail string, result *CheckoutResult) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_settled",
			"sale": map[string]interface{}{
				"items":          result.Items,
				"total":          result.Total,
				"payment_method": result.PaymentMethod,
			},
			"user": map[string]interface{}{
				"id":    userID,
				"name":  userName,
				"email": userEmail,
			},
			"message": fmt.Sprintf("%s settled a sale (%d items)", userName, len(result.Items)),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
