package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/nfe"
	"go-pos-backoffice/internal/repository"
	"go-pos-backoffice/internal/ws"
	"go-pos-backoffice/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrValidation marks request errors the caller should see as 400s.
	ErrValidation = errors.New("validation failed")

	ErrProductNotFound = errors.New("product not found")
	ErrCodeExists      = errors.New("product code already exists")
)

// TxRunner is the slice of *gorm.DB the transactional services need. Every
// stock mutation runs inside one Transaction call: all-or-nothing, no reader
// ever observes a partially applied document or cart.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type InventoryService interface {
	CreateProduct(req *model.Product, userID, userName, userEmail string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName, userEmail string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	ImportInvoice(doc []byte, userID, userName, userEmail string) (int, error)
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetAllMovements() ([]model.StockMovement, error)
	GetMovementByID(id uuid.UUID) (*model.StockMovement, error)
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	db           TxRunner
	wsHub        *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, db TxRunner, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, userID, userName, userEmail string) error {
	// Manual registration without a code takes the next value of the
	// internal numeric sequence.
	if req.Code == "" {
		code, err := s.nextGeneratedCode()
		if err != nil {
			return err
		}
		req.Code = code
	}
	if req.Unit == "" {
		req.Unit = nfe.DefaultUnit
	}
	if req.NCM == "" {
		req.NCM = nfe.DefaultNCM
	}
	if req.CFOP == "" {
		req.CFOP = nfe.DefaultCFOP
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrCodeExists
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcastStockUpdate("product_created", userID, userName, userEmail, map[string]interface{}{
		"product": map[string]interface{}{
			"id":    req.ID,
			"code":  req.Code,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
		"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
	})

	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName, userEmail string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	var updated *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByCodeForUpdate(tx, req.Code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Code is being changed; lock the row through its ID instead.
			current, findErr := s.productRepo.FindByIDForUpdate(tx, id)
			if findErr != nil {
				return ErrProductNotFound
			}
			existing = current
		} else if err != nil {
			return err
		} else if existing.ID != id {
			return ErrCodeExists
		}

		oldStock := existing.Stock

		existing.Code = req.Code
		existing.Name = req.Name
		existing.CostPrice = req.CostPrice
		existing.Price = req.Price
		existing.Discount = req.Discount
		existing.Stock = req.Stock
		existing.Category = req.Category
		existing.Unit = req.Unit
		existing.NCM = req.NCM
		existing.CFOP = req.CFOP
		existing.UpdatedBy = userID
		existing.UpdatedByUserID = &userID

		if err := s.productRepo.UpdateTx(tx, existing); err != nil {
			return err
		}
		updated = existing

		s.broadcastStockUpdate("product_updated", userID, userName, userEmail, map[string]interface{}{
			"product": map[string]interface{}{
				"id":        existing.ID,
				"code":      existing.Code,
				"name":      existing.Name,
				"old_stock": oldStock,
				"new_stock": existing.Stock,
				"price":     existing.Price,
			},
			"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
		})

		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// ImportInvoice parses an NF-e document and reconciles its line items
// against inventory: existing codes merge stock and overwrite cost, unknown
// codes create a product priced at cost times the markup factor. The whole
// document commits as one transaction; any failure leaves stock untouched.
// Returns the number of line items that produced a create or update.
func (s *inventoryService) ImportInvoice(doc []byte, userID, userName, userEmail string) (int, error) {
	lines, err := nfe.Parse(doc)
	if err != nil {
		return 0, err
	}

	processed := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			productID, productName, err := s.upsertLine(tx, line, userID)
			if err != nil {
				return err
			}

			movement := &model.StockMovement{
				ProductID:   productID,
				Type:        model.MovementIn,
				Quantity:    line.Quantity,
				UnitValue:   line.UnitCost,
				TotalAmount: line.UnitCost * float64(line.Quantity),
				Note:        fmt.Sprintf("NF-e import: %s", productName),
			}
			movement.CreatedBy = userID
			movement.CreatedByUserID = &userID
			if err := s.movementRepo.CreateTx(tx, movement); err != nil {
				return err
			}

			processed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.broadcastStockUpdate("invoice_imported", userID, userName, userEmail, map[string]interface{}{
		"items_processed": processed,
		"message":         fmt.Sprintf("%s imported an invoice (%d items)", userName, processed),
	})

	return processed, nil
}

// upsertLine applies one invoice line inside the open transaction. Matching
// is code-only: two lines describing the same product under different codes
// stay distinct, the code is the declared natural key.
func (s *inventoryService) upsertLine(tx *gorm.DB, line nfe.LineItem, userID string) (uuid.UUID, string, error) {
	existing, err := s.productRepo.FindByCodeForUpdate(tx, line.Code)
	switch {
	case err == nil:
		// Merge stock, overwrite cost. Sale price and discount stay as set.
		if err := s.productRepo.Restock(tx, existing.ID, existing.Stock+line.Quantity, line.UnitCost, userID); err != nil {
			return uuid.Nil, "", err
		}
		return existing.ID, existing.Name, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		product := &model.Product{
			Code:      line.Code,
			Name:      line.Description,
			CostPrice: line.UnitCost,
			Price:     line.UnitCost * model.MarkupFactor,
			Stock:     line.Quantity,
			Unit:      line.Unit,
			NCM:       line.NCM,
			CFOP:      line.CFOP,
		}
		product.CreatedBy = userID
		product.UpdatedBy = userID
		product.CreatedByUserID = &userID
		product.UpdatedByUserID = &userID
		if err := s.productRepo.CreateTx(tx, product); err != nil {
			return uuid.Nil, "", err
		}
		return product.ID, product.Name, nil

	default:
		return uuid.Nil, "", err
	}
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) GetAllMovements() ([]model.StockMovement, error) {
	return s.movementRepo.FindAll()
}

func (s *inventoryService) GetMovementByID(id uuid.UUID) (*model.StockMovement, error) {
	return s.movementRepo.FindByID(id)
}

// nextGeneratedCode continues the internal zero-padded numeric sequence
// ("001", "002", ...) used for products registered without a vendor EAN.
func (s *inventoryService) nextGeneratedCode() (string, error) {
	last, err := s.productRepo.LastGeneratedCode()
	if err != nil {
		return "", err
	}
	if last == "" {
		return "001", nil
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return "001", nil
	}
	return fmt.Sprintf("%03d", n+1), nil
}

func (s *inventoryService) broadcastStockUpdate(action, userID, userName, userEmail string, fields map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"user": map[string]interface{}{
				"id":    userID,
				"name":  userName,
				"email": userEmail,
			},
		}
		for k, v := range fields {
			payload[k] = v
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
