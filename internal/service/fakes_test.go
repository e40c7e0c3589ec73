package service

import (
	"database/sql"
	"strconv"
	"time"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the products table and the stock
// movement ledger, shared by the fake repositories below.
type fakeStore struct {
	products  map[uuid.UUID]*model.Product
	movements []model.StockMovement
	codeOrder []string // creation order, for LastGeneratedCode
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[uuid.UUID]*model.Product)}
}

func (s *fakeStore) addProduct(p model.Product) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = &p
	s.codeOrder = append(s.codeOrder, p.Code)
	return p.ID
}

func (s *fakeStore) byCode(code string) *model.Product {
	for _, p := range s.products {
		if p.Code == code {
			return p
		}
	}
	return nil
}

type storeSnapshot struct {
	products  map[uuid.UUID]model.Product
	movements []model.StockMovement
	codeOrder []string
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{products: make(map[uuid.UUID]model.Product, len(s.products))}
	for id, p := range s.products {
		snap.products[id] = *p
	}
	snap.movements = append(snap.movements, s.movements...)
	snap.codeOrder = append(snap.codeOrder, s.codeOrder...)
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.products = make(map[uuid.UUID]*model.Product, len(snap.products))
	for id, p := range snap.products {
		copied := p
		s.products[id] = &copied
	}
	s.movements = snap.movements
	s.codeOrder = snap.codeOrder
}

// fakeTxRunner emulates the all-or-nothing contract of a real database
// transaction: any error from the callback restores the store to its
// pre-transaction state.
type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	snap := r.store.snapshot()
	if err := fc(nil); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type fakeProductRepo struct {
	store *fakeStore

	createCalls   int
	failCreateOn  int // 1-based call index that returns failErr, 0 disables
	restockCalls  int
	failRestockOn int
	failErr       error
}

func (r *fakeProductRepo) Create(product *model.Product) error {
	return r.CreateTx(nil, product)
}

func (r *fakeProductRepo) CreateTx(_ *gorm.DB, product *model.Product) error {
	r.createCalls++
	if r.failCreateOn > 0 && r.createCalls >= r.failCreateOn {
		return r.failErr
	}
	product.ID = r.store.addProduct(*product)
	return nil
}

func (r *fakeProductRepo) FindAll() ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.store.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if p, ok := r.store.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindByCode(code string) (*model.Product, error) {
	if p := r.store.byCode(code); p != nil {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindByCodeForUpdate(_ *gorm.DB, code string) (*model.Product, error) {
	return r.FindByCode(code)
}

func (r *fakeProductRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(id)
}

func (r *fakeProductRepo) Update(product *model.Product) error {
	return r.UpdateTx(nil, product)
}

func (r *fakeProductRepo) UpdateTx(_ *gorm.DB, product *model.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *product
	r.store.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) UpdateStock(_ *gorm.DB, id uuid.UUID, newStock int, updatedBy string) error {
	p, ok := r.store.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = newStock
	p.UpdatedBy = updatedBy
	return nil
}

func (r *fakeProductRepo) Restock(_ *gorm.DB, id uuid.UUID, newStock int, costPrice float64, updatedBy string) error {
	r.restockCalls++
	if r.failRestockOn > 0 && r.restockCalls >= r.failRestockOn {
		return r.failErr
	}
	p, ok := r.store.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = newStock
	p.CostPrice = costPrice
	p.UpdatedBy = updatedBy
	return nil
}

func (r *fakeProductRepo) Delete(id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) LastGeneratedCode() (string, error) {
	for i := len(r.store.codeOrder) - 1; i >= 0; i-- {
		code := r.store.codeOrder[i]
		if len(code) > 6 {
			continue
		}
		if _, err := strconv.Atoi(code); err == nil {
			return code, nil
		}
	}
	return "", nil
}

type fakeMovementRepo struct {
	store *fakeStore

	createCalls  int
	failCreateOn int
	failErr      error
}

func (r *fakeMovementRepo) CreateTx(_ *gorm.DB, movement *model.StockMovement) error {
	r.createCalls++
	if r.failCreateOn > 0 && r.createCalls >= r.failCreateOn {
		return r.failErr
	}
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) FindAll() ([]model.StockMovement, error) {
	return r.store.movements, nil
}

func (r *fakeMovementRepo) FindByID(id uuid.UUID) (*model.StockMovement, error) {
	for i := range r.store.movements {
		if r.store.movements[i].ID == id {
			return &r.store.movements[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovementRepo) GetStockMovement(_, _ time.Time) ([]repository.StockMovementData, error) {
	return nil, nil
}

func (r *fakeMovementRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func (r *fakeMovementRepo) GetFinancialSummary(start, end time.Time) (float64, float64, error) {
	var income, expense float64
	for _, m := range r.store.movements {
		switch m.Type {
		case model.MovementOut:
			income += m.TotalAmount
		case model.MovementIn:
			expense += m.TotalAmount
		}
	}
	return income, expense, nil
}
