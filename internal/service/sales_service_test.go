package service

import (
	"testing"

	"go-pos-backoffice/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSalesFixture() (*fakeStore, SalesService) {
	store := newFakeStore()
	productRepo := &fakeProductRepo{store: store}
	movementRepo := &fakeMovementRepo{store: store}
	svc := NewSalesService(productRepo, movementRepo, &fakeTxRunner{store: store}, nil)
	return store, svc
}

func TestCheckout_SettlesCartAndWritesLedger(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 5})
	store.addProduct(model.Product{Code: "B", Name: "Cafe", Price: 6, Discount: 50, Stock: 3})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{
			{Code: "A", Quantity: 2},
			{Code: "B", Quantity: 1},
		},
		PaymentMethod: "PIX",
	}, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, 3, store.byCode("A").Stock)
	assert.Equal(t, 2, store.byCode("B").Stock)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 10.0, result.Items[0].UnitPrice)
	assert.Equal(t, 3.0, result.Items[1].UnitPrice) // 50% discount applied
	assert.Equal(t, 23.0, result.Total)
	assert.Empty(t, result.SkippedCodes)
	assert.Equal(t, "PIX", result.PaymentMethod)

	require.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, model.MovementOut, m.Type)
		assert.Equal(t, "PIX", m.PaymentMethod)
	}
	assert.Equal(t, 20.0, store.movements[0].TotalAmount)
	assert.Equal(t, 3.0, store.movements[1].TotalAmount)
}

func TestCheckout_ShortLineRejectsWholeCart(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 5})
	store.addProduct(model.Product{Code: "B", Name: "Cafe", Price: 6, Stock: 1})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{
			{Code: "A", Quantity: 2},
			{Code: "B", Quantity: 2},
		},
	}, "user-1", "Ana", "ana@example.com")
	require.Error(t, err)
	assert.Nil(t, result)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Cafe", stockErr.ProductName)

	// Nothing moved, including the line that had enough stock.
	assert.Equal(t, 5, store.byCode("A").Stock)
	assert.Equal(t, 1, store.byCode("B").Stock)
	assert.Empty(t, store.movements)
}

func TestCheckout_RepeatedCodeCannotOversell(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 3})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{
			{Code: "A", Quantity: 2},
			{Code: "A", Quantity: 2},
		},
	}, "user-1", "Ana", "ana@example.com")
	require.Error(t, err)
	assert.Nil(t, result)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, store.byCode("A").Stock)
}

func TestCheckout_RepeatedCodeWithinStock(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 5})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{
			{Code: "A", Quantity: 2},
			{Code: "A", Quantity: 3},
		},
	}, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, 0, store.byCode("A").Stock)
	require.Len(t, result.Items, 2)
	assert.Equal(t, 50.0, result.Total)
}

func TestCheckout_SkipsUnknownCodes(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 5})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{
			{Code: "NAO-EXISTE", Quantity: 1},
			{Code: "A", Quantity: 1},
		},
	}, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"NAO-EXISTE"}, result.SkippedCodes)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "A", result.Items[0].Code)
	assert.Equal(t, 4, store.byCode("A").Stock)
}

func TestCheckout_EmptyCart(t *testing.T) {
	_, svc := newSalesFixture()

	result, err := svc.Checkout(&CheckoutRequest{}, "user-1", "Ana", "ana@example.com")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckout_NonPositiveQuantity(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 5})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{{Code: "A", Quantity: 0}},
	}, "user-1", "Ana", "ana@example.com")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrValidation)

	result, err = svc.Checkout(&CheckoutRequest{
		Items: []CartLine{{Code: "A", Quantity: -2}},
	}, "user-1", "Ana", "ana@example.com")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 5, store.byCode("A").Stock)
}

func TestCheckout_ExactStockReachesZero(t *testing.T) {
	store, svc := newSalesFixture()
	store.addProduct(model.Product{Code: "A", Name: "Leite", Price: 10, Stock: 2})

	result, err := svc.Checkout(&CheckoutRequest{
		Items: []CartLine{{Code: "A", Quantity: 2}},
	}, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, 0, store.byCode("A").Stock)
	assert.Equal(t, 0, result.Items[0].RemainingStock)
}
