package service

import (
	"errors"
	"testing"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/nfe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*fakeStore, *fakeProductRepo, *fakeMovementRepo, InventoryService) {
	store := newFakeStore()
	productRepo := &fakeProductRepo{store: store}
	movementRepo := &fakeMovementRepo{store: store}
	svc := NewInventoryService(productRepo, movementRepo, &fakeTxRunner{store: store}, nil)
	return store, productRepo, movementRepo, svc
}

func invoiceXML(body string) []byte {
	return []byte(`<NFe xmlns="http://www.portalfiscal.inf.br/nfe"><infNFe>` + body + `</infNFe></NFe>`)
}

func TestImportInvoice_CreatesNewProductWithMarkup(t *testing.T) {
	store, _, _, svc := newInventoryFixture()

	doc := invoiceXML(`
		<det nItem="1">
			<prod>
				<cEAN>789000111</cEAN>
				<xProd>SABAO EM PO 1KG</xProd>
				<qCom>10.0000</qCom>
				<vUnCom>2.0000</vUnCom>
			</prod>
		</det>`)

	processed, err := svc.ImportInvoice(doc, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	product := store.byCode("789000111")
	require.NotNil(t, product)
	assert.Equal(t, "SABAO EM PO 1KG", product.Name)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, 2.0, product.CostPrice)
	assert.Equal(t, 3.0, product.Price) // cost * 1.5

	require.Len(t, store.movements, 1)
	assert.Equal(t, model.MovementIn, store.movements[0].Type)
	assert.Equal(t, 10, store.movements[0].Quantity)
	assert.Equal(t, 20.0, store.movements[0].TotalAmount)
}

func TestImportInvoice_MergesStockAndOverwritesCost(t *testing.T) {
	store, _, _, svc := newInventoryFixture()
	store.addProduct(model.Product{
		Code:      "789000222",
		Name:      "DETERGENTE 500ML",
		CostPrice: 1.00,
		Price:     4.90,
		Discount:  10,
		Stock:     5,
	})

	doc := invoiceXML(`
		<det nItem="1">
			<prod>
				<cEAN>789000222</cEAN>
				<xProd>DETERGENTE 500ML</xProd>
				<qCom>3.0000</qCom>
				<vUnCom>1.2500</vUnCom>
			</prod>
		</det>`)

	processed, err := svc.ImportInvoice(doc, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	product := store.byCode("789000222")
	require.NotNil(t, product)
	assert.Equal(t, 8, product.Stock)
	assert.Equal(t, 1.25, product.CostPrice) // last invoice wins
	assert.Equal(t, 4.90, product.Price)     // sale price untouched
	assert.Equal(t, 10.0, product.Discount)  // discount untouched
}

func TestImportInvoice_SameCodeTwiceAccumulates(t *testing.T) {
	store, _, _, svc := newInventoryFixture()

	doc := invoiceXML(`
		<det nItem="1">
			<prod>
				<cEAN>789000333</cEAN>
				<xProd>ARROZ 5KG</xProd>
				<qCom>4.0000</qCom>
				<vUnCom>20.0000</vUnCom>
			</prod>
		</det>
		<det nItem="2">
			<prod>
				<cEAN>789000333</cEAN>
				<xProd>ARROZ 5KG</xProd>
				<qCom>6.0000</qCom>
				<vUnCom>21.0000</vUnCom>
			</prod>
		</det>`)

	processed, err := svc.ImportInvoice(doc, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	product := store.byCode("789000333")
	require.NotNil(t, product)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, 21.0, product.CostPrice)
	assert.Equal(t, 30.0, product.Price) // priced off the first line that created it
}

func TestImportInvoice_RollsBackWholeDocumentOnFailure(t *testing.T) {
	store, _, movementRepo, svc := newInventoryFixture()
	store.addProduct(model.Product{Code: "789000444", Name: "CAFE 500G", CostPrice: 8, Price: 15, Stock: 2})

	// Third ledger write fails; lines one and two were already applied and
	// must be undone with it.
	movementRepo.failCreateOn = 3
	movementRepo.failErr = errors.New("disk full")

	doc := invoiceXML(`
		<det nItem="1">
			<prod><cEAN>789000444</cEAN><xProd>CAFE 500G</xProd><qCom>5.0000</qCom><vUnCom>9.0000</vUnCom></prod>
		</det>
		<det nItem="2">
			<prod><cEAN>789000555</cEAN><xProd>ACUCAR 1KG</xProd><qCom>7.0000</qCom><vUnCom>3.0000</vUnCom></prod>
		</det>
		<det nItem="3">
			<prod><cEAN>789000666</cEAN><xProd>SAL 1KG</xProd><qCom>2.0000</qCom><vUnCom>1.0000</vUnCom></prod>
		</det>`)

	processed, err := svc.ImportInvoice(doc, "user-1", "Ana", "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, 0, processed)

	existing := store.byCode("789000444")
	require.NotNil(t, existing)
	assert.Equal(t, 2, existing.Stock)
	assert.Equal(t, 8.0, existing.CostPrice)

	assert.Nil(t, store.byCode("789000555"))
	assert.Nil(t, store.byCode("789000666"))
	assert.Empty(t, store.movements)
}

func TestImportInvoice_MalformedDocument(t *testing.T) {
	store, _, _, svc := newInventoryFixture()

	processed, err := svc.ImportInvoice([]byte("not xml at all"), "user-1", "Ana", "ana@example.com")
	assert.Equal(t, 0, processed)

	var parseErr *nfe.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Empty(t, store.products)
}

func TestImportInvoice_EmptyInvoice(t *testing.T) {
	_, _, _, svc := newInventoryFixture()

	processed, err := svc.ImportInvoice(invoiceXML(``), "user-1", "Ana", "ana@example.com")
	assert.Equal(t, 0, processed)
	assert.ErrorIs(t, err, nfe.ErrNoItems)
}

func TestCreateProduct_GeneratesSequentialCodes(t *testing.T) {
	store, _, _, svc := newInventoryFixture()

	first := &model.Product{Name: "Produto A", Price: 10}
	require.NoError(t, svc.CreateProduct(first, "user-1", "Ana", "ana@example.com"))
	assert.Equal(t, "001", first.Code)

	second := &model.Product{Name: "Produto B", Price: 5}
	require.NoError(t, svc.CreateProduct(second, "user-1", "Ana", "ana@example.com"))
	assert.Equal(t, "002", second.Code)

	// A vendor EAN in between must not disturb the sequence.
	withEAN := &model.Product{Code: "7891000100103", Name: "Produto C", Price: 2}
	require.NoError(t, svc.CreateProduct(withEAN, "user-1", "Ana", "ana@example.com"))

	third := &model.Product{Name: "Produto D", Price: 1}
	require.NoError(t, svc.CreateProduct(third, "user-1", "Ana", "ana@example.com"))
	assert.Equal(t, "003", third.Code)

	assert.Len(t, store.products, 4)
}

func TestCreateProduct_AppliesFiscalDefaults(t *testing.T) {
	store, _, _, svc := newInventoryFixture()

	product := &model.Product{Name: "Produto Manual", Price: 10}
	require.NoError(t, svc.CreateProduct(product, "user-1", "Ana", "ana@example.com"))

	stored := store.byCode(product.Code)
	require.NotNil(t, stored)
	assert.Equal(t, nfe.DefaultUnit, stored.Unit)
	assert.Equal(t, nfe.DefaultNCM, stored.NCM)
	assert.Equal(t, nfe.DefaultCFOP, stored.CFOP)
}

func TestCreateProduct_RejectsDuplicateCode(t *testing.T) {
	store, _, _, svc := newInventoryFixture()
	store.addProduct(model.Product{Code: "DUP-1", Name: "Existente", Price: 1})

	err := svc.CreateProduct(&model.Product{Code: "DUP-1", Name: "Duplicado", Price: 2}, "user-1", "Ana", "ana@example.com")
	assert.ErrorIs(t, err, ErrCodeExists)
}

func TestCreateProduct_RejectsInvalidFields(t *testing.T) {
	_, _, _, svc := newInventoryFixture()

	err := svc.CreateProduct(&model.Product{Name: "Negativo", Price: -1}, "user-1", "Ana", "ana@example.com")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.CreateProduct(&model.Product{Name: "Desconto", Price: 1, Discount: 150}, "user-1", "Ana", "ana@example.com")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProduct_ChangesFieldsAndKeepsCode(t *testing.T) {
	store, _, _, svc := newInventoryFixture()
	id := store.addProduct(model.Product{Code: "789000777", Name: "Velho", Price: 10, Stock: 4})

	updated, err := svc.UpdateProduct(id, &model.Product{
		Code:  "789000777",
		Name:  "Novo Nome",
		Price: 12,
		Stock: 4,
	}, "user-1", "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", updated.Name)
	assert.Equal(t, 12.0, updated.Price)

	stored := store.byCode("789000777")
	require.NotNil(t, stored)
	assert.Equal(t, "Novo Nome", stored.Name)
}

func TestUpdateProduct_RejectsCodeOwnedByAnother(t *testing.T) {
	store, _, _, svc := newInventoryFixture()
	store.addProduct(model.Product{Code: "AAA", Name: "Primeiro", Price: 1})
	id := store.addProduct(model.Product{Code: "BBB", Name: "Segundo", Price: 1})

	_, err := svc.UpdateProduct(id, &model.Product{Code: "AAA", Name: "Segundo", Price: 1}, "user-1", "Ana", "ana@example.com")
	assert.ErrorIs(t, err, ErrCodeExists)
}

func TestDeleteProduct_UnknownID(t *testing.T) {
	_, _, _, svc := newInventoryFixture()

	err := svc.DeleteProduct(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}
