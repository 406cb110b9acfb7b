package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/alert"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

type kardexMock struct {
	mock.Mock
}

func (m *kardexMock) GenerateKardex(ctx context.Context, p *entity.Product, movements []*entity.Movement) ([]byte, error) {
	args := m.Called(ctx, p, movements)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

type env struct {
	products  *usecase.ProductUseCase
	movements *appinventory.MovementUseCase
	kardex    *kardexMock
	alerts    *int
	ctx       context.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ledger := appinventory.NewStockLedger(inventory.MetricQuantity)

	fired := 0
	subject := alert.NewStockSubject(logger.Nop())
	subject.Register(alert.ObserverFunc(func(context.Context, string, string, int) error {
		fired++
		return nil
	}))

	k := &kardexMock{}
	return &env{
		products: usecase.NewProductUseCase(
			store.Products(), store.Movements(), store.StockLogs(),
			tx, ledger, subject, 10, k,
		),
		movements: appinventory.NewMovementUseCase(tx, store.Movements(), ledger, subject, 10, logger.Nop()),
		kardex:    k,
		alerts:    &fired,
		ctx:       context.Background(),
	}
}

func (e *env) mustCreate(t *testing.T, code string, stock int) *dto.ProductResponse {
	t.Helper()
	out, err := e.products.Create(e.ctx, dto.CreateProductRequest{
		Code: code, Name: "Producto " + code, Price: decimal.NewFromInt(50), Stock: stock, Category: "aseo",
	})
	require.NoError(t, err)
	return out
}

func TestProductCreate_FijaInventarioInicial(t *testing.T) {
	e := newEnv(t)
	out := e.mustCreate(t, "A1", 25)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 25, out.Stock)
	assert.Equal(t, 25, out.InitialStock)
	assert.True(t, out.TurnoverFactor.IsZero())
	assert.False(t, out.CreatedAt.IsZero())
}

func TestProductCreate_CodigoDuplicado(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "A1", 1)

	_, err := e.products.Create(e.ctx, dto.CreateProductRequest{Code: "A1", Name: "otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicateProductCode)
}

func TestProductCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	cases := []dto.CreateProductRequest{
		{Code: "", Name: "x"},
		{Code: "A", Name: "  "},
		{Code: "A", Name: "x", Price: decimal.NewFromInt(-1)},
		{Code: "A", Name: "x", Stock: -1},
	}
	for _, in := range cases {
		_, err := e.products.Create(e.ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestProductUpdate_NoCambiaCodigoNiStock(t *testing.T) {
	e := newEnv(t)
	created := e.mustCreate(t, "A1", 25)

	name := "Jabón líquido"
	price := decimal.RequireFromString("12.50")
	out, err := e.products.Update(e.ctx, created.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)

	assert.Equal(t, "Jabón líquido", out.Name)
	assert.True(t, out.Price.Equal(price))
	assert.Equal(t, "A1", out.Code)
	assert.Equal(t, 25, out.Stock)
	assert.True(t, out.CreatedAt.Equal(created.CreatedAt))

	got, err := e.products.GetByID(e.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jabón líquido", got.Name)
}

func TestProductGetByID_Inexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.products.GetByID(e.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductSearch_PorNombreYCategoria(t *testing.T) {
	e := newEnv(t)
	e.mustCreate(t, "A1", 1)
	e.mustCreate(t, "B2", 1)

	out, err := e.products.Search(e.ctx, dto.ProductFilterRequest{Name: "producto b"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "B2", out.Items[0].Code)

	out, err = e.products.Search(e.ctx, dto.ProductFilterRequest{Category: "ASEO"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
}

func TestProductDelete_BloqueadoConMovimientos(t *testing.T) {
	e := newEnv(t)
	p := e.mustCreate(t, "A1", 10)
	_, err := e.movements.Create(e.ctx, dto.CreateMovementRequest{ProductID: p.ID, Kind: "EXIT", Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, e.products.Delete(e.ctx, p.ID), domain.ErrProductHasMovements)
	_, err = e.products.GetByID(e.ctx, p.ID)
	assert.NoError(t, err)
}

func TestProductDelete_SinMovimientos(t *testing.T) {
	e := newEnv(t)
	p := e.mustCreate(t, "A1", 10)

	require.NoError(t, e.products.Delete(e.ctx, p.ID))
	_, err := e.products.GetByID(e.ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.ErrorIs(t, e.products.Delete(e.ctx, p.ID), domain.ErrProductNotFound)
}

func TestProductRecalculateTurnover(t *testing.T) {
	e := newEnv(t)
	p := e.mustCreate(t, "A1", 10)
	for _, in := range []dto.CreateMovementRequest{
		{ProductID: p.ID, Kind: "ENTRY", Quantity: 6},
		{ProductID: p.ID, Kind: "EXIT", Quantity: 6},
	} {
		_, err := e.movements.Create(e.ctx, in)
		require.NoError(t, err)
	}

	out, err := e.products.RecalculateTurnover(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "quantity", out.Metric)
	assert.True(t, out.Sales.Equal(decimal.NewFromInt(6)))
	assert.True(t, out.AverageStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, out.TurnoverFactor.Equal(decimal.RequireFromString("0.6")))

	_, err = e.products.RecalculateTurnover(e.ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductCheckLowStock(t *testing.T) {
	e := newEnv(t)
	low := e.mustCreate(t, "A1", 3)
	ok := e.mustCreate(t, "B2", 10)

	out, err := e.products.CheckLowStock(e.ctx, low.ID)
	require.NoError(t, err)
	assert.True(t, out.LowStock)
	assert.Equal(t, 10, out.Threshold)
	assert.Equal(t, 1, *e.alerts)

	out, err = e.products.CheckLowStock(e.ctx, ok.ID)
	require.NoError(t, err)
	assert.False(t, out.LowStock)
	assert.Equal(t, 1, *e.alerts)
}

func TestProductListStockLogs(t *testing.T) {
	e := newEnv(t)
	p := e.mustCreate(t, "A1", 10)
	_, err := e.movements.Create(e.ctx, dto.CreateMovementRequest{ProductID: p.ID, Kind: "ENTRY", Quantity: 2})
	require.NoError(t, err)
	_, err = e.movements.Create(e.ctx, dto.CreateMovementRequest{ProductID: p.ID, Kind: "EXIT", Quantity: 5})
	require.NoError(t, err)

	out, err := e.products.ListStockLogs(e.ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)
	assert.Equal(t, 10, out.Items[0].PreviousQuantity)
	assert.Equal(t, 12, out.Items[0].NewQuantity)
	assert.Equal(t, "EXIT", out.Items[1].Operation)
	assert.Equal(t, 7, out.Items[1].NewQuantity)
}

func TestProductKardexPDF_PasaMovimientosEnOrden(t *testing.T) {
	e := newEnv(t)
	p := e.mustCreate(t, "A1", 10)
	_, err := e.movements.Create(e.ctx, dto.CreateMovementRequest{ProductID: p.ID, Kind: "ENTRY", Quantity: 2})
	require.NoError(t, err)
	_, err = e.movements.Create(e.ctx, dto.CreateMovementRequest{ProductID: p.ID, Kind: "EXIT", Quantity: 1})
	require.NoError(t, err)

	e.kardex.On("GenerateKardex", mock.Anything,
		mock.MatchedBy(func(prod *entity.Product) bool { return prod.ID == p.ID && prod.Stock == 11 }),
		mock.MatchedBy(func(ms []*entity.Movement) bool {
			return len(ms) == 2 && ms[0].Kind == entity.MovementEntry && ms[1].Kind == entity.MovementExit
		}),
	).Return([]byte("%PDF-1.3"), nil).Once()

	pdf, err := e.products.KardexPDF(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), pdf)
	e.kardex.AssertExpectations(t)
}
