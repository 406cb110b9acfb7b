package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/alert"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// testPool conecta a TEST_DATABASE_URL; sin ella los tests de integración se omiten.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido; se omiten tests de PostgreSQL")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	if err != nil {
		t.Skipf("PostgreSQL no disponible: %v", err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE stock_logs, movements, products`)
	require.NoError(t, err)
	return pool
}

func newProduct(code string, stock int) *entity.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.Product{
		ID: uuid.New().String(), Code: code, Name: "Producto " + code, Category: "Aseo",
		Price: decimal.RequireFromString("2500.50"), Stock: stock, InitialStock: stock,
		TurnoverFactor: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	}
}

func TestProductRepo_CRUD(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)

	p := newProduct("A-1", 10)
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, newProduct("A-1", 1)), domain.ErrDuplicateProductCode)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A-1", got.Code)
	assert.True(t, got.Price.Equal(p.Price))

	missing, err := repo.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byCode, err := repo.GetByCode(ctx, "A-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCode.ID)

	got.Name = "Nuevo nombre"
	got.Stock = 999 // Update no toca stock
	require.NoError(t, repo.Update(ctx, got))
	again, _ := repo.GetByID(ctx, p.ID)
	assert.Equal(t, "Nuevo nombre", again.Name)
	assert.Equal(t, 10, again.Stock)

	list, err := repo.Search(ctx, repository.ProductFilter{Name: "nuevo", Category: "aseo"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	gone, _ := repo.GetByID(ctx, p.ID)
	assert.Nil(t, gone)
}

func TestMovementRepo_AgregadosYFiltros(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	movements := postgres.NewMovementRepository(pool)

	p := newProduct("B-1", 20)
	require.NoError(t, products.Create(ctx, p))

	now := time.Now().UTC()
	for i, m := range []struct {
		kind entity.MovementKind
		qty  int
	}{{entity.MovementEntry, 5}, {entity.MovementExit, 2}, {entity.MovementExit, 3}} {
		require.NoError(t, movements.Create(ctx, &entity.Movement{
			ID: uuid.New().String(), ProductID: p.ID, Kind: m.kind, Quantity: m.qty,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	exits, err := movements.Search(ctx, repository.MovementFilter{ProductID: p.ID, Kind: entity.MovementExit})
	require.NoError(t, err)
	require.Len(t, exits, 2)
	assert.Equal(t, 2, exits[0].Quantity)

	qty, err := movements.SumExitQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	cost, err := movements.SumExitCost(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("12502.50")), "obtenido %s", cost)

	n, err := movements.CountByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	none, err := movements.Search(ctx, repository.MovementFilter{ProductID: "no-es-uuid"})
	require.NoError(t, err)
	assert.Empty(t, none)

	locked, err := movements.GetForUpdate(ctx, exits[0].ID)
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, exits[0].ID, locked.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Correcciones concurrentes de un mismo movimiento
// ──────────────────────────────────────────────────────────────────────────────

func newMovementUseCase(pool *pgxpool.Pool) *appinventory.MovementUseCase {
	return appinventory.NewMovementUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewMovementRepository(pool),
		appinventory.NewStockLedger(inventory.MetricQuantity),
		alert.NewStockSubject(logger.Nop()),
		0,
		logger.Nop(),
	)
}

// seedMovement crea un producto con stock 10 y una ENTRY(5): stock 15.
func seedMovement(t *testing.T, pool *pgxpool.Pool, uc *appinventory.MovementUseCase, code string) (*entity.Product, string) {
	t.Helper()
	ctx := context.Background()
	p := newProduct(code, 10)
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, p))
	out, err := uc.Create(ctx, dto.CreateMovementRequest{ProductID: p.ID, Kind: "ENTRY", Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, out.CurrentStock)
	return p, out.Movement.ID
}

func TestMovementUseCase_UpdatesConcurrentesDelMismoMovimiento(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uc := newMovementUseCase(pool)
	p, movID := seedMovement(t, pool, uc, "D-1")

	updates := []dto.UpdateMovementRequest{
		{Kind: "EXIT", Quantity: 3},
		{Kind: "ENTRY", Quantity: 1},
		{Kind: "EXIT", Quantity: 7},
		{Kind: "ENTRY", Quantity: 9},
		{Kind: "EXIT", Quantity: 10},
		{Kind: "ENTRY", Quantity: 2},
	}
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, in := range updates {
		wg.Add(1)
		go func(in dto.UpdateMovementRequest) {
			defer wg.Done()
			<-start
			_, err := uc.Update(ctx, movID, in)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}(in)
	}
	close(start)
	wg.Wait()

	m, err := postgres.NewMovementRepository(pool).GetByID(ctx, movID)
	require.NoError(t, err)
	require.NotNil(t, m)
	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10+m.Kind.Effect(m.Quantity), got.Stock,
		"el stock debe reflejar solo la versión final del movimiento")
}

func TestMovementUseCase_UpdateYDeleteConcurrentes(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	uc := newMovementUseCase(pool)
	p, movID := seedMovement(t, pool, uc, "E-1")

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		_, err := uc.Update(ctx, movID, dto.UpdateMovementRequest{Kind: "EXIT", Quantity: 3})
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrMovementNotFound)
		}
	}()
	go func() {
		defer wg.Done()
		<-start
		assert.NoError(t, uc.Delete(ctx, movID))
	}()
	close(start)
	wg.Wait()

	m, err := postgres.NewMovementRepository(pool).GetByID(ctx, movID)
	require.NoError(t, err)
	assert.Nil(t, m)
	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock, "borrado el movimiento el stock vuelve al inicial")
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	p := newProduct("C-1", 10)
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, p))

	boom := errors.New("falla")
	err := postgres.NewTxRunner(pool).Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		logRepo repository.StockLogRepository,
	) error {
		locked, err := productRepo.GetForUpdate(ctx, p.ID)
		require.NoError(t, err)
		locked.Stock = 0
		require.NoError(t, productRepo.UpdateStock(ctx, locked))
		require.NoError(t, logRepo.Record(ctx, &entity.StockLog{
			ID: uuid.New().String(), ProductID: p.ID, PreviousQuantity: 10, NewQuantity: 0,
			Operation: "EXIT", CreatedAt: time.Now(),
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	assert.Equal(t, 10, got.Stock)
	logs, err := postgres.NewStockLogRepository(pool).ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
