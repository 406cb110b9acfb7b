package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	appinventory "github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// KardexGenerator genera el reporte PDF de movimientos de un producto.
type KardexGenerator interface {
	GenerateKardex(ctx context.Context, product *entity.Product, movements []*entity.Movement) ([]byte, error)
}

// ProductUseCase casos de uso CRUD para productos. Stock y rotación se manejan vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movRepo   repository.MovementRepository
	logRepo   repository.StockLogRepository
	txRunner  appinventory.TxRunner
	ledger    *appinventory.StockLedger
	notifier  appinventory.LowStockNotifier
	threshold int
	kardex    KardexGenerator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movRepo repository.MovementRepository,
	logRepo repository.StockLogRepository,
	txRunner appinventory.TxRunner,
	ledger *appinventory.StockLedger,
	notifier appinventory.LowStockNotifier,
	threshold int,
	kardex KardexGenerator,
) *ProductUseCase {
	return &ProductUseCase{
		repo:      repo,
		movRepo:   movRepo,
		logRepo:   logRepo,
		txRunner:  txRunner,
		ledger:    ledger,
		notifier:  notifier,
		threshold: threshold,
		kardex:    kardex,
	}
}

// Create crea un nuevo producto. El stock recibido queda también como inventario inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock < 0 || in.Stock > inventory.MaxStock {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateProductCode
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Code:           in.Code,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		Stock:          in.Stock,
		InitialStock:   in.Stock,
		Category:       strings.TrimSpace(in.Category),
		TurnoverFactor: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Search lista productos por nombre (contiene), categoría y/o código. Sin filtros devuelve todos.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	list, err := uc.repo.Search(ctx, repository.ProductFilter{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Code:     strings.TrimSpace(in.Code),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Update actualiza un producto. Código, stock y fecha de creación no cambian.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto sin movimientos; si tiene devuelve ErrProductHasMovements.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		_ repository.StockLogRepository,
	) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		n, err := movRepo.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrProductHasMovements
		}
		return productRepo.Delete(ctx, id)
	})
}

// RecalculateTurnover recalcula y persiste el factor de rotación del producto.
func (uc *ProductUseCase) RecalculateTurnover(ctx context.Context, id string) (*dto.TurnoverResponse, error) {
	var out *dto.TurnoverResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		_ repository.StockLogRepository,
	) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		sales, err := uc.ledger.RecalculateTurnover(ctx, movRepo, p)
		if err != nil {
			return err
		}
		p.UpdatedAt = time.Now()
		if err := productRepo.UpdateStock(ctx, p); err != nil {
			return err
		}
		out = &dto.TurnoverResponse{
			ProductID:      p.ID,
			Metric:         string(uc.ledger.Metric()),
			Sales:          sales,
			AverageStock:   decimal.NewFromInt(int64(p.InitialStock + p.Stock)).Div(decimal.NewFromInt(2)),
			TurnoverFactor: p.TurnoverFactor,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckLowStock verifica el umbral y, si corresponde, notifica a los observadores.
func (uc *ProductUseCase) CheckLowStock(ctx context.Context, id string) (*dto.LowStockResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	low := uc.notifier.CheckLowStock(ctx, p, uc.threshold)
	return &dto.LowStockResponse{
		ProductID:   p.ID,
		ProductName: p.Name,
		Stock:       p.Stock,
		Threshold:   uc.threshold,
		LowStock:    low,
	}, nil
}

// ListStockLogs devuelve la auditoría de stock del producto.
func (uc *ProductUseCase) ListStockLogs(ctx context.Context, id string) (*dto.StockLogListResponse, error) {
	if _, err := uc.find(ctx, id); err != nil {
		return nil, err
	}
	logs, err := uc.logRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.StockLogResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			PreviousQuantity: l.PreviousQuantity,
			NewQuantity:      l.NewQuantity,
			Operation:        l.Operation,
			CreatedAt:        l.CreatedAt,
		})
	}
	return &dto.StockLogListResponse{Items: items, Total: len(items)}, nil
}

// KardexPDF genera el PDF con los movimientos del producto en orden cronológico.
func (uc *ProductUseCase) KardexPDF(ctx context.Context, id string) ([]byte, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movRepo.Search(ctx, repository.MovementFilter{ProductID: id})
	if err != nil {
		return nil, err
	}
	return uc.kardex.GenerateKardex(ctx, p, movements)
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Stock:          p.Stock,
		InitialStock:   p.InitialStock,
		Category:       p.Category,
		TurnoverFactor: p.TurnoverFactor,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
