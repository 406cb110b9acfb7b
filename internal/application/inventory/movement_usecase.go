package inventory

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// MaxDescriptionLength largo máximo (en caracteres) de la descripción de un movimiento.
const MaxDescriptionLength = 255

// MovementUseCase registra, corrige y elimina movimientos de stock de forma transaccional:
// bloquea la fila del producto (SELECT FOR UPDATE), aplica el ledger y hace Commit o Rollback.
// El aviso de stock bajo se dispara después del commit.
type MovementUseCase struct {
	txRunner  TxRunner
	movRepo   repository.MovementRepository
	ledger    *StockLedger
	notifier  LowStockNotifier
	threshold int
	log       *logger.Logger
}

// NewMovementUseCase construye el caso de uso. movRepo se usa para lecturas fuera de transacción.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	ledger *StockLedger,
	notifier LowStockNotifier,
	threshold int,
	log *logger.Logger,
) *MovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementUseCase{
		txRunner:  txRunner,
		movRepo:   movRepo,
		ledger:    ledger,
		notifier:  notifier,
		threshold: threshold,
		log:       log,
	}
}

// Create registra una entrada o salida. Todo ocurre en una transacción:
// producto (bloqueado) → ledger → movimiento → producto → auditoría.
func (uc *MovementUseCase) Create(ctx context.Context, in dto.CreateMovementRequest) (*dto.MovementResultResponse, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	kind, err := entity.ParseMovementKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if err := validateMovement(in.Quantity, in.Description); err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Kind:        kind,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedAt:   now,
	}

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		logRepo repository.StockLogRepository,
	) error {
		p, err := lockProduct(ctx, productRepo, in.ProductID)
		if err != nil {
			return err
		}
		previous := p.Stock
		if err := inventory.Apply(p, kind, in.Quantity); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := uc.ledger.Commit(ctx, productRepo, movRepo, p, now); err != nil {
			return err
		}
		if err := uc.ledger.Audit(ctx, logRepo, p, previous, kind, now); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", product.ID).
		Str("kind", kind.String()).
		Int("quantity", mov.Quantity).
		Int("stock", product.Stock).
		Msg("movimiento registrado")

	low := uc.notifier.CheckLowStock(ctx, product, uc.threshold)
	return &dto.MovementResultResponse{
		Movement:     *ToMovementResponse(mov),
		ProductName:  product.Name,
		CurrentStock: product.Stock,
		LowStock:     low,
	}, nil
}

// Update corrige un movimiento: revierte su efecto y aplica el nuevo sobre el mismo producto.
// Si el stock resultante quedaría negativo devuelve ErrInsufficientStock y nada cambia.
func (uc *MovementUseCase) Update(ctx context.Context, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	kind, err := entity.ParseMovementKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if err := validateMovement(in.Quantity, in.Description); err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		mov     *entity.Movement
		product *entity.Product
	)
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		_ repository.StockLogRepository,
	) error {
		m, p, err := lockMovement(ctx, productRepo, movRepo, id)
		if err != nil {
			return err
		}
		if err := inventory.Replace(p, m.Kind, m.Quantity, kind, in.Quantity); err != nil {
			return err
		}
		m.Kind = kind
		m.Quantity = in.Quantity
		m.Description = in.Description
		if err := movRepo.Update(ctx, m); err != nil {
			return err
		}
		if err := uc.ledger.Commit(ctx, productRepo, movRepo, p, now); err != nil {
			return err
		}
		mov, product = m, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", product.ID).
		Int("stock", product.Stock).
		Msg("movimiento actualizado")

	uc.notifier.CheckLowStock(ctx, product, uc.threshold)
	return ToMovementResponse(mov), nil
}

// Delete elimina un movimiento y revierte su efecto sobre el stock del producto.
// Borrar una entrada cuyas unidades ya salieron devuelve ErrInsufficientStock.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) error {
	now := time.Now()
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		_ repository.StockLogRepository,
	) error {
		m, p, err := lockMovement(ctx, productRepo, movRepo, id)
		if err != nil {
			return err
		}
		if err := movRepo.Delete(ctx, id); err != nil {
			return err
		}
		if err := inventory.Reverse(p, m.Kind, m.Quantity); err != nil {
			return err
		}
		if err := uc.ledger.Commit(ctx, productRepo, movRepo, p, now); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("movement_id", id).
		Str("product_id", product.ID).
		Int("stock", product.Stock).
		Msg("movimiento eliminado")

	uc.notifier.CheckLowStock(ctx, product, uc.threshold)
	return nil
}

// GetByID obtiene un movimiento; ErrMovementNotFound si no existe.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := findMovement(ctx, uc.movRepo, id)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(m), nil
}

// Search lista movimientos filtrando por producto y/o tipo (AND). Sin filtros devuelve todos.
func (uc *MovementUseCase) Search(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	filter := repository.MovementFilter{ProductID: in.ProductID}
	if in.Kind != "" {
		kind, err := entity.ParseMovementKind(in.Kind)
		if err != nil {
			return nil, err
		}
		filter.Kind = kind
	}
	list, err := uc.movRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Total: len(items)}, nil
}

func validateMovement(quantity int, description string) error {
	if quantity <= 0 || quantity > inventory.MaxStock {
		return domain.ErrInvalidQuantity
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return domain.ErrInvalidInput
	}
	return nil
}

func lockProduct(ctx context.Context, repo repository.ProductRepository, id string) (*entity.Product, error) {
	p, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// lockMovement bloquea el producto del movimiento y luego relee el movimiento con
// FOR UPDATE. El orden producto → movimiento es el mismo que en Create, así las
// correcciones concurrentes del mismo movimiento se ven en serie y sin deadlock.
// product_id no cambia nunca, por eso la primera lectura sin bloqueo alcanza para ubicarlo.
func lockMovement(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	id string,
) (*entity.Movement, *entity.Product, error) {
	m, err := findMovement(ctx, movRepo, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := lockProduct(ctx, productRepo, m.ProductID)
	if err != nil {
		return nil, nil, err
	}
	m, err = movRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, domain.ErrMovementNotFound
	}
	return m, p, nil
}

func findMovement(ctx context.Context, repo repository.MovementRepository, id string) (*entity.Movement, error) {
	m, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrMovementNotFound
	}
	return m, nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Kind:        m.Kind.String(),
		Quantity:    m.Quantity,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
