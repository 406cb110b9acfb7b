// Package alert implementa el aviso de stock bajo (patrón observer).
package alert

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// StockObserver recibe el aviso cuando un producto queda con stock bajo.
type StockObserver interface {
	NotifyLowStock(ctx context.Context, productID, productName string, stock int) error
}

// ObserverFunc adapta una función a StockObserver.
type ObserverFunc func(ctx context.Context, productID, productName string, stock int) error

// NotifyLowStock implementa StockObserver.
func (f ObserverFunc) NotifyLowStock(ctx context.Context, productID, productName string, stock int) error {
	return f(ctx, productID, productName, stock)
}

// StockSubject mantiene la lista de observadores y los notifica en orden de registro.
// El fallo de un observador se registra en el log y no impide notificar a los demás.
type StockSubject struct {
	mu        sync.RWMutex
	observers []StockObserver
	log       *logger.Logger
}

// NewStockSubject construye el sujeto sin observadores.
func NewStockSubject(log *logger.Logger) *StockSubject {
	if log == nil {
		log = logger.Nop()
	}
	return &StockSubject{log: log}
}

// Register agrega un observador al final de la lista.
func (s *StockSubject) Register(o StockObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Len número de observadores registrados.
func (s *StockSubject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// NotifyObservers avisa a todos los observadores de forma síncrona.
func (s *StockSubject) NotifyObservers(ctx context.Context, productID, productName string, stock int) {
	s.mu.RLock()
	observers := make([]StockObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for i, o := range observers {
		if err := s.notifyOne(ctx, o, productID, productName, stock); err != nil {
			s.log.Error().Err(err).
				Int("observer", i).
				Str("product_id", productID).
				Int("stock", stock).
				Msg("observador de stock bajo falló")
		}
	}
}

func (s *StockSubject) notifyOne(ctx context.Context, o StockObserver, productID, productName string, stock int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic en observador: %v", r)
		}
	}()
	return o.NotifyLowStock(ctx, productID, productName, stock)
}

// CheckLowStock notifica si el stock del producto está por debajo del umbral.
// Devuelve true cuando se disparó el aviso.
func (s *StockSubject) CheckLowStock(ctx context.Context, p *entity.Product, threshold int) bool {
	if p == nil || !p.IsLowStock(threshold) {
		return false
	}
	s.NotifyObservers(ctx, p.ID, p.Name, p.Stock)
	return true
}
