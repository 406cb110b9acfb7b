// Package notify contiene los observadores de stock bajo.
package notify

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/application/alert"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

var _ alert.StockObserver = (*LogObserver)(nil)

// LogObserver registra el aviso como warning en el log estructurado.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver construye el observador.
func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// NotifyLowStock implementa alert.StockObserver.
func (o *LogObserver) NotifyLowStock(_ context.Context, productID, productName string, stock int) error {
	o.log.Warn().
		Str("product_id", productID).
		Str("product_name", productName).
		Int("stock", stock).
		Msg("stock bajo")
	return nil
}
