package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-stock/internal/application/alert"
)

var _ alert.StockObserver = (*RedisObserver)(nil)

const lastAlertKeyPrefix = "inventario:stock-bajo:"

// DefaultPublishTimeout tope de espera por Redis en cada alerta.
const DefaultPublishTimeout = 2 * time.Second

// LowStockMessage mensaje publicado en el canal de alertas.
type LowStockMessage struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Stock       int       `json:"stock"`
	At          time.Time `json:"at"`
}

// RedisObserver publica el aviso en un canal Redis y guarda la última alerta por producto con TTL.
type RedisObserver struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewRedisObserver construye el observador sobre un cliente ya creado.
func NewRedisObserver(client *redis.Client, channel string, ttl time.Duration) *RedisObserver {
	return &RedisObserver{client: client, channel: channel, ttl: ttl, timeout: DefaultPublishTimeout, now: time.Now}
}

// WithTimeout cambia el tope de espera por alerta (<= 0 deja el valor por defecto).
// El cliente debe tener ContextTimeoutEnabled para que el tope aplique también a las lecturas.
func (o *RedisObserver) WithTimeout(d time.Duration) *RedisObserver {
	if d > 0 {
		o.timeout = d
	}
	return o
}

// LastAlertKey clave con la última alerta del producto.
func LastAlertKey(productID string) string {
	return lastAlertKeyPrefix + productID
}

// NotifyLowStock implementa alert.StockObserver. SET y PUBLISH van en un MULTI.
func (o *RedisObserver) NotifyLowStock(ctx context.Context, productID, productName string, stock int) error {
	payload, err := json.Marshal(LowStockMessage{
		ProductID:   productID,
		ProductName: productName,
		Stock:       stock,
		At:          o.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("serializar alerta: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	_, err = o.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, LastAlertKey(productID), payload, o.ttl)
		pipe.Publish(ctx, o.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publicar alerta en redis: %w", err)
	}
	return nil
}
