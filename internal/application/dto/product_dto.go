package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el inventario inicial.
type CreateProductRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Code ni Stock).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
}

// ProductFilterRequest criterios de búsqueda (query string).
type ProductFilterRequest struct {
	Name     string `query:"name"`
	Category string `query:"category"`
	Code     string `query:"code"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	InitialStock   int             `json:"initial_stock"`
	Category       string          `json:"category"`
	TurnoverFactor decimal.Decimal `json:"turnover_factor"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TurnoverResponse resultado del recálculo de rotación.
type TurnoverResponse struct {
	ProductID      string          `json:"product_id"`
	Metric         string          `json:"metric"`
	Sales          decimal.Decimal `json:"sales"`
	AverageStock   decimal.Decimal `json:"average_stock"`
	TurnoverFactor decimal.Decimal `json:"turnover_factor"`
}

// LowStockResponse resultado de la verificación de stock bajo.
type LowStockResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
	LowStock    bool   `json:"low_stock"`
}

// StockLogResponse entrada de la auditoría de stock.
type StockLogResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Operation        string    `json:"operation"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// StockLogListResponse auditoría de un producto, de la más antigua a la más reciente.
type StockLogListResponse struct {
	Items []StockLogResponse `json:"items"`
	Total int                `json:"total"`
}
