package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// RequestLogger registra método, ruta, status y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if err != nil {
			status = fiber.StatusInternalServerError
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			cause := err
			if cause == nil {
				cause, _ = c.Locals(localInternalErr).(error)
			}
			ev = log.Error().Err(cause)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Msg("http")
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals("requestid").(string)
	return s
}
