// token emite un JWT de prueba para llamar a /api cuando JWT_SECRET está definido.
//
// Uso: go run ./cmd/token --user 42 --role bodeguero [--exp 60]
// El secreto, issuer y expiración por defecto se leen de la configuración (.env / env vars).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	userID := pflag.StringP("user", "u", "cli", "ID del usuario (claim user_id)")
	role := pflag.StringP("role", "r", jwt.RoleAdmin, "rol: admin | bodeguero | consulta")
	exp := pflag.IntP("exp", "e", cfg.JWT.Expiration, "expiración en minutos")
	pflag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleConsulta:
	default:
		fmt.Fprintf(os.Stderr, "Rol desconocido %q\n", *role)
		os.Exit(2)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, *exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
