package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-stock/pkg/jwt"
)

const (
	testJWTSecret = "secreto-de-pruebas"
	testUserID    = "bodega-norte-07"
	testIssuer    = "inventario-stock-test"
)

// tokenForRole devuelve el header Authorization con un JWT del rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

// whoAmI expone lo que el middleware dejó en Locals, detrás de RequireRole(roles...).
func whoAmI(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/yo",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	app := whoAmI(pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, pkgjwt.RoleConsulta)
	req := httptest.NewRequest(http.MethodGet, "/yo", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleBodeguero))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, pkgjwt.RoleBodeguero, body["role"])
}

func TestAuthMiddleware_YRequireRole(t *testing.T) {
	sinRol, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, 60)
	require.NoError(t, err)
	vencido, err := pkgjwt.Generate(testJWTSecret, testUserID, pkgjwt.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	otroSecreto, err := pkgjwt.Generate("otro-secreto", testUserID, pkgjwt.RoleAdmin, testIssuer, 60)
	require.NoError(t, err)

	cases := []struct {
		name   string
		roles  []string
		header string
		status int
		code   string
	}{
		{"admin en ruta admin", []string{pkgjwt.RoleAdmin}, tokenForRole(t, pkgjwt.RoleAdmin), http.StatusOK, ""},
		{"bodeguero en ruta de escritura", []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero}, tokenForRole(t, pkgjwt.RoleBodeguero), http.StatusOK, ""},
		{"consulta en ruta admin", []string{pkgjwt.RoleAdmin}, tokenForRole(t, pkgjwt.RoleConsulta), http.StatusForbidden, "FORBIDDEN"},
		{"bodeguero en ruta admin", []string{pkgjwt.RoleAdmin}, tokenForRole(t, pkgjwt.RoleBodeguero), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{pkgjwt.RoleAdmin}, "Bearer " + sinRol, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", []string{pkgjwt.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema basic", []string{pkgjwt.RoleAdmin}, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", []string{pkgjwt.RoleAdmin}, "Bearer a.b.c", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token vencido", []string{pkgjwt.RoleAdmin}, "Bearer " + vencido, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otro secreto", []string{pkgjwt.RoleAdmin}, "Bearer " + otroSecreto, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/yo", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := whoAmI(tc.roles...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}
