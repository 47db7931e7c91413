package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "akademikku_backend/internals/helpers"
	helperAuth "akademikku_backend/internals/helpers/auth"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("apa-saja"))
	require.NoError(t, err)
	return tok
}

func newApp(required bool) *fiber.App {
	app := fiber.New()
	app.Use(ForwardToken(required))
	app.Get("/me", func(c *fiber.Ctx) error {
		cl := helperAuth.ClaimsFromCtx(c)
		return c.JSON(fiber.Map{
			"token": helper.GetRawAccessToken(c),
			"owner": helperAuth.OwnerKeyFromCtx(c),
			"admin": cl.IsSuperAdmin(),
		})
	})
	app.Get("/admin", OnlySuperAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestForwardToken(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"id": float64(42), "roles": []any{"Super Admin"}})

	cases := []struct {
		name     string
		required bool
		header   string
		cookie   string
		status   int
	}{
		{"tanpa token, wajib", true, "", "", http.StatusUnauthorized},
		{"tanpa token, opsional", false, "", "", http.StatusOK},
		{"bearer header", true, "Bearer " + tok, "", http.StatusOK},
		{"cookie", true, "", tok, http.StatusOK},
		{"bukan jwt tetap diteruskan", true, "Bearer opaque-token", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}
			res, err := newApp(tc.required).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

func TestOnlySuperAdmin(t *testing.T) {
	admin := signed(t, jwt.MapClaims{"sub": "u-1", "role": "superadmin"})
	dosen := signed(t, jwt.MapClaims{"sub": "u-2", "role": "dosen"})

	for tok, want := range map[string]int{admin: http.StatusOK, dosen: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		res, err := newApp(true).Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, res.StatusCode)
	}
}

func TestOwnerKeyFollowsRawToken(t *testing.T) {
	owner := func(token string) string {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		res, err := newApp(true).Test(req, -1)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		return body["owner"].(string)
	}

	a, b := owner("1|userAopaque"), owner("2|userBopaque")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, owner("1|userAopaque"))
	assert.Equal(t, helperAuth.OwnerKey("1|userAopaque"), a)

	// klaim id yang sama pada dua token berbeda tidak berbagi pemilik
	x := signed(t, jwt.MapClaims{"id": float64(42), "nonce": "x"})
	y := signed(t, jwt.MapClaims{"id": float64(42), "nonce": "y"})
	assert.NotEqual(t, owner(x), owner(y))
	assert.Empty(t, helperAuth.OwnerKey("  "))
}

func TestOnlyRolesDefaultMessage(t *testing.T) {
	app := fiber.New()
	app.Use(ForwardToken(true))
	app.Get("/dosen", OnlyRoles("", "dosen"), func(c *fiber.Ctx) error { return c.SendString("ok") })

	mhs := signed(t, jwt.MapClaims{"sub": "u-3", "role": "mahasiswa"})
	dosen := signed(t, jwt.MapClaims{"sub": "u-4", "role": "dosen"})

	cases := []struct {
		tok  string
		want int
	}{{mhs, http.StatusForbidden}, {dosen, http.StatusOK}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		tc := cases[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/dosen", nil)
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tc.tok)
			res, err := app.Test(req, -1)
			if assert.NoError(t, err) {
				assert.Equal(t, tc.want, res.StatusCode)
			}
		}()
	}
	wg.Wait()

	req := httptest.NewRequest(http.MethodGet, "/dosen", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+mhs)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "Forbidden: you are not authorized to access this resource", body["message"])
}
