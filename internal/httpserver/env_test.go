package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mberezin/shop_backend/internal/config"
	"github.com/mberezin/shop_backend/internal/hash"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
	"github.com/mberezin/shop_backend/internal/service"
	"github.com/mberezin/shop_backend/internal/tokens"
)

type stubMailer struct {
	codes []string
}

func (m *stubMailer) SendVerification(to, username, code string) error {
	m.codes = append(m.codes, code)
	return nil
}
func (m *stubMailer) SendWelcome(to, username string) error                 { return nil }
func (m *stubMailer) SendPasswordReset(to, username, resetURL string) error { return nil }
func (m *stubMailer) SendPasswordResetSuccess(to, username string) error    { return nil }

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	DB   *gorm.DB
	Mail *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	r := repo.NewGormRepo(db)
	mailer := &stubMailer{}
	jwtSecret := []byte("test-jwt-secret")

	deps := Deps{
		AuthHandler: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:       r,
				Mail:       mailer,
				JWTSecret:  jwtSecret,
				AdminEmail: "admin@shop.test",
				AppURL:     "http://shop.test",
			},
		},
		ProductHandler:  &ProductHTTP{Svc: &service.CatalogService{Repo: r}},
		CategoryHandler: &CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		CartHandler:     &CartHTTP{Svc: &service.CartService{Repo: r}},
		ReviewHandler:   &ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		JWTSecret:       jwtSecret,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	Register(e, &deps)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return &testEnv{T: t, E: e, DB: db, Mail: mailer}
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder, out any) {
	env.T.Helper()
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), out))
}

func (env *testEnv) createUser(username, email, role string) (*models.User, string) {
	env.T.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		IsVerified:   true,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)

	rec := env.do(http.MethodPost, "/users/login", "", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	var result service.LoginResult
	env.decode(rec, &result)
	return &user, result.AccessToken
}

func (env *testEnv) createProduct(name string, price float64, stock uint) *models.Product {
	env.T.Helper()

	product := models.Product{Name: name, Description: "test product", Price: price, Stock: stock}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return &product
}

// accessToken mints a token directly, for cases where no login round
// trip is wanted.
func accessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := tokens.SignAccessToken(user.ID, user.Username, user.Role, []byte("test-jwt-secret"), time.Now().Add(tokens.AccessTTL))
	require.NoError(t, err)
	return token
}
