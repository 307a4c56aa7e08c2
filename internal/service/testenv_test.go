package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mberezin/shop_backend/internal/config"
	"github.com/mberezin/shop_backend/internal/hash"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/repo"
)

type sentMail struct {
	To   string
	Code string
	URL  string
}

type fakeMailer struct {
	mu            sync.Mutex
	failAll       bool
	verifications []sentMail
	welcomes      []sentMail
	resets        []sentMail
	successes     []sentMail
}

func (m *fakeMailer) record(dst *[]sentMail, mail sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return fmt.Errorf("smtp unavailable")
	}
	*dst = append(*dst, mail)
	return nil
}

func (m *fakeMailer) SendVerification(to, username, code string) error {
	return m.record(&m.verifications, sentMail{To: to, Code: code})
}

func (m *fakeMailer) SendWelcome(to, username string) error {
	return m.record(&m.welcomes, sentMail{To: to})
}

func (m *fakeMailer) SendPasswordReset(to, username, resetURL string) error {
	return m.record(&m.resets, sentMail{To: to, URL: resetURL})
}

func (m *fakeMailer) SendPasswordResetSuccess(to, username string) error {
	return m.record(&m.successes, sentMail{To: to})
}

func (m *fakeMailer) lastVerificationCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.verifications)
	return m.verifications[len(m.verifications)-1].Code
}

type testEnv struct {
	T        *testing.T
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Auth     *AuthService
	Cart     *CartService
	Catalog  *CatalogService
	Category *CategoryService
	Review   *ReviewService
	Mail     *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled in-memory sqlite hands every connection its own empty
	// database, so pin the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))

	r := repo.NewGormRepo(db)
	mailer := &fakeMailer{}

	env := &testEnv{
		T:    t,
		DB:   db,
		Repo: r,
		Auth: &AuthService{
			Repo:       r,
			Mail:       mailer,
			JWTSecret:  []byte("test-jwt-secret"),
			AdminEmail: "admin@shop.test",
			AppURL:     "http://shop.test",
		},
		Cart:     &CartService{Repo: r},
		Catalog:  &CatalogService{Repo: r},
		Category: &CategoryService{Repo: r},
		Review:   &ReviewService{Repo: r},
		Mail:     mailer,
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return env
}

func (env *testEnv) createUser(username, email string, verified bool) *models.User {
	env.T.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
		IsVerified:   verified,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) createProduct(name string, price float64, stock uint) *models.Product {
	env.T.Helper()

	product := models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Stock:       stock,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return &product
}
