package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/database"
	"github.com/mapstore/store-backend/internal/models"
)

var fixedNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *recordingMailer) To(address string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, mail := range m.sent {
		if mail.To == address {
			out = append(out, mail)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Store: config.StoreConfig{
			Name:               "MAP Store",
			WhatsAppNumber:     "6281234567890",
			BankAccounts:       []config.BankAccount{{Name: "BCA", AccountNumber: "1234567890", AccountName: "MAP Store"}},
			EWallets:           []config.EWallet{{Name: "OVO", Number: "08123456789"}},
			PaymentWindowHours: 24,
		},
		Email: config.EmailConfig{
			AdminEmail: "admin@mapstore.id",
		},
		Cache: config.CacheConfig{
			Enabled:        true,
			TTLSeconds:     60,
			CleanupSeconds: 120,
		},
		Frontend: config.FrontendConfig{
			BaseURL: "http://localhost:3000",
		},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

// testEnv is the service graph on an in-memory database with notifications
// delivered synchronously.
type testEnv struct {
	db            *gorm.DB
	cfg           *config.Config
	mailer        *recordingMailer
	viewCache     *cache.ViewCache
	products      *ProductService
	carts         *CartService
	payments      *PaymentService
	notifications *NotificationService
	orders        *OrderService
	admin         *AdminService
	auth          *AuthService
	users         *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()
	mailer := &recordingMailer{}
	viewCache := cache.NewViewCache(cfg.Cache)
	storage := NewStorageServiceWithClient(cfg, nil, t.TempDir())

	env := &testEnv{
		db:        db,
		cfg:       cfg,
		mailer:    mailer,
		viewCache: viewCache,
	}
	env.notifications = NewNotificationService(db, cfg, mailer, viewCache)
	env.products = NewProductService(db, viewCache, storage)
	env.carts = NewCartService(db, env.products)
	env.payments = NewPaymentService(cfg)
	env.orders = NewOrderService(db, cfg, env.carts, env.notifications, env.payments, viewCache)
	env.admin = NewAdminService(db, env.notifications, viewCache)
	env.auth = NewAuthService(db, cfg)
	env.users = NewUserService(db)

	inline := func(f func()) { f() }
	clock := func() time.Time { return fixedNow }
	env.orders.dispatch = inline
	env.orders.now = clock
	env.admin.dispatch = inline
	env.admin.now = clock

	return env
}

func (e *testEnv) seedCategory(t *testing.T, id, name string) models.Category {
	t.Helper()
	category := models.Category{ID: id, Name: name, Slug: id}
	require.NoError(t, e.db.Create(&category).Error)
	return category
}

func (e *testEnv) seedProduct(t *testing.T, name string, price int64, categoryID string) *models.Product {
	t.Helper()
	product, err := e.products.CreateProduct(context.Background(), &CreateProductRequest{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		Features:   []string{"Garansi"},
		ImageColor: "from-red-500 to-red-700",
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) seedUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Name: "Budi", Email: email, WhatsApp: "081234567890", Role: role}
	require.NoError(t, user.SetPassword("Rahasia123!"))
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func guestInfo() *GuestInfoInput {
	return &GuestInfoInput{Name: "Siti", WhatsApp: "081298765432", Email: "Siti@Example.com"}
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}

// beforeNextOrderUpdate runs write on the open transaction right before the
// next UPDATE of the orders table, standing in for a second writer that
// got there between our read and our write.
func (e *testEnv) beforeNextOrderUpdate(t *testing.T, write func(tx *gorm.DB) error) {
	t.Helper()
	var fired bool
	err := e.db.Callback().Update().Before("gorm:update").Register("test:competing_writer", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "orders" {
			return
		}
		fired = true
		require.NoError(t, write(tx.Session(&gorm.Session{NewDB: true})))
	})
	require.NoError(t, err)
}

func setOrderStatus(orderID uuid.UUID, status models.OrderStatus) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		return tx.Exec("UPDATE orders SET status = ? WHERE id = ?", status, orderID).Error
	}
}
