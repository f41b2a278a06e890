package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-socialstore-ws/internal/cache"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ws.Event) {}

// testEnv wires every service against a fresh in-memory database.
type testEnv struct {
	db           *gorm.DB
	products     repository.ProductRepository
	movements    repository.MovementRepository
	orders       repository.OrderRepository
	deliveries   repository.DeliveryRepository
	candidatures repository.CandidatureRepository
	users        repository.UserRepository
	stock        StockService
	donations    DonationService
	orderSvc     OrderService
	deliverySvc  DeliveryService
	candidSvc    CandidatureService
	urgent       UrgentService
	overview     OverviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{}, &model.StockMovement{}, &model.Order{}, &model.Delivery{},
		&model.Candidature{}, &model.Donation{}, &model.Campaign{},
		&model.Notification{}, &model.User{}, &model.Role{}, &model.Privilege{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	products := repository.NewProductRepo(db)
	movements := repository.NewMovementRepo(db)
	orders := repository.NewOrderRepo(db)
	deliveries := repository.NewDeliveryRepo(db)
	candidatures := repository.NewCandidatureRepo(db)
	donations := repository.NewDonationRepo(db)
	campaigns := repository.NewCampaignRepo(db)
	notifications := repository.NewNotificationRepo(db)
	users := repository.NewUserRepo(db)

	atomic := repository.NewAtomic(db, 5)
	pub := nopPublisher{}
	noCache := cache.NoopStockCache{}

	return &testEnv{
		db:           db,
		products:     products,
		movements:    movements,
		orders:       orders,
		deliveries:   deliveries,
		candidatures: candidatures,
		users:        users,
		stock:        NewStockService(products, movements, atomic, pub, noCache),
		donations:    NewDonationService(donations, campaigns, products, movements, atomic, pub, noCache),
		orderSvc:     NewOrderService(orders, deliveries, products, movements, atomic, pub, noCache),
		deliverySvc:  NewDeliveryService(deliveries, notifications, atomic, pub),
		candidSvc:    NewCandidatureService(candidatures, users, atomic, pub),
		urgent:       NewUrgentService(orders, deliveries, products, movements, atomic, pub, noCache),
		overview:     NewOverviewService(orders, candidatures, deliveries, movements),
	}
}

func (e *testEnv) seedStock(t *testing.T, name string, batches ...model.Batch) *model.Product {
	t.Helper()
	inputs := make([]BatchInput, len(batches))
	for i, b := range batches {
		inputs[i] = BatchInput{Quantity: b.Quantity, Expiry: b.Expiry}
	}
	product, err := e.stock.RegisterEntry(context.Background(), &EntryRequest{Name: name, Batches: inputs}, "seeder")
	if err != nil {
		t.Fatalf("seed stock %s: %v", name, err)
	}
	return product
}

func (e *testEnv) productByName(t *testing.T, name string) *model.Product {
	t.Helper()
	product, err := e.products.FindByNameKey(e.db, model.NormalizeName(name))
	if err != nil {
		t.Fatalf("find product %s: %v", name, err)
	}
	return product
}

func expiry(t *testing.T, daysFromNow int) *time.Time {
	t.Helper()
	d := time.Now().AddDate(0, 0, daysFromNow)
	return &d
}
