package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/cache"
	"go-socialstore-ws/internal/ledger"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
	"go-socialstore-ws/internal/ws"
)

const stockCacheTTL = 30 * time.Second

// ProductStock is the listing view: the product plus its totals as of a date.
type ProductStock struct {
	Product    model.Product `json:"product"`
	TotalStock int           `json:"total_stock"`
	ValidStock int           `json:"valid_stock"`
}

// EntryRequest is a manual stock intake (same merge semantics as a donation).
type EntryRequest struct {
	Name     string       `json:"name" validate:"required"`
	Category string       `json:"category"`
	Image    string       `json:"image"`
	Batches  []BatchInput `json:"batches" validate:"required,min=1,dive"`
}

// BatchEditRequest overwrites one batch's fields. Quantity zero prunes the
// batch; an index equal to the batch count appends a new one.
type BatchEditRequest struct {
	Quantity int        `json:"quantity" validate:"gte=0"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

type StockService interface {
	ListStock(ctx context.Context, asOf time.Time) ([]ProductStock, error)
	RegisterEntry(ctx context.Context, req *EntryRequest, actorID string) (*model.Product, error)
	EditBatch(ctx context.Context, productID uuid.UUID, batchIndex int, req *BatchEditRequest, actorID string) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID, actorID string) error
	RecentMovements(limit int) ([]model.StockMovement, error)
}

type stockService struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	atomic    *repository.Atomic
	publisher ws.Publisher
	cache     cache.StockCache
}

func NewStockService(products repository.ProductRepository, movements repository.MovementRepository, atomic *repository.Atomic, publisher ws.Publisher, stockCache cache.StockCache) StockService {
	return &stockService{
		products:  products,
		movements: movements,
		atomic:    atomic,
		publisher: publisher,
		cache:     stockCache,
	}
}

func stockCacheKey(asOf time.Time) string {
	return "stock:list:" + asOf.UTC().Format("2006-01-02")
}

func (s *stockService) ListStock(ctx context.Context, asOf time.Time) ([]ProductStock, error) {
	key := stockCacheKey(asOf)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var listing []ProductStock
		if err := json.Unmarshal(cached, &listing); err == nil {
			return listing, nil
		}
	}

	products, err := s.products.FindAll()
	if err != nil {
		return nil, err
	}

	listing := make([]ProductStock, 0, len(products))
	for _, p := range products {
		listing = append(listing, ProductStock{
			Product:    p,
			TotalStock: ledger.Total(p.Batches),
			ValidStock: ledger.Valid(p.Batches, asOf),
		})
	}

	if payload, err := json.Marshal(listing); err == nil {
		_ = s.cache.Set(ctx, key, payload, stockCacheTTL)
	}
	return listing, nil
}

func (s *stockService) RegisterEntry(ctx context.Context, req *EntryRequest, actorID string) (*model.Product, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		product, err = mergeIntoLedger(tx, s.products, s.movements, MergeInput{
			Name:     req.Name,
			Category: req.Category,
			Image:    req.Image,
			Batches:  toBatches(req.Batches),
		}, actorID, "manual", "")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, "entry_registered", product)
	return product, nil
}

func (s *stockService) EditBatch(ctx context.Context, productID uuid.UUID, batchIndex int, req *BatchEditRequest, actorID string) (*model.Product, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		var err error
		product, err = s.products.FindByID(tx, productID)
		if err != nil {
			return err
		}
		if batchIndex < 0 || batchIndex > len(product.Batches) {
			return apperr.Validation("batch_index", "out of range")
		}

		before := ledger.Total(product.Batches)
		switch {
		case batchIndex == len(product.Batches):
			if req.Quantity == 0 {
				return apperr.Validation("quantity", "must be positive when appending a batch")
			}
			product.Batches = append(product.Batches, model.Batch{Quantity: req.Quantity, Expiry: req.Expiry})
		case req.Quantity == 0:
			product.Batches = append(product.Batches[:batchIndex], product.Batches[batchIndex+1:]...)
		default:
			product.Batches[batchIndex] = model.Batch{Quantity: req.Quantity, Expiry: req.Expiry}
		}

		product.UpdatedBy = actorID
		if err := s.products.Save(tx, product); err != nil {
			return err
		}

		movement := &model.StockMovement{
			ProductID:   product.ID,
			ProductName: product.Name,
			Type:        model.MovementAdjust,
			Quantity:    ledger.Total(product.Batches) - before,
			Source:      "manual",
			ActorID:     actorID,
		}
		movement.CreatedBy = actorID
		return s.movements.Create(tx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, "batch_edited", product)
	return product, nil
}

func (s *stockService) DeleteProduct(ctx context.Context, productID uuid.UUID, actorID string) error {
	var removed *model.Product
	err := s.atomic.Run(ctx, func(tx *gorm.DB) error {
		product, err := s.products.FindByID(tx, productID)
		if err != nil {
			return err
		}
		if err := s.products.Delete(tx, productID); err != nil {
			return err
		}

		movement := &model.StockMovement{
			ProductID:   product.ID,
			ProductName: product.Name,
			Type:        model.MovementAdjust,
			Quantity:    -ledger.Total(product.Batches),
			Source:      "manual",
			ActorID:     actorID,
		}
		movement.CreatedBy = actorID
		if err := s.movements.Create(tx, movement); err != nil {
			return err
		}
		removed = product
		return nil
	})
	if err != nil {
		return err
	}

	s.afterStockChange(ctx, "product_deleted", removed)
	return nil
}

func (s *stockService) RecentMovements(limit int) ([]model.StockMovement, error) {
	return s.movements.FindRecent(limit)
}

func (s *stockService) afterStockChange(ctx context.Context, action string, product *model.Product) {
	_ = s.cache.Invalidate(ctx, stockCacheKey(time.Now()))
	if product == nil {
		return
	}
	s.publisher.Publish(ws.Event{
		Type:   "stock_update",
		Entity: "product",
		Action: action,
		Payload: map[string]interface{}{
			"id":          product.ID,
			"name":        product.Name,
			"total_stock": ledger.Total(product.Batches),
		},
	})
}

func toBatches(inputs []BatchInput) []model.Batch {
	batches := make([]model.Batch, 0, len(inputs))
	for _, in := range inputs {
		batches = append(batches, model.Batch{Quantity: in.Quantity, Expiry: in.Expiry})
	}
	return batches
}
