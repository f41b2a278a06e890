package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/ledger"
	"go-socialstore-ws/internal/model"
	"go-socialstore-ws/internal/repository"
)

// MergeInput carries one product's worth of incoming stock. Category and
// image are applied last-write-wins only when non-empty.
type MergeInput struct {
	Name     string
	Category string
	Image    string
	Batches  []model.Batch
}

// mergeIntoLedger applies a merge inside the caller's transaction: the
// product is created on first sight of its normalized name, otherwise the
// incoming batches fold into the existing ones by expiry day. A stock
// movement row records the intake.
func mergeIntoLedger(tx *gorm.DB, products repository.ProductRepository, movements repository.MovementRepository, in MergeInput, actorID, source, sourceID string) (*model.Product, error) {
	nameKey := model.NormalizeName(in.Name)
	if nameKey == "" {
		return nil, apperr.Validation("product_name", "must not be blank")
	}

	incoming := ledger.Total(in.Batches)
	if incoming <= 0 {
		return nil, apperr.Validation("batches", "must add a positive quantity")
	}

	product, err := products.FindByNameKey(tx, nameKey)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		product = &model.Product{
			Name:     strings.TrimSpace(in.Name),
			NameKey:  nameKey,
			Category: in.Category,
			Image:    in.Image,
			Batches:  ledger.Merge(nil, in.Batches),
		}
		product.CreatedBy = actorID
		product.UpdatedBy = actorID
		if err := products.Create(tx, product); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		product.Batches = ledger.Merge(product.Batches, in.Batches)
		if in.Category != "" {
			product.Category = in.Category
		}
		if in.Image != "" {
			product.Image = in.Image
		}
		product.UpdatedBy = actorID
		if err := products.Save(tx, product); err != nil {
			return nil, err
		}
	}

	movement := &model.StockMovement{
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        model.MovementIn,
		Quantity:    incoming,
		Source:      source,
		SourceID:    sourceID,
		ActorID:     actorID,
	}
	movement.CreatedBy = actorID
	if err := movements.Create(tx, movement); err != nil {
		return nil, err
	}
	return product, nil
}

// deductFromLedger consumes quantity from a product in expiry order inside
// the caller's transaction. The whole transaction aborts on insufficient
// stock; there is no partial deduction.
func deductFromLedger(tx *gorm.DB, products repository.ProductRepository, movements repository.MovementRepository, productName string, quantity int, actorID, source, sourceID string) (*model.Product, error) {
	nameKey := model.NormalizeName(productName)
	product, err := products.FindByNameKey(tx, nameKey)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("product %q: %w", productName, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	remaining, err := ledger.Deduct(product.Batches, quantity)
	if err != nil {
		var insufficient *apperr.InsufficientStockError
		if errors.As(err, &insufficient) {
			insufficient.Product = product.Name
		}
		return nil, err
	}

	product.Batches = remaining
	product.UpdatedBy = actorID
	if err := products.Save(tx, product); err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        model.MovementOut,
		Quantity:    quantity,
		Source:      source,
		SourceID:    sourceID,
		ActorID:     actorID,
	}
	movement.CreatedBy = actorID
	if err := movements.Create(tx, movement); err != nil {
		return nil, err
	}
	return product, nil
}
