package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-socialstore-ws/internal/apperr"
	"go-socialstore-ws/internal/model"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindByNameKey(tx *gorm.DB, nameKey string) (*model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name_key ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) FindByNameKey(tx *gorm.DB, nameKey string) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "name_key = ?", nameKey).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// Save is a compare-and-swap on the product version: the update only lands if
// nobody else committed since the read. Zero rows affected means a concurrent
// writer won; the atomic runner re-reads and retries.
func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	current := product.Version
	res := tx.Model(&model.Product{}).
		Where("id = ? AND version = ?", product.ID, current).
		Select("Name", "NameKey", "Category", "Image", "Batches", "Version", "UpdatedBy").
		Updates(model.Product{
			Name:     product.Name,
			NameKey:  product.NameKey,
			Category: product.Category,
			Image:    product.Image,
			Batches:  product.Batches,
			Version:  current + 1,
			BaseModel: model.BaseModel{
				UpdatedBy: product.UpdatedBy,
			},
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrConflict
	}
	product.Version = current + 1
	return nil
}

// Delete removes the product and its batches for good. Hard delete: the
// normalized name must become reusable for future donations.
func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Unscoped().Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
