package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

type BackendStorageRepository struct {
	db *gorm.DB
}

func NewBackendStorageRepository(db *gorm.DB) *BackendStorageRepository {
	return &BackendStorageRepository{
		db: db,
	}
}

func (r *BackendStorageRepository) Create(storage *entity.BackendStorage) error {
	if storage == nil {
		return errors.New("backend storage cannot be nil")
	}
	return r.db.Create(storage).Error
}

func (r *BackendStorageRepository) GetByID(id uint) (*entity.BackendStorage, error) {
	var storage entity.BackendStorage
	err := r.db.First(&storage, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &storage, nil
}

func (r *BackendStorageRepository) List() ([]*entity.BackendStorage, error) {
	var storages []*entity.BackendStorage
	err := r.db.Order("name").Find(&storages).Error
	if err != nil {
		return nil, err
	}
	return storages, nil
}

func (r *BackendStorageRepository) Update(storage *entity.BackendStorage) error {
	if storage == nil {
		return errors.New("backend storage cannot be nil")
	}
	return r.db.Save(storage).Error
}

func (r *BackendStorageRepository) Delete(id uint) error {
	// Environments keep their rows; the reference is simply cleared.
	if err := r.db.Model(&entity.Environment{}).
		Where("backend_storage_id = ?", id).
		Update("backend_storage_id", nil).Error; err != nil {
		return err
	}
	return r.db.Delete(&entity.BackendStorage{}, id).Error
}
