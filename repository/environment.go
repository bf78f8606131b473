package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

type EnvironmentRepository struct {
	db *gorm.DB
}

func NewEnvironmentRepository(db *gorm.DB) *EnvironmentRepository {
	return &EnvironmentRepository{
		db: db,
	}
}

func (r *EnvironmentRepository) Create(env *entity.Environment) error {
	if env == nil {
		return errors.New("environment cannot be nil")
	}
	return r.db.Create(env).Error
}

func (r *EnvironmentRepository) GetByID(id uint) (*entity.Environment, error) {
	var env entity.Environment
	err := r.db.First(&env, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &env, nil
}

func (r *EnvironmentRepository) ListByProject(projectID uint) ([]*entity.Environment, error) {
	var envs []*entity.Environment
	err := r.db.Where("project_id = ?", projectID).Order("name").Find(&envs).Error
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func (r *EnvironmentRepository) Update(env *entity.Environment) error {
	if env == nil {
		return errors.New("environment cannot be nil")
	}
	return r.db.Save(env).Error
}

// Delete removes the environment row only; the reconciler cascades the rows
// it owns (stack joins, dependency edges, context attachments) explicitly.
func (r *EnvironmentRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Environment{}, id).Error
}

func (r *EnvironmentRepository) DeleteByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&entity.Environment{}).Error
}

func (r *EnvironmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Environment{}).Count(&count).Error
	return count, err
}
