package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

func (r *ProjectRepository) Create(project *entity.Project) error {
	if project == nil {
		return errors.New("project cannot be nil")
	}
	return r.db.Create(project).Error
}

func (r *ProjectRepository) GetByID(id uint) (*entity.Project, error) {
	var project entity.Project
	err := r.db.First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) List() ([]*entity.Project, error) {
	var projects []*entity.Project
	err := r.db.Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) ListOrderedByName() ([]*entity.Project, error) {
	var projects []*entity.Project
	err := r.db.Order("name").Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Update(project *entity.Project) error {
	if project == nil {
		return errors.New("project cannot be nil")
	}
	return r.db.Save(project).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Project{}, id).Error
}

func (r *ProjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Project{}).Count(&count).Error
	return count, err
}
