package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

// StackRepository owns stacks, their environment join rows and the dependency
// edges between join rows.
type StackRepository struct {
	db *gorm.DB
}

func NewStackRepository(db *gorm.DB) *StackRepository {
	return &StackRepository{
		db: db,
	}
}

func (r *StackRepository) Create(stack *entity.Stack) error {
	if stack == nil {
		return errors.New("stack cannot be nil")
	}
	return r.db.Create(stack).Error
}

func (r *StackRepository) Update(stack *entity.Stack) error {
	if stack == nil {
		return errors.New("stack cannot be nil")
	}
	return r.db.Save(stack).Error
}

func (r *StackRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Stack{}, id).Error
}

func (r *StackRepository) ListByProject(projectID uint) ([]*entity.Stack, error) {
	var stacks []*entity.Stack
	err := r.db.Where("project_id = ?", projectID).Order("name").Find(&stacks).Error
	if err != nil {
		return nil, err
	}
	return stacks, nil
}

func (r *StackRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Stack{}).Count(&count).Error
	return count, err
}

// Join rows

func (r *StackRepository) CreateJoin(join *entity.StackEnvironment) error {
	if join == nil {
		return errors.New("stack environment cannot be nil")
	}
	return r.db.Create(join).Error
}

func (r *StackRepository) ListJoinsByStack(stackID uint) ([]*entity.StackEnvironment, error) {
	var joins []*entity.StackEnvironment
	err := r.db.Where("stack_id = ?", stackID).Find(&joins).Error
	if err != nil {
		return nil, err
	}
	return joins, nil
}

func (r *StackRepository) ListJoinsByEnvironment(environmentID uint) ([]*entity.StackEnvironment, error) {
	var joins []*entity.StackEnvironment
	err := r.db.Where("environment_id = ?", environmentID).Find(&joins).Error
	if err != nil {
		return nil, err
	}
	return joins, nil
}

func (r *StackRepository) DeleteJoin(id uint) error {
	return r.db.Delete(&entity.StackEnvironment{}, id).Error
}

func (r *StackRepository) DeleteJoinsByStack(stackID uint) error {
	return r.db.Where("stack_id = ?", stackID).Delete(&entity.StackEnvironment{}).Error
}

func (r *StackRepository) DeleteJoinsByEnvironment(environmentID uint) error {
	return r.db.Where("environment_id = ?", environmentID).Delete(&entity.StackEnvironment{}).Error
}

// Dependency edges

func (r *StackRepository) CreateDependency(dep *entity.StackDependency) error {
	if dep == nil {
		return errors.New("stack dependency cannot be nil")
	}
	return r.db.Create(dep).Error
}

func (r *StackRepository) ListDependenciesByJoin(joinID uint) ([]*entity.StackDependency, error) {
	var deps []*entity.StackDependency
	err := r.db.Where("stack_environment_id = ?", joinID).Find(&deps).Error
	if err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *StackRepository) DeleteDependency(id uint) error {
	return r.db.Delete(&entity.StackDependency{}, id).Error
}

// DeleteDependenciesTouchingJoin removes every edge the join row takes part
// in, either side.
func (r *StackRepository) DeleteDependenciesTouchingJoin(joinID uint) error {
	return r.db.
		Where("stack_environment_id = ? OR depends_on_id = ?", joinID, joinID).
		Delete(&entity.StackDependency{}).Error
}

func (r *StackRepository) DeleteDependenciesByEnvironment(environmentID uint) error {
	sub := r.db.Model(&entity.StackEnvironment{}).
		Select("id").
		Where("environment_id = ?", environmentID)
	return r.db.
		Where("stack_environment_id IN (?) OR depends_on_id IN (?)", sub, sub).
		Delete(&entity.StackDependency{}).Error
}
