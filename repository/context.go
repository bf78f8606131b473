package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

// ContextRepository owns contexts, their secrets/env vars and the attachment
// join tables to environments and stacks.
type ContextRepository struct {
	db *gorm.DB
}

func NewContextRepository(db *gorm.DB) *ContextRepository {
	return &ContextRepository{
		db: db,
	}
}

func (r *ContextRepository) Create(c *entity.Context) error {
	if c == nil {
		return errors.New("context cannot be nil")
	}
	return r.db.Create(c).Error
}

func (r *ContextRepository) GetByID(id uint) (*entity.Context, error) {
	var c entity.Context
	err := r.db.Preload("Secrets").Preload("EnvVars").First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContextRepository) List() ([]*entity.Context, error) {
	var contexts []*entity.Context
	err := r.db.Order("name").Find(&contexts).Error
	if err != nil {
		return nil, err
	}
	return contexts, nil
}

func (r *ContextRepository) ListByProject(projectID uint) ([]*entity.Context, error) {
	var contexts []*entity.Context
	err := r.db.Where("project_id = ?", projectID).Order("name").Find(&contexts).Error
	if err != nil {
		return nil, err
	}
	return contexts, nil
}

func (r *ContextRepository) Update(c *entity.Context) error {
	if c == nil {
		return errors.New("context cannot be nil")
	}
	return r.db.Save(c).Error
}

func (r *ContextRepository) Delete(id uint) error {
	if err := r.db.Where("context_id = ?", id).Delete(&entity.ContextSecret{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("context_id = ?", id).Delete(&entity.ContextEnvVar{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("context_id = ?", id).Delete(&entity.ContextEnvironment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("context_id = ?", id).Delete(&entity.ContextStack{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&entity.Context{}, id).Error
}

func (r *ContextRepository) DeleteByProject(projectID uint) error {
	contexts, err := r.ListByProject(projectID)
	if err != nil {
		return err
	}
	for _, c := range contexts {
		if err := r.Delete(c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ContextRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Context{}).Count(&count).Error
	return count, err
}

// Secrets

func (r *ContextRepository) AddSecret(secret *entity.ContextSecret) error {
	if secret == nil {
		return errors.New("context secret cannot be nil")
	}
	return r.db.Create(secret).Error
}

func (r *ContextRepository) ListSecrets(contextID uint) ([]*entity.ContextSecret, error) {
	var secrets []*entity.ContextSecret
	err := r.db.Where("context_id = ?", contextID).Order("secret_key").Find(&secrets).Error
	if err != nil {
		return nil, err
	}
	return secrets, nil
}

func (r *ContextRepository) DeleteSecret(contextID, secretID uint) error {
	return r.db.Where("context_id = ?", contextID).Delete(&entity.ContextSecret{}, secretID).Error
}

// Env vars

func (r *ContextRepository) AddEnvVar(envVar *entity.ContextEnvVar) error {
	if envVar == nil {
		return errors.New("context env var cannot be nil")
	}
	return r.db.Create(envVar).Error
}

func (r *ContextRepository) ListEnvVars(contextID uint) ([]*entity.ContextEnvVar, error) {
	var envVars []*entity.ContextEnvVar
	err := r.db.Where("context_id = ?", contextID).Order("key").Find(&envVars).Error
	if err != nil {
		return nil, err
	}
	return envVars, nil
}

func (r *ContextRepository) DeleteEnvVar(contextID, envVarID uint) error {
	return r.db.Where("context_id = ?", contextID).Delete(&entity.ContextEnvVar{}, envVarID).Error
}

// Attachments

func (r *ContextRepository) AttachEnvironment(contextID, environmentID uint) error {
	return r.db.FirstOrCreate(&entity.ContextEnvironment{}, entity.ContextEnvironment{
		ContextID:     contextID,
		EnvironmentID: environmentID,
	}).Error
}

func (r *ContextRepository) DetachEnvironment(contextID, environmentID uint) error {
	return r.db.
		Where("context_id = ? AND environment_id = ?", contextID, environmentID).
		Delete(&entity.ContextEnvironment{}).Error
}

func (r *ContextRepository) AttachStack(contextID, stackID uint) error {
	return r.db.FirstOrCreate(&entity.ContextStack{}, entity.ContextStack{
		ContextID: contextID,
		StackID:   stackID,
	}).Error
}

func (r *ContextRepository) DetachStack(contextID, stackID uint) error {
	return r.db.
		Where("context_id = ? AND stack_id = ?", contextID, stackID).
		Delete(&entity.ContextStack{}).Error
}

func (r *ContextRepository) ListEnvironmentAttachments(contextID uint) ([]*entity.ContextEnvironment, error) {
	var attachments []*entity.ContextEnvironment
	err := r.db.Where("context_id = ?", contextID).Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *ContextRepository) ListStackAttachments(contextID uint) ([]*entity.ContextStack, error) {
	var attachments []*entity.ContextStack
	err := r.db.Where("context_id = ?", contextID).Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// Cascades used by the reconciler when it deletes rows it owns.

func (r *ContextRepository) DetachAllByEnvironment(environmentID uint) error {
	return r.db.Where("environment_id = ?", environmentID).Delete(&entity.ContextEnvironment{}).Error
}

func (r *ContextRepository) DetachAllByStack(stackID uint) error {
	return r.db.Where("stack_id = ?", stackID).Delete(&entity.ContextStack{}).Error
}
