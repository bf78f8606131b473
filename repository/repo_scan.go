package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

type RepoScanRepository struct {
	db *gorm.DB
}

func NewRepoScanRepository(db *gorm.DB) *RepoScanRepository {
	return &RepoScanRepository{
		db: db,
	}
}

func (r *RepoScanRepository) Create(scan *entity.RepoScan) error {
	if scan == nil {
		return errors.New("repo scan cannot be nil")
	}
	return r.db.Create(scan).Error
}

func (r *RepoScanRepository) ListByProject(projectID uint, limit int) ([]*entity.RepoScan, error) {
	if limit <= 0 {
		limit = 50
	}
	var scans []*entity.RepoScan
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Find(&scans).Error
	if err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *RepoScanRepository) DeleteByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&entity.RepoScan{}).Error
}
