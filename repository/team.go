package repository

import (
	"errors"

	"github.com/colonia-io/colonia/entity"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{
		db: db,
	}
}

func (r *TeamRepository) Create(team *entity.Team) error {
	if team == nil {
		return errors.New("team cannot be nil")
	}
	return r.db.Create(team).Error
}

func (r *TeamRepository) GetByID(id uint) (*entity.Team, error) {
	var team entity.Team
	err := r.db.Preload("Members").Preload("Permissions").First(&team, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) List() ([]*entity.Team, error) {
	var teams []*entity.Team
	err := r.db.Order("name").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) Update(team *entity.Team) error {
	if team == nil {
		return errors.New("team cannot be nil")
	}
	return r.db.Save(team).Error
}

func (r *TeamRepository) Delete(id uint) error {
	if err := r.db.Where("team_id = ?", id).Delete(&entity.TeamMember{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("team_id = ?", id).Delete(&entity.TeamPermission{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&entity.Team{}, id).Error
}

func (r *TeamRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Team{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TeamRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Team{}).Count(&count).Error
	return count, err
}

// Members

func (r *TeamRepository) AddMember(member *entity.TeamMember) error {
	if member == nil {
		return errors.New("team member cannot be nil")
	}
	return r.db.Create(member).Error
}

func (r *TeamRepository) RemoveMember(teamID, memberID uint) error {
	return r.db.Where("team_id = ?", teamID).Delete(&entity.TeamMember{}, memberID).Error
}

func (r *TeamRepository) MemberExists(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Permissions

func (r *TeamRepository) SetPermission(perm *entity.TeamPermission) error {
	if perm == nil {
		return errors.New("team permission cannot be nil")
	}

	var existing entity.TeamPermission
	err := r.db.
		Where("team_id = ? AND resource_type = ? AND resource_id = ?", perm.TeamID, perm.ResourceType, perm.ResourceID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(perm).Error
		}
		return err
	}

	perm.ID = existing.ID
	perm.CreatedAt = existing.CreatedAt
	return r.db.Save(perm).Error
}

func (r *TeamRepository) DeletePermission(teamID, permissionID uint) error {
	return r.db.Where("team_id = ?", teamID).Delete(&entity.TeamPermission{}, permissionID).Error
}
