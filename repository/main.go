package repository

import (
	"github.com/colonia-io/colonia/infra"
	"gorm.io/gorm"
)

type Repository struct {
	DB                 *gorm.DB
	ProjectRepo        *ProjectRepository
	EnvironmentRepo    *EnvironmentRepository
	StackRepo          *StackRepository
	RepoScanRepo       *RepoScanRepository
	ContextRepo        *ContextRepository
	UserRepo           *UserRepository
	TeamRepo           *TeamRepository
	BackendStorageRepo *BackendStorageRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = NewRepository(infra.Postgres.DB)
	return repository
}

// NewRepository builds a Repository over an arbitrary gorm handle; tests use
// it directly with an in-memory database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:                 db,
		ProjectRepo:        NewProjectRepository(db),
		EnvironmentRepo:    NewEnvironmentRepository(db),
		StackRepo:          NewStackRepository(db),
		RepoScanRepo:       NewRepoScanRepository(db),
		ContextRepo:        NewContextRepository(db),
		UserRepo:           NewUserRepository(db),
		TeamRepo:           NewTeamRepository(db),
		BackendStorageRepo: NewBackendStorageRepository(db),
	}
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

// WithTransaction rebinds every repo to the given transaction handle.
func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}
