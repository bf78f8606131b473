package worker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/manifest"
	"github.com/colonia-io/colonia/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestReconciler(t *testing.T) (*Reconciler, *repository.Repository, uint) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))

	repo := repository.NewRepository(db)
	rec := NewReconciler(repo, infra.InitLoggerClient(&config.EnvConfig{}))

	project := &entity.Project{Name: "payments", RepositoryURL: "https://github.com/acme/payments"}
	require.NoError(t, repo.ProjectRepo.Create(project))

	return rec, repo, project.ID
}

func twoEnvManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Environments: []manifest.EnvironmentDecl{
			{Name: "dev", Dir: "environments/dev"},
			{Name: "prod", Dir: "environments/prod"},
		},
		Stacks: []manifest.StackDecl{
			{Name: "VPC", Stack: "stacks/vpc", Environments: []string{"dev", "prod"}},
			{Name: "ECS", Stack: "stacks/ecs", Environments: []string{"dev", "prod"}, DependsOn: []string{"stacks/vpc"}},
		},
	}
}

func TestReconcileCreatesDeclaredState(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	result, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	assert.Equal(t, 2, result.EnvironmentsCreated)
	assert.Equal(t, 2, result.StacksCreated)
	assert.Equal(t, 4, result.StackEnvironmentsCreated)
	assert.Zero(t, result.EnvironmentsUpdated)
	assert.Zero(t, result.EnvironmentsDeleted)
	assert.Zero(t, result.StacksDeleted)
	assert.Empty(t, result.UnresolvedDependencies)

	environments, err := repo.EnvironmentRepo.ListByProject(projectID)
	require.NoError(t, err)
	require.Len(t, environments, 2)

	stacks, err := repo.StackRepo.ListByProject(projectID)
	require.NoError(t, err)
	require.Len(t, stacks, 2)
}

func TestReconcileResolvesDependenciesPerEnvironment(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	var ecs, vpc *entity.Stack
	stacks, err := repo.StackRepo.ListByProject(projectID)
	require.NoError(t, err)
	for _, stack := range stacks {
		switch stack.StackPath {
		case "stacks/ecs":
			ecs = stack
		case "stacks/vpc":
			vpc = stack
		}
	}
	require.NotNil(t, ecs)
	require.NotNil(t, vpc)

	vpcJoinByEnv := make(map[uint]uint)
	vpcJoins, err := repo.StackRepo.ListJoinsByStack(vpc.ID)
	require.NoError(t, err)
	for _, join := range vpcJoins {
		vpcJoinByEnv[join.EnvironmentID] = join.ID
	}

	// Each ECS join row carries exactly one edge, pointing at the VPC join row
	// of the same environment.
	ecsJoins, err := repo.StackRepo.ListJoinsByStack(ecs.ID)
	require.NoError(t, err)
	require.Len(t, ecsJoins, 2)
	for _, join := range ecsJoins {
		deps, err := repo.StackRepo.ListDependenciesByJoin(join.ID)
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, "stacks/vpc", deps[0].DependsOnPath)
		assert.Equal(t, vpcJoinByEnv[join.EnvironmentID], deps[0].DependsOnID)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	rec, _, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	second, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)
	assert.True(t, second.Empty(), "second identical pass should change nothing, got %+v", second)
	assert.Empty(t, second.UnresolvedDependencies)
}

func TestReconcileUpdatesEnvironmentDirectory(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	m := twoEnvManifest()
	m.Environments[0].Dir = "envs/dev"

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EnvironmentsUpdated)
	assert.Zero(t, result.EnvironmentsCreated)

	environments, err := repo.EnvironmentRepo.ListByProject(projectID)
	require.NoError(t, err)
	for _, env := range environments {
		if env.Name == "dev" {
			assert.Equal(t, "envs/dev", env.Directory)
		}
	}
}

func TestReconcileDeletesUndeclaredEnvironment(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	m := &manifest.Manifest{
		Environments: []manifest.EnvironmentDecl{
			{Name: "dev", Dir: "environments/dev"},
		},
		Stacks: []manifest.StackDecl{
			{Name: "VPC", Stack: "stacks/vpc", Environments: []string{"dev"}},
			{Name: "ECS", Stack: "stacks/ecs", Environments: []string{"dev"}, DependsOn: []string{"stacks/vpc"}},
		},
	}

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EnvironmentsDeleted)
	assert.Equal(t, 2, result.StackEnvironmentsDeleted)
	assert.Zero(t, result.StacksDeleted)

	environments, err := repo.EnvironmentRepo.ListByProject(projectID)
	require.NoError(t, err)
	require.Len(t, environments, 1)
	assert.Equal(t, "dev", environments[0].Name)
}

func TestReconcileDeletesUndeclaredStack(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	m := twoEnvManifest()
	m.Stacks = m.Stacks[:1] // drop ECS

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	assert.Equal(t, 1, result.StacksDeleted)
	assert.Equal(t, 2, result.StackEnvironmentsDeleted)

	stacks, err := repo.StackRepo.ListByProject(projectID)
	require.NoError(t, err)
	require.Len(t, stacks, 1)
	assert.Equal(t, "stacks/vpc", stacks[0].StackPath)

	// ECS dependency edges must be gone with its join rows.
	var edges int64
	require.NoError(t, repo.DB.Model(&entity.StackDependency{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestReconcileEmptyManifestDeletesEverything(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	result, err := rec.Reconcile(context.Background(), projectID, &manifest.Manifest{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.EnvironmentsDeleted)
	assert.Equal(t, 2, result.StacksDeleted)

	environments, err := repo.EnvironmentRepo.ListByProject(projectID)
	require.NoError(t, err)
	assert.Empty(t, environments)

	stacks, err := repo.StackRepo.ListByProject(projectID)
	require.NoError(t, err)
	assert.Empty(t, stacks)

	var joins int64
	require.NoError(t, repo.DB.Model(&entity.StackEnvironment{}).Count(&joins).Error)
	assert.Zero(t, joins)
}

func TestReconcileDependencyOnlyResolvesWithinEnvironment(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	// B is declared only in prod, so A's reference cannot resolve in dev.
	m := &manifest.Manifest{
		Environments: []manifest.EnvironmentDecl{
			{Name: "dev", Dir: "environments/dev"},
			{Name: "prod", Dir: "environments/prod"},
		},
		Stacks: []manifest.StackDecl{
			{Name: "A", Stack: "stacks/a", Environments: []string{"dev"}, DependsOn: []string{"stacks/b"}},
			{Name: "B", Stack: "stacks/b", Environments: []string{"prod"}},
		},
	}

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	require.Len(t, result.UnresolvedDependencies, 1)
	assert.Contains(t, result.UnresolvedDependencies[0], "stacks/a -> stacks/b")

	var edges int64
	require.NoError(t, repo.DB.Model(&entity.StackDependency{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestReconcileDropsSelfReference(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	m := &manifest.Manifest{
		Environments: []manifest.EnvironmentDecl{{Name: "dev", Dir: "environments/dev"}},
		Stacks: []manifest.StackDecl{
			{Name: "A", Stack: "stacks/a", Environments: []string{"dev"}, DependsOn: []string{"stacks/a"}},
		},
	}

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	require.Len(t, result.UnresolvedDependencies, 1)
	assert.Contains(t, result.UnresolvedDependencies[0], "self reference")

	var edges int64
	require.NoError(t, repo.DB.Model(&entity.StackDependency{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestReconcileDropsEdgeClosingCycle(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	m := &manifest.Manifest{
		Environments: []manifest.EnvironmentDecl{{Name: "dev", Dir: "environments/dev"}},
		Stacks: []manifest.StackDecl{
			{Name: "A", Stack: "stacks/a", Environments: []string{"dev"}, DependsOn: []string{"stacks/b"}},
			{Name: "B", Stack: "stacks/b", Environments: []string{"dev"}, DependsOn: []string{"stacks/a"}},
		},
	}

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	require.Len(t, result.UnresolvedDependencies, 1)
	assert.Contains(t, result.UnresolvedDependencies[0], "dependency cycle")

	// The first declared edge survives, the closing edge is dropped.
	var edges int64
	require.NoError(t, repo.DB.Model(&entity.StackDependency{}).Count(&edges).Error)
	assert.EqualValues(t, 1, edges)
}

func TestReconcileRemovesStaleDependencyEdge(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	m := twoEnvManifest()
	m.Stacks[1].DependsOn = nil

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	assert.True(t, result.Empty())

	var edges int64
	require.NoError(t, repo.DB.Model(&entity.StackDependency{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestReconcileStackWithoutPathIsExcludedFromDependencies(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	// Monitoring has no stack path; A's reference to it by name cannot resolve.
	m := &manifest.Manifest{
		Environments: []manifest.EnvironmentDecl{{Name: "dev", Dir: "environments/dev"}},
		Stacks: []manifest.StackDecl{
			{Name: "Monitoring", Environments: []string{"dev"}},
			{Name: "A", Stack: "stacks/a", Environments: []string{"dev"}, DependsOn: []string{"Monitoring"}},
		},
	}

	result, err := rec.Reconcile(context.Background(), projectID, m)
	require.NoError(t, err)
	assert.Equal(t, 2, result.StacksCreated)
	require.Len(t, result.UnresolvedDependencies, 1)

	var edges int64
	require.NoError(t, repo.DB.Model(&entity.StackDependency{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestReconcileRollsBackOnFailure(t *testing.T) {
	rec, repo, projectID := newTestReconciler(t)

	_, err := rec.Reconcile(context.Background(), projectID, twoEnvManifest())
	require.NoError(t, err)

	// Force a failure mid-pass by closing the underlying connection.
	sqlDB, err := repo.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = rec.Reconcile(context.Background(), projectID, &manifest.Manifest{})
	require.Error(t, err)
}
