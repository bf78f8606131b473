package worker

import (
	"context"
	"fmt"

	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/manifest"
	"github.com/colonia-io/colonia/repository"
	"gorm.io/gorm"
)

// ReconcileResult summarizes one reconciliation pass with exact counts so
// callers and tests can assert them. Stack counts are stack rows;
// StackEnvironments* count the per-environment join rows.
type ReconcileResult struct {
	EnvironmentsCreated      int      `json:"environments_created"`
	EnvironmentsUpdated      int      `json:"environments_updated"`
	EnvironmentsDeleted      int      `json:"environments_deleted"`
	StacksCreated            int      `json:"stacks_created"`
	StacksUpdated            int      `json:"stacks_updated"`
	StacksDeleted            int      `json:"stacks_deleted"`
	StackEnvironmentsCreated int      `json:"stack_environments_created"`
	StackEnvironmentsDeleted int      `json:"stack_environments_deleted"`
	UnresolvedDependencies   []string `json:"unresolved_dependencies,omitempty"`
}

func (r *ReconcileResult) Empty() bool {
	return r.EnvironmentsCreated == 0 && r.EnvironmentsUpdated == 0 && r.EnvironmentsDeleted == 0 &&
		r.StacksCreated == 0 && r.StacksUpdated == 0 && r.StacksDeleted == 0 &&
		r.StackEnvironmentsCreated == 0 && r.StackEnvironmentsDeleted == 0
}

// Reconciler applies a parsed manifest to a project's persisted environments
// and stacks. The whole pass for one project runs in a single transaction:
// either the full desired state is applied or nothing is.
type Reconciler struct {
	repo   *repository.Repository
	logger *infra.LoggerClient
}

func NewReconciler(repo *repository.Repository, logger *infra.LoggerClient) *Reconciler {
	return &Reconciler{
		repo:   repo,
		logger: logger,
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, projectID uint, m *manifest.Manifest) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	err := r.repo.DB.Transaction(func(tx *gorm.DB) error {
		return r.apply(ctx, r.repo.WithTransaction(tx), projectID, m, result)
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile project %d: %w", projectID, err)
	}
	return result, nil
}

func (r *Reconciler) apply(ctx context.Context, repos *repository.Repository, projectID uint, m *manifest.Manifest, result *ReconcileResult) error {
	envsByName, err := r.applyEnvironments(ctx, repos, projectID, m, result)
	if err != nil {
		return err
	}

	joinsByEnv, err := r.applyStacks(ctx, repos, projectID, m, envsByName, result)
	if err != nil {
		return err
	}

	return r.applyDependencies(ctx, repos, m, envsByName, joinsByEnv, result)
}

// applyEnvironments upserts declared environments and deletes the rest,
// returning the surviving rows keyed by name.
func (r *Reconciler) applyEnvironments(ctx context.Context, repos *repository.Repository, projectID uint, m *manifest.Manifest, result *ReconcileResult) (map[string]*entity.Environment, error) {
	existing, err := repos.EnvironmentRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("load environments: %w", err)
	}

	envsByName := make(map[string]*entity.Environment, len(existing))
	for _, env := range existing {
		envsByName[env.Name] = env
	}

	kept := make(map[string]struct{}, len(m.Environments))
	for _, decl := range m.Environments {
		kept[decl.Name] = struct{}{}

		if env, ok := envsByName[decl.Name]; ok {
			if env.Directory != decl.Dir {
				env.Directory = decl.Dir
				if err := repos.EnvironmentRepo.Update(env); err != nil {
					return nil, fmt.Errorf("update environment %q: %w", decl.Name, err)
				}
				result.EnvironmentsUpdated++
				r.logger.InfoWithContextf(ctx, "[Reconciler] Updated environment: %s", decl.Name)
			}
			continue
		}

		env := &entity.Environment{
			ProjectID: projectID,
			Name:      decl.Name,
			Directory: decl.Dir,
		}
		if err := repos.EnvironmentRepo.Create(env); err != nil {
			return nil, fmt.Errorf("create environment %q: %w", decl.Name, err)
		}
		envsByName[decl.Name] = env
		result.EnvironmentsCreated++
		r.logger.InfoWithContextf(ctx, "[Reconciler] Created environment: %s", decl.Name)
	}

	for name, env := range envsByName {
		if _, ok := kept[name]; ok {
			continue
		}
		joins, err := repos.StackRepo.ListJoinsByEnvironment(env.ID)
		if err != nil {
			return nil, fmt.Errorf("load stack links of environment %q: %w", name, err)
		}
		if err := repos.StackRepo.DeleteDependenciesByEnvironment(env.ID); err != nil {
			return nil, fmt.Errorf("delete dependencies of environment %q: %w", name, err)
		}
		if err := repos.StackRepo.DeleteJoinsByEnvironment(env.ID); err != nil {
			return nil, fmt.Errorf("delete stack links of environment %q: %w", name, err)
		}
		if err := repos.ContextRepo.DetachAllByEnvironment(env.ID); err != nil {
			return nil, fmt.Errorf("detach contexts of environment %q: %w", name, err)
		}
		if err := repos.EnvironmentRepo.Delete(env.ID); err != nil {
			return nil, fmt.Errorf("delete environment %q: %w", name, err)
		}
		delete(envsByName, name)
		result.EnvironmentsDeleted++
		result.StackEnvironmentsDeleted += len(joins)
		r.logger.InfoWithContextf(ctx, "[Reconciler] Deleted environment: %s", name)
	}

	return envsByName, nil
}

// stackIdentity is the key a persisted stack reconciles under: the manifest
// stack path when present, the name otherwise.
func stackIdentity(s *entity.Stack) string {
	if s.StackPath != "" {
		return s.StackPath
	}
	return s.Name
}

// applyStacks upserts declared stacks and syncs their environment join rows,
// then deletes undeclared stacks. Returns environment id -> stack path ->
// join row id for the dependency pass.
func (r *Reconciler) applyStacks(ctx context.Context, repos *repository.Repository, projectID uint, m *manifest.Manifest, envsByName map[string]*entity.Environment, result *ReconcileResult) (map[uint]map[string]uint, error) {
	existing, err := repos.StackRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("load stacks: %w", err)
	}

	stacksByKey := make(map[string]*entity.Stack, len(existing))
	for _, stack := range existing {
		stacksByKey[stackIdentity(stack)] = stack
	}

	joinsByEnv := make(map[uint]map[string]uint)
	kept := make(map[string]struct{}, len(m.Stacks))

	for _, decl := range m.Stacks {
		key := decl.Key()
		kept[key] = struct{}{}

		stack, ok := stacksByKey[key]
		if ok {
			changed := false
			if stack.Name != decl.Name {
				stack.Name = decl.Name
				changed = true
			}
			if stack.StackPath != decl.Stack {
				stack.StackPath = decl.Stack
				changed = true
			}
			if changed {
				if err := repos.StackRepo.Update(stack); err != nil {
					return nil, fmt.Errorf("update stack %q: %w", key, err)
				}
				result.StacksUpdated++
				r.logger.InfoWithContextf(ctx, "[Reconciler] Updated stack: %s", decl.Name)
			}
		} else {
			stack = &entity.Stack{
				ProjectID: projectID,
				Name:      decl.Name,
				StackPath: decl.Stack,
			}
			if err := repos.StackRepo.Create(stack); err != nil {
				return nil, fmt.Errorf("create stack %q: %w", key, err)
			}
			stacksByKey[key] = stack
			result.StacksCreated++
			r.logger.InfoWithContextf(ctx, "[Reconciler] Created stack: %s", decl.Name)
		}

		if err := r.syncStackJoins(ctx, repos, stack, decl, envsByName, joinsByEnv, result); err != nil {
			return nil, err
		}
	}

	for key, stack := range stacksByKey {
		if _, ok := kept[key]; ok {
			continue
		}
		joins, err := repos.StackRepo.ListJoinsByStack(stack.ID)
		if err != nil {
			return nil, fmt.Errorf("load links of stack %q: %w", key, err)
		}
		for _, join := range joins {
			if err := repos.StackRepo.DeleteDependenciesTouchingJoin(join.ID); err != nil {
				return nil, fmt.Errorf("delete dependencies of stack %q: %w", key, err)
			}
			result.StackEnvironmentsDeleted++
		}
		if err := repos.StackRepo.DeleteJoinsByStack(stack.ID); err != nil {
			return nil, fmt.Errorf("delete links of stack %q: %w", key, err)
		}
		if err := repos.ContextRepo.DetachAllByStack(stack.ID); err != nil {
			return nil, fmt.Errorf("detach contexts of stack %q: %w", key, err)
		}
		if err := repos.StackRepo.Delete(stack.ID); err != nil {
			return nil, fmt.Errorf("delete stack %q: %w", key, err)
		}
		result.StacksDeleted++
		r.logger.InfoWithContextf(ctx, "[Reconciler] Deleted stack: %s", stack.Name)
	}

	return joinsByEnv, nil
}

func (r *Reconciler) syncStackJoins(ctx context.Context, repos *repository.Repository, stack *entity.Stack, decl manifest.StackDecl, envsByName map[string]*entity.Environment, joinsByEnv map[uint]map[string]uint, result *ReconcileResult) error {
	joins, err := repos.StackRepo.ListJoinsByStack(stack.ID)
	if err != nil {
		return fmt.Errorf("load links of stack %q: %w", decl.Name, err)
	}

	joinByEnvID := make(map[uint]*entity.StackEnvironment, len(joins))
	for _, join := range joins {
		joinByEnvID[join.EnvironmentID] = join
	}

	declared := make(map[uint]struct{}, len(decl.Environments))
	for _, envName := range decl.Environments {
		// The parser guarantees referenced environments are declared, and the
		// environment pass upserted every declared one.
		env := envsByName[envName]
		declared[env.ID] = struct{}{}

		join, ok := joinByEnvID[env.ID]
		if !ok {
			join = &entity.StackEnvironment{
				StackID:       stack.ID,
				EnvironmentID: env.ID,
			}
			if err := repos.StackRepo.CreateJoin(join); err != nil {
				return fmt.Errorf("link stack %q to environment %q: %w", decl.Name, envName, err)
			}
			result.StackEnvironmentsCreated++
			r.logger.InfoWithContextf(ctx, "[Reconciler] Linked stack %q to environment %q", decl.Name, envName)
		}

		if joinsByEnv[env.ID] == nil {
			joinsByEnv[env.ID] = make(map[string]uint)
		}
		if decl.Stack != "" {
			joinsByEnv[env.ID][decl.Stack] = join.ID
		}
	}

	for envID, join := range joinByEnvID {
		if _, ok := declared[envID]; ok {
			continue
		}
		if err := repos.StackRepo.DeleteDependenciesTouchingJoin(join.ID); err != nil {
			return fmt.Errorf("delete dependencies of stack %q: %w", decl.Name, err)
		}
		if err := repos.StackRepo.DeleteJoin(join.ID); err != nil {
			return fmt.Errorf("unlink stack %q: %w", decl.Name, err)
		}
		result.StackEnvironmentsDeleted++
	}

	return nil
}

// applyDependencies resolves depends_on references per environment against
// the stacks co-declared in this pass. Unresolved references, self references
// and edges that would close a cycle are dropped with a warning; they never
// abort the pass.
func (r *Reconciler) applyDependencies(ctx context.Context, repos *repository.Repository, m *manifest.Manifest, envsByName map[string]*entity.Environment, joinsByEnv map[uint]map[string]uint, result *ReconcileResult) error {
	for _, decl := range m.Environments {
		env := envsByName[decl.Name]
		paths := joinsByEnv[env.ID]

		// Edges accepted so far in this environment, source path -> targets.
		accepted := make(map[string][]string)

		for _, stackDecl := range m.Stacks {
			if stackDecl.Stack == "" {
				continue
			}
			joinID, declaredHere := paths[stackDecl.Stack]
			if !declaredHere {
				continue
			}

			var resolved []string
			for _, dep := range stackDecl.DependsOn {
				_, targetDeclared := paths[dep]
				switch {
				case dep == stackDecl.Stack:
					result.UnresolvedDependencies = append(result.UnresolvedDependencies,
						fmt.Sprintf("%s: %s -> %s (self reference)", decl.Name, stackDecl.Stack, dep))
				case !targetDeclared:
					result.UnresolvedDependencies = append(result.UnresolvedDependencies,
						fmt.Sprintf("%s: %s -> %s (not declared in environment)", decl.Name, stackDecl.Stack, dep))
					r.logger.WarningWithContextf(ctx, "[Reconciler] Stack %q depends on %q which is not declared in environment %q", stackDecl.Stack, dep, decl.Name)
				case reaches(accepted, dep, stackDecl.Stack):
					result.UnresolvedDependencies = append(result.UnresolvedDependencies,
						fmt.Sprintf("%s: %s -> %s (dependency cycle)", decl.Name, stackDecl.Stack, dep))
					r.logger.WarningWithContextf(ctx, "[Reconciler] Dropping edge %s -> %s in environment %q: would close a cycle", stackDecl.Stack, dep, decl.Name)
				default:
					accepted[stackDecl.Stack] = append(accepted[stackDecl.Stack], dep)
					resolved = append(resolved, dep)
				}
			}

			if err := r.syncDependencyRows(repos, joinID, resolved, paths); err != nil {
				return fmt.Errorf("sync dependencies of %q in %q: %w", stackDecl.Stack, decl.Name, err)
			}
		}
	}
	return nil
}

// syncDependencyRows diffs persisted edges of one join row against the
// resolved set so a repeated identical pass writes nothing.
func (r *Reconciler) syncDependencyRows(repos *repository.Repository, joinID uint, resolved []string, paths map[string]uint) error {
	existing, err := repos.StackRepo.ListDependenciesByJoin(joinID)
	if err != nil {
		return err
	}

	existingByPath := make(map[string]*entity.StackDependency, len(existing))
	for _, dep := range existing {
		existingByPath[dep.DependsOnPath] = dep
	}

	want := make(map[string]struct{}, len(resolved))
	for _, path := range resolved {
		if _, dup := want[path]; dup {
			continue
		}
		want[path] = struct{}{}
		if _, ok := existingByPath[path]; ok {
			continue
		}
		if err := repos.StackRepo.CreateDependency(&entity.StackDependency{
			StackEnvironmentID: joinID,
			DependsOnID:        paths[path],
			DependsOnPath:      path,
		}); err != nil {
			return err
		}
	}

	for path, dep := range existingByPath {
		if _, ok := want[path]; ok {
			continue
		}
		if err := repos.StackRepo.DeleteDependency(dep.ID); err != nil {
			return err
		}
	}

	return nil
}

// reaches reports whether `to` is reachable from `from` over accepted edges.
func reaches(adj map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]bool{from: true}
	frontier := []string{from}
	for len(frontier) > 0 {
		node := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, next := range adj[node] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				frontier = append(frontier, next)
			}
		}
	}
	return false
}
