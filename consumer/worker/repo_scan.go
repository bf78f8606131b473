package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/infra/produce"
	"github.com/colonia-io/colonia/manifest"
	"github.com/colonia-io/colonia/repository"
	"gorm.io/datatypes"
)

type RepoScanConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
	reconciler *Reconciler
	config     *config.EnvConfig
}

func NewRepoScanConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository, cfg *config.EnvConfig) *RepoScanConsumer {
	return &RepoScanConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
		reconciler: NewReconciler(repo, infra.Logger),
		config:     cfg,
	}
}

func (c *RepoScanConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.RepoScanQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register repo scan consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Repo Scan Consumer] Started listening for scan jobs on queue: %s", produce.RepoScanQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Repo Scan Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Repo Scan Consumer] Channel closed")
					return
				}
				c.handleScan(ctx, msg)
			}
		}
	}()

	return nil
}

func lockKey(projectID uint) string {
	return fmt.Sprintf("repo-scan:lock:%d", projectID)
}

func (c *RepoScanConsumer) handleScan(ctx context.Context, msg amqp.Delivery) {
	c.infra.Logger.InfoWithContextf(ctx, "[Repo Scan Consumer] Received message: %s", string(msg.Body))

	var payload produce.RepoScanMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	if _, err := c.repository.ProjectRepo.GetByID(payload.ProjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The project was deleted after the message was published.
			c.infra.Logger.WarningWithContextf(ctx, "[Repo Scan Consumer] Project %d no longer exists, dropping message", payload.ProjectID)
			_ = msg.Ack(false)
			return
		}
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Failed to load project %d: %v", payload.ProjectID, err)
		_ = msg.Nack(false, true)
		return
	}

	// One scan per project at a time. A held lock means another worker is on
	// it right now; requeue and let the broker redeliver.
	lockTTL := time.Duration(c.config.Scan.LockTTL) * time.Second
	acquired, err := c.infra.Redis.SetNX(ctx, lockKey(payload.ProjectID), payload.ScanID.String(), lockTTL)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Failed to acquire scan lock for project %d: %v", payload.ProjectID, err)
		_ = msg.Nack(false, true)
		return
	}
	if !acquired {
		c.infra.Logger.WarningWithContextf(ctx, "[Repo Scan Consumer] Scan already in progress for project %d, requeueing", payload.ProjectID)
		_ = msg.Nack(false, true)
		return
	}
	defer func() {
		if err := c.infra.Redis.Delete(context.WithoutCancel(ctx), lockKey(payload.ProjectID)); err != nil {
			c.infra.Logger.WarningWithContextf(ctx, "[Repo Scan Consumer] Failed to release scan lock for project %d: %v", payload.ProjectID, err)
		}
	}()

	c.executeScan(ctx, payload, msg)
}

func (c *RepoScanConsumer) executeScan(ctx context.Context, payload produce.RepoScanMessage, msg amqp.Delivery) {
	raw, err := c.fetchWithRetry(ctx, payload)
	if err != nil {
		if errors.Is(err, infra.ErrManifestNotFound) {
			// Missing manifest never destroys state; record the outcome and
			// leave every persisted row untouched.
			c.infra.Logger.InfoWithContextf(ctx, "[Repo Scan Consumer] No manifest in repository of project %q, leaving state unchanged", payload.ProjectName)
			c.recordScan(ctx, payload, entity.ScanStatusNoManifest, "manifest not found in repository", nil)
			_ = msg.Ack(false)
			return
		}
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Failed to fetch manifest for project %q, requeueing: %v", payload.ProjectName, err)
		c.recordScan(ctx, payload, entity.ScanStatusFetchFailed, err.Error(), nil)
		_ = msg.Nack(false, true)
		return
	}

	parsed, err := manifest.Parse(raw)
	if err != nil {
		// A malformed manifest fails the whole scan; redelivery cannot help
		// until the repository changes, so acknowledge.
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Invalid manifest for project %q: %v", payload.ProjectName, err)
		c.recordScan(ctx, payload, entity.ScanStatusParseFailed, err.Error(), nil)
		_ = msg.Ack(false)
		return
	}

	result, err := c.reconciler.Reconcile(ctx, payload.ProjectID, parsed)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Reconcile failed for project %q, requeueing: %v", payload.ProjectName, err)
		_ = msg.Nack(false, true)
		return
	}

	summary, err := json.Marshal(result)
	if err != nil {
		summary = nil
	}
	c.recordScan(ctx, payload, entity.ScanStatusSucceeded, "", summary)
	c.infra.Logger.InfoWithContextf(ctx, "[Repo Scan Consumer] Reconciled project %q: %+v", payload.ProjectName, result)
	_ = msg.Ack(false)
}

func (c *RepoScanConsumer) fetchWithRetry(ctx context.Context, payload produce.RepoScanMessage) ([]byte, error) {
	maxRetries := 3
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		raw, err := c.infra.SCM.FetchManifest(ctx, payload.RepositoryURL)
		if err == nil {
			return raw, nil
		}
		if errors.Is(err, infra.ErrManifestNotFound) {
			return nil, err
		}

		lastErr = err
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Fetch attempt %d/%d failed for project %q: %v", attempt, maxRetries, payload.ProjectName, err)

		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}
	return nil, lastErr
}

func (c *RepoScanConsumer) recordScan(ctx context.Context, payload produce.RepoScanMessage, status, detail string, summary []byte) {
	scan := &entity.RepoScan{
		ScanID:    payload.ScanID,
		ProjectID: payload.ProjectID,
		Status:    status,
		Detail:    detail,
	}
	if summary != nil {
		scan.Summary = datatypes.JSON(summary)
	}
	if err := c.repository.RepoScanRepo.Create(scan); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Repo Scan Consumer] Failed to record scan outcome for project %d: %v", payload.ProjectID, err)
	}
}
