package produce

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RepoScanQueue      = "repo.scan"
	RepoScanExchange   = "colonia.exchange"
	RepoScanRoutingKey = "repo.scan"
)

// RepoScanMessage asks the worker to scan a project's repository for a
// manifest and reconcile its environments and stacks.
type RepoScanMessage struct {
	ScanID        uuid.UUID `json:"scan_id"`
	ProjectID     uint      `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	RepositoryURL string    `json:"repository_url"`
	Timestamp     int64     `json:"timestamp"`
}

// ScanService publishes repository scan requests.
type ScanService struct {
	channel *amqp.Channel
}

func InitScanService(channel *amqp.Channel) *ScanService {
	service := &ScanService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		RepoScanExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Scan exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		RepoScanQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Repo Scan queue: " + err.Error())
	}

	err = channel.QueueBind(
		RepoScanQueue,
		RepoScanRoutingKey,
		RepoScanExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Repo Scan queue: " + err.Error())
	}

	return service
}

// PublishRepoScan enqueues a scan request. A fresh ScanID is assigned when
// the caller leaves it zero.
func (s *ScanService) PublishRepoScan(ctx context.Context, msg RepoScanMessage) error {
	if msg.ScanID == uuid.Nil {
		msg.ScanID = uuid.New()
	}
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		RepoScanExchange,
		RepoScanRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
