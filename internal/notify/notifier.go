package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"complaint-service/internal/config"
	"complaint-service/internal/model"
)

const (
	emergencyChannel = "complaints:emergency"
	escalatedChannel = "complaints:escalated"
)

// Notifier fans events out to interested admin sessions. Delivery is fire and
// forget: callers log a failed publish and move on, a transition never fails
// because nobody was listening.
type Notifier interface {
	PublishEmergency(ctx context.Context, complaint *model.Complaint) error
	PublishEscalation(ctx context.Context, complaint *model.Complaint) error
}

type event struct {
	Kind        string    `json:"kind"`
	ComplaintID string    `json:"complaint_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Hostel      string    `json:"hostel"`
	Status      string    `json:"status"`
	EscalatedTo string    `json:"escalated_to,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(cfg *config.Config) *RedisNotifier {
	return &RedisNotifier{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
	}
}

func (n *RedisNotifier) PublishEmergency(ctx context.Context, complaint *model.Complaint) error {
	return n.publish(ctx, emergencyChannel, "emergency", complaint)
}

func (n *RedisNotifier) PublishEscalation(ctx context.Context, complaint *model.Complaint) error {
	return n.publish(ctx, escalatedChannel, "escalated", complaint)
}

func (n *RedisNotifier) publish(ctx context.Context, channel, kind string, complaint *model.Complaint) error {
	e := event{
		Kind:        kind,
		ComplaintID: complaint.ID.String(),
		Title:       complaint.Title,
		Location:    complaint.Location,
		Hostel:      complaint.Hostel,
		Status:      string(complaint.Status),
		OccurredAt:  time.Now().UTC(),
	}
	if complaint.EscalatedTo != nil {
		e.EscalatedTo = *complaint.EscalatedTo
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, channel, payload).Err()
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

// Nop is used in tests and in deployments without redis.
type Nop struct{}

func (Nop) PublishEmergency(ctx context.Context, complaint *model.Complaint) error { return nil }
func (Nop) PublishEscalation(ctx context.Context, complaint *model.Complaint) error { return nil }
