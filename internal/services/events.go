package services

import (
	"context"
	"encoding/json"

	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=events.go -destination=events_mock.go -package=services

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// publishUserRegistered announces a new user. Failures are logged, never returned.
func (svc *AuthService) publishUserRegistered(ctx context.Context, user models.UserRecord) {
	if svc.events == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "user_id", user.ID)
		return
	}

	event := models.UserRegisteredEvent{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal user event for Kafka", "user_id", user.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(user.ID),
		Value: data,
	}

	if err := svc.events.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish user event to Kafka", "user_id", user.ID, "error", err)
	} else {
		logger.Log.Infow("User event published to Kafka", "user_id", user.ID)
	}
}
