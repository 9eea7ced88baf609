package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kachaniabdellah86/ficam-festival-app/internal/model"
	"github.com/kachaniabdellah86/ficam-festival-app/pkg/logger"
)

// CompletionChannel is the Redis pub/sub channel carrying grant events for
// the admin live feed.
const CompletionChannel = "ficam:completions"

type CompletionEvent struct {
	ID            string    `json:"id"`
	UserID        uint      `json:"userId"`
	ActivityID    uint      `json:"activityId"`
	ActivityTitle string    `json:"activityTitle"`
	GrantedAt     time.Time `json:"grantedAt"`
}

// EventService broadcasts completion grants over Redis pub/sub. Delivery is
// best-effort: a failed publish is logged and dropped, never surfaced to the
// scan that caused it.
type EventService struct {
	Redis *redis.Client
}

func NewEventService(rdb *redis.Client) *EventService {
	return &EventService{Redis: rdb}
}

func (s *EventService) PublishGrant(ctx context.Context, userID uint, activity *model.Activity, grantedAt time.Time) {
	event := CompletionEvent{
		ID:            uuid.New().String(),
		UserID:        userID,
		ActivityID:    activity.ID,
		ActivityTitle: activity.Title,
		GrantedAt:     grantedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("failed to encode completion event", zap.Error(err))
		return
	}

	if err := s.Redis.Publish(ctx, CompletionChannel, payload).Err(); err != nil {
		logger.Log.Error("failed to publish completion event",
			zap.Uint("user_id", userID),
			zap.Uint("activity_id", activity.ID),
			zap.Error(err),
		)
	}
}
