package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/jmoiron/sqlx"
	"google.golang.org/api/option"

	"crewplan-backend/internal/models"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
	db     *sqlx.DB
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string, db *sqlx.DB) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, db: db}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials.
// Useful for cloud deployments (Railway, Fly.io, Render) where you can't upload files easily.
func NewFCMServiceFromBase64(credentialsBase64 string, db *sqlx.DB) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, db: db}, nil
}

// SendSchedulePublished notifies a manager's registered devices that their
// publish job finished
func (s *FCMService) SendSchedulePublished(ctx context.Context, userID string, schedule *models.WeeklySchedule) error {
	var tokens []string
	if err := s.db.Select(&tokens, `SELECT token FROM fcm_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("fetching fcm tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: "Schedule Published",
				Body:  fmt.Sprintf("Week of %s is live as version %d.", schedule.WeekStartDate, schedule.VersionNumber),
			},
			Data: map[string]string{
				"type":            "schedule_published",
				"schedule_id":     schedule.ID,
				"week_start_date": schedule.WeekStartDate,
				"version_number":  strconv.Itoa(schedule.VersionNumber),
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						ContentAvailable: true,
						Sound:            "default",
					},
				},
			},
		}

		if _, err := s.client.Send(ctx, message); err != nil {
			log.Printf("⚠️ FCM send failed for user %s: %v", userID, err)
			continue
		}
	}
	log.Printf("📲 Sent schedule_published push to %d device(s) for user %s", len(tokens), userID)
	return nil
}
