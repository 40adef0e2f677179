package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"crewplan-backend/internal/middleware"
	"crewplan-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// RegisterFCMToken saves or refreshes a device's push token for the caller
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "Token is required")
			return
		}
		if req.DeviceType != "ios" && req.DeviceType != "android" {
			utils.RespondError(w, http.StatusBadRequest, "Device type must be 'ios' or 'android'")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (token)
			DO UPDATE SET user_id = EXCLUDED.user_id, device_type = EXCLUDED.device_type, updated_at = EXCLUDED.updated_at
		`, user.UserID, req.Token, req.DeviceType, now, now)
		if err != nil {
			log.Printf("❌ Failed to register FCM token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		log.Printf("📲 FCM token registered for user %s (%s)", user.UserID, req.DeviceType)
		utils.RespondSuccess(w, http.StatusOK, map[string]string{"status": "registered"})
	}
}
