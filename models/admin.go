package models

import "time"

// AppVersion is a distributed mobile build
type AppVersion struct {
	ID           int       `json:"id,omitempty"`
	Platform     string    `json:"platform"`
	Version      string    `json:"version"`
	ReleaseNotes string    `json:"release_notes,omitempty"`
	DownloadURL  string    `json:"download_url,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// GameLevel configures one level of the memory-card mini game
type GameLevel struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Pairs      int    `json:"pairs"`
	TimeLimit  int    `json:"time_limit"`
	Points     int    `json:"points"`
	OrderIndex int    `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

// GameImage is a card face image
type GameImage struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	IsActive bool   `json:"is_active"`
}

// GameSettings holds the mini game back-office settings
type GameSettings struct {
	WebhookURL    string `json:"webhook_url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
	Enabled       bool   `json:"enabled"`
	DailyLimit    int    `json:"daily_limit,omitempty"`
}

// GameStats aggregates play counters
type GameStats struct {
	TotalPlayers int `json:"total_players"`
	TotalGames   int `json:"total_games"`
	GamesToday   int `json:"games_today"`
	PointsIssued int `json:"points_issued"`
}

// LeaderboardEntry is a ranked player
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// AdminUser is a user row of the points back-office
type AdminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Points   int    `json:"points"`
}

// PointsAction is the kind of ledger adjustment
type PointsAction string

// Points action constants
const (
	PointsAdd      PointsAction = "add"
	PointsSubtract PointsAction = "subtract"
	PointsSet      PointsAction = "set"
)

// PointsAdjustment is the payload of POST /api/admin/users/points
type PointsAdjustment struct {
	UserID string       `json:"user_id"`
	Action PointsAction `json:"action"`
	Amount int          `json:"amount"`
	Reason string       `json:"reason"`
}

// PointsResult is the upstream answer to a points adjustment
type PointsResult struct {
	Message   string `json:"message"`
	NewPoints int    `json:"new_points"`
}

// LoginResult carries the tokens issued by /auth/login/
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// PasswordChange is the payload of /auth/change-password/
type PasswordChange struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_new_password"`
}
