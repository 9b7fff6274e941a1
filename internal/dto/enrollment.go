package dto

import "time"

// DeleteEnrollmentRequest confirms a staged deletion.
type DeleteEnrollmentRequest struct {
	Token        string `json:"token" binding:"required"`
	Acknowledged bool   `json:"acknowledged"`
}

// DeleteConfirmationResponse hands the client the token it must present once
// the countdown has elapsed.
type DeleteConfirmationResponse struct {
	Token        string    `json:"token"`
	IssuedAt     time.Time `json:"issuedAt"`
	ConfirmAfter int64     `json:"confirmAfterMs"`
}
