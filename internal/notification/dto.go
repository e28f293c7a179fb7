package notification

import (
	"errors"
	"strings"
	"time"
)

type NotifyClassDTO struct {
	ClassID int64  `json:"class_id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (dto NotifyClassDTO) Validate() error {
	if dto.ClassID <= 0 {
		return errors.New("class id is required")
	}
	if strings.TrimSpace(dto.Subject) == "" {
		return errors.New("subject is required")
	}
	if strings.TrimSpace(dto.Body) == "" {
		return errors.New("body is required")
	}
	if len(dto.Body) > 5000 {
		return errors.New("body must be at most 5000 characters")
	}
	return nil
}

type NotifyClassResponse struct {
	ClassID int64     `json:"class_id"`
	Queued  int       `json:"queued"`
	Skipped int       `json:"skipped"`
	SentAt  time.Time `json:"sent_at"`
}
