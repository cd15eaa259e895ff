package sms

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// LogSender writes messages to the log instead of a carrier. Meant for local
// development where no SMS account is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "sms_log").Logger()}
}

func (s *LogSender) Send(_ context.Context, to, body string) (ports.SMSResult, error) {
	id := "log-" + uuid.NewString()
	s.log.Info().Str("to", to).Str("message_id", id).Str("body", body).Msg("sms not sent, logged instead")
	return ports.SMSResult{MessageID: id}, nil
}
