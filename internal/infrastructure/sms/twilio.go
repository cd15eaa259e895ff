// Package sms holds the SMSSender implementations.
package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

type TwilioSender struct {
	api  messageCreator
	from string
}

func NewTwilioSender(cfg TwilioConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, errors.New("twilio: missing account sid, auth token or sender number")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &TwilioSender{api: client.Api, from: cfg.From}, nil
}

// Send posts one message. The Twilio client takes no context, so ctx is only
// checked before the call.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (ports.SMSResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.SMSResult{}, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return ports.SMSResult{}, fmt.Errorf("twilio create message: %w", err)
	}

	var res ports.SMSResult
	if resp != nil && resp.Sid != nil {
		res.MessageID = *resp.Sid
	}
	return res, nil
}
