package ports

import "context"

// SMSResult is the provider's report for one message.
type SMSResult struct {
	MessageID string
}

// SMSSender delivers one SMS synchronously.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (SMSResult, error)
}

// SMSMessage is a queued outbound text. Code is kept so failed deliveries
// can be recovered from the logs.
type SMSMessage struct {
	To   string
	Body string
	Code string
}

// SMSDispatcher hands messages to background delivery. It never blocks the caller.
type SMSDispatcher interface {
	Dispatch(msg SMSMessage)
}

// CaptchaVerifier validates a client token for the named action.
// It returns domain.ErrCaptchaFailed when the token must be rejected.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, action, remoteIP string) error
}

// PasswordHasher is the one-way hashing oracle for user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
