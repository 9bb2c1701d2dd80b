package v1

import (
	"log/slog"
	"time"
)

type AtriumClient struct {
	Transport *Transport
	Search    *SearchEndpoint
}

// NewAtriumClient initializes the portal client. Call Transport.Login once
// at startup to establish the session.
func NewAtriumClient(baseURL, username, password string, timeout time.Duration, logger *slog.Logger) *AtriumClient {
	t := NewTransport(baseURL, username, password, timeout, logger)
	return &AtriumClient{
		Transport: t,
		Search:    &SearchEndpoint{transport: t},
	}
}
