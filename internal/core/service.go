package core

import (
	"context"
	"fmt"
	"log/slog"
)

// Service is the entry point the hosting layer drives. It owns no state
// between requests; each Preview call is an independent computation, so
// concurrent invocations need no coordination.
type Service struct{}

// NewService creates a new Service instance.
func NewService() *Service {
	return &Service{}
}

// Preview composes the notification for one request. The pipeline itself is
// total, but this is the outermost boundary: any unexpected panic below is
// recovered and reported as an error, never propagated, and never with
// partial results.
func (s *Service) Preview(ctx context.Context, req EmailRequest) (email *Email, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "preview panic", "panic", r)
			email = nil
			err = fmt.Errorf("compose email: %v", r)
		}
	}()

	e := BuildEmail(req)
	return &e, nil
}

// RenderPlainText concatenates a finalized subject and body as downloadable
// text content.
func RenderPlainText(subject, body string) string {
	return subject + "\n\n" + body
}
