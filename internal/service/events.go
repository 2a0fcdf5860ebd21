package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/skillswap-service/internal/events"
)

// publish fills in envelope fields and hands the event to the dispatcher.
// A nil dispatcher silently drops events so services stay usable in tests.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
