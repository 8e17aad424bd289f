package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventhub-dev/eventhub/internal/events"
	"github.com/eventhub-dev/eventhub/internal/repository"
	apperrors "github.com/eventhub-dev/eventhub/pkg/util/errorutil"
)

// DefaultActivityLimit bounds activity listings.
const DefaultActivityLimit = 20

// ActivityService records domain events as a per-member activity log.
type ActivityService struct {
	dispatcher events.Dispatcher
	store      repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, store repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.record)
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.record)
	a.dispatcher.Subscribe(events.EventProfileUpdated, a.record)
	a.dispatcher.Subscribe(events.EventPollPublished, a.record)
}

func (a *ActivityService) record(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("subject_id", event.SubjectID), zap.Any("payload", event.Payload))

	entry := repository.Activity{
		ID:        event.ID,
		Type:      string(event.Type),
		SubjectID: event.SubjectID,
		Timestamp: event.Timestamp,
	}
	switch p := event.Payload.(type) {
	case events.UserRegisteredPayload:
		entry.Details = map[string]any{"email": p.Email}
	case events.ProfileUpdatedPayload:
		entry.Details = map[string]any{"old_email": p.OldEmail, "new_email": p.NewEmail}
	case events.PollPublishedPayload:
		entry.Details = map[string]any{"draft_id": p.DraftID, "title": p.Title, "questions": p.Questions}
	}
	return a.store.Append(ctx, entry)
}

// Recent lists the newest activity of a member.
func (a *ActivityService) Recent(ctx context.Context, subjectID string, limit int) ([]repository.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultActivityLimit
	}
	entries, err := a.store.ListBySubject(ctx, subjectID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}
