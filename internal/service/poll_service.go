package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub-dev/eventhub/internal/events"
	"github.com/eventhub-dev/eventhub/internal/poll"
	"github.com/eventhub-dev/eventhub/internal/repository"
	apperrors "github.com/eventhub-dev/eventhub/pkg/util/errorutil"
)

// MsgPollNotReady is reported when publishing an incomplete draft.
const MsgPollNotReady = "poll needs a title and at least two questions, each with a title and at least two filled answers"

// PollService drives the poll builder: drafts are edited in place and
// published once complete.
type PollService struct {
	drafts     repository.DraftRepository
	polls      repository.PollRepository
	dispatcher events.Dispatcher
	newID      func() string
	now        func() time.Time

	// edits are read-modify-write on the draft store
	mu sync.Mutex
}

// PollDependencies encapsulates collaborators for the poll service.
type PollDependencies struct {
	Drafts     repository.DraftRepository
	Polls      repository.PollRepository
	Dispatcher events.Dispatcher
}

// NewPollService builds the service.
func NewPollService(deps PollDependencies) *PollService {
	return &PollService{
		drafts:     deps.Drafts,
		polls:      deps.Polls,
		dispatcher: deps.Dispatcher,
		newID:      poll.NewID,
		now:        time.Now,
	}
}

// CreateDraft starts an empty poll.
func (s *PollService) CreateDraft(ctx context.Context) (*poll.Draft, error) {
	now := s.now().UTC()
	draft := &poll.Draft{
		ID:        uuid.NewString(),
		Form:      poll.Form{Questions: []poll.Question{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return draft, nil
}

// GetDraft loads a draft.
func (s *PollService) GetDraft(ctx context.Context, id string) (*poll.Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("draft", map[string]any{"draft_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return draft, nil
}

// SetTitle sets the poll title.
func (s *PollService) SetTitle(ctx context.Context, draftID, title string) (*poll.Draft, error) {
	return s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		return f.WithTitle(title), nil
	})
}

// AddQuestion appends an empty question and returns its id.
func (s *PollService) AddQuestion(ctx context.Context, draftID string) (*poll.Draft, string, error) {
	id := s.newID()
	draft, err := s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		return f.AddQuestion(id), nil
	})
	return draft, id, err
}

// UpdateQuestion sets a question title.
func (s *PollService) UpdateQuestion(ctx context.Context, draftID, questionID, title string) (*poll.Draft, error) {
	return s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		if _, ok := f.Question(questionID); !ok {
			return f, questionNotFound(questionID)
		}
		return f.UpdateQuestion(questionID, title), nil
	})
}

// RemoveQuestion drops a question with its answers.
func (s *PollService) RemoveQuestion(ctx context.Context, draftID, questionID string) (*poll.Draft, error) {
	return s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		if _, ok := f.Question(questionID); !ok {
			return f, questionNotFound(questionID)
		}
		return f.RemoveQuestion(questionID), nil
	})
}

// AddAnswer appends an empty answer to a question and returns its id.
func (s *PollService) AddAnswer(ctx context.Context, draftID, questionID string) (*poll.Draft, string, error) {
	id := s.newID()
	draft, err := s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		if _, ok := f.Question(questionID); !ok {
			return f, questionNotFound(questionID)
		}
		return f.AddAnswer(questionID, id), nil
	})
	return draft, id, err
}

// UpdateAnswer sets an answer title.
func (s *PollService) UpdateAnswer(ctx context.Context, draftID, questionID, answerID, title string) (*poll.Draft, error) {
	return s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		if err := requireAnswer(f, questionID, answerID); err != nil {
			return f, err
		}
		return f.UpdateAnswer(questionID, answerID, title), nil
	})
}

// RemoveAnswer drops an answer.
func (s *PollService) RemoveAnswer(ctx context.Context, draftID, questionID, answerID string) (*poll.Draft, error) {
	return s.edit(ctx, draftID, func(f poll.Form) (poll.Form, error) {
		if err := requireAnswer(f, questionID, answerID); err != nil {
			return f, err
		}
		return f.RemoveAnswer(questionID, answerID), nil
	})
}

// Publish stores a complete draft as a poll and discards the draft.
func (s *PollService) Publish(ctx context.Context, draftID string) (*poll.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !draft.Form.IsSubmittable() {
		return nil, apperrors.NewUnprocessable(MsgPollNotReady, map[string]any{"draft_id": draftID})
	}

	published := &poll.Poll{Form: draft.Form.Clone()}
	if err := s.polls.Create(ctx, published); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.drafts.Delete(ctx, draftID); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventPollPublished, published.ID, events.PollPublishedPayload{
			DraftID:   draftID,
			Title:     published.Form.Title,
			Questions: len(published.Form.Questions),
		}))
	}
	return published, nil
}

// GetPoll loads a published poll.
func (s *PollService) GetPoll(ctx context.Context, id string) (*poll.Poll, error) {
	p, err := s.polls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("poll", map[string]any{"poll_id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return p, nil
}

func (s *PollService) edit(ctx context.Context, draftID string, fn func(poll.Form) (poll.Form, error)) (*poll.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	next, err := fn(draft.Form)
	if err != nil {
		return nil, err
	}
	draft.Form = next
	draft.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return draft, nil
}

func questionNotFound(questionID string) error {
	return apperrors.NewNotFound("question", map[string]any{"question_id": questionID})
}

func requireAnswer(f poll.Form, questionID, answerID string) error {
	q, ok := f.Question(questionID)
	if !ok {
		return questionNotFound(questionID)
	}
	if !q.HasAnswer(answerID) {
		return apperrors.NewNotFound("answer", map[string]any{"answer_id": answerID})
	}
	return nil
}
