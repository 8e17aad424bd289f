package dto

import (
	"time"

	"github.com/eventhub-dev/eventhub/internal/poll"
)

// TitleRequest sets the title of a poll, a question or an answer.
type TitleRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// DraftResponse is the editable view of a draft.
type DraftResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Questions   []poll.Question `json:"questions"`
	Submittable bool            `json:"submittable"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewDraftResponse maps a draft.
func NewDraftResponse(d *poll.Draft) DraftResponse {
	questions := d.Form.Questions
	if questions == nil {
		questions = []poll.Question{}
	}
	return DraftResponse{
		ID:          d.ID,
		Title:       d.Form.Title,
		Questions:   questions,
		Submittable: d.Form.IsSubmittable(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// PollResponse is a published poll.
type PollResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Questions   []poll.Question `json:"questions"`
	PublishedAt time.Time       `json:"published_at"`
}

// NewPollResponse maps a published poll.
func NewPollResponse(p *poll.Poll) PollResponse {
	return PollResponse{
		ID:          p.ID,
		Title:       p.Form.Title,
		Questions:   p.Form.Questions,
		PublishedAt: p.PublishedAt,
	}
}
