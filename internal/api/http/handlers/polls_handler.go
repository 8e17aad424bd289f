package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub-dev/eventhub/internal/api/dto"
	"github.com/eventhub-dev/eventhub/internal/poll"
	"github.com/eventhub-dev/eventhub/internal/service"
)

// PollsHandler exposes the poll builder.
type PollsHandler struct {
	polls *service.PollService
}

// NewPollsHandler constructs handler.
func NewPollsHandler(polls *service.PollService) *PollsHandler {
	return &PollsHandler{polls: polls}
}

// CreateDraft handles POST /polls/drafts.
func (h *PollsHandler) CreateDraft(c *fiber.Ctx) error {
	draft, err := h.polls.CreateDraft(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDraftResponse(draft)})
}

// GetDraft handles GET /polls/drafts/:id.
func (h *PollsHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.polls.GetDraft(c.UserContext(), c.Params("id"))
	return h.draftResponse(c, draft, err)
}

// SetTitle handles PUT /polls/drafts/:id/title.
func (h *PollsHandler) SetTitle(c *fiber.Ctx) error {
	title, err := parseTitle(c)
	if err != nil {
		return err
	}
	draft, err := h.polls.SetTitle(c.UserContext(), c.Params("id"), title)
	return h.draftResponse(c, draft, err)
}

// AddQuestion handles POST /polls/drafts/:id/questions.
func (h *PollsHandler) AddQuestion(c *fiber.Ctx) error {
	draft, questionID, err := h.polls.AddQuestion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"draft":       dto.NewDraftResponse(draft),
			"question_id": questionID,
		},
	})
}

// UpdateQuestion handles PUT /polls/drafts/:id/questions/:qid.
func (h *PollsHandler) UpdateQuestion(c *fiber.Ctx) error {
	title, err := parseTitle(c)
	if err != nil {
		return err
	}
	draft, err := h.polls.UpdateQuestion(c.UserContext(), c.Params("id"), c.Params("qid"), title)
	return h.draftResponse(c, draft, err)
}

// RemoveQuestion handles DELETE /polls/drafts/:id/questions/:qid.
func (h *PollsHandler) RemoveQuestion(c *fiber.Ctx) error {
	draft, err := h.polls.RemoveQuestion(c.UserContext(), c.Params("id"), c.Params("qid"))
	return h.draftResponse(c, draft, err)
}

// AddAnswer handles POST /polls/drafts/:id/questions/:qid/answers.
func (h *PollsHandler) AddAnswer(c *fiber.Ctx) error {
	draft, answerID, err := h.polls.AddAnswer(c.UserContext(), c.Params("id"), c.Params("qid"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"draft":     dto.NewDraftResponse(draft),
			"answer_id": answerID,
		},
	})
}

// UpdateAnswer handles PUT /polls/drafts/:id/questions/:qid/answers/:aid.
func (h *PollsHandler) UpdateAnswer(c *fiber.Ctx) error {
	title, err := parseTitle(c)
	if err != nil {
		return err
	}
	draft, err := h.polls.UpdateAnswer(c.UserContext(), c.Params("id"), c.Params("qid"), c.Params("aid"), title)
	return h.draftResponse(c, draft, err)
}

// RemoveAnswer handles DELETE /polls/drafts/:id/questions/:qid/answers/:aid.
func (h *PollsHandler) RemoveAnswer(c *fiber.Ctx) error {
	draft, err := h.polls.RemoveAnswer(c.UserContext(), c.Params("id"), c.Params("qid"), c.Params("aid"))
	return h.draftResponse(c, draft, err)
}

// Publish handles POST /polls/drafts/:id/publish.
func (h *PollsHandler) Publish(c *fiber.Ctx) error {
	published, err := h.polls.Publish(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPollResponse(published)})
}

// GetPoll handles GET /polls/:id.
func (h *PollsHandler) GetPoll(c *fiber.Ctx) error {
	p, err := h.polls.GetPoll(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPollResponse(p)})
}

func (h *PollsHandler) draftResponse(c *fiber.Ctx, draft *poll.Draft, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDraftResponse(draft)})
}

func parseTitle(c *fiber.Ctx) (string, error) {
	var req dto.TitleRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return "", err
	}
	return req.Title, nil
}
