// Package poll holds the poll-builder model. Every edit returns a new
// Form and leaves its receiver untouched; items are addressed by id only.
package poll

import (
	"time"

	"github.com/google/uuid"
)

// MinQuestions and MinAnswers bound a publishable poll.
const (
	MinQuestions = 2
	MinAnswers   = 2
)

// Answer is one possible answer to a question.
type Answer struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Question is a poll question with its answers.
type Question struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Answers []Answer `json:"answers"`
}

// Form is the editable state of a poll.
type Form struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Draft is a Form being edited.
type Draft struct {
	ID        string    `json:"id"`
	Form      Form      `json:"form"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Poll is a published Form.
type Poll struct {
	ID          string    `json:"id"`
	Form        Form      `json:"form"`
	PublishedAt time.Time `json:"published_at"`
}

// NewID returns an opaque identifier for a question or an answer.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of f.
func (f Form) Clone() Form {
	out := Form{Title: f.Title, Questions: make([]Question, len(f.Questions))}
	for i, q := range f.Questions {
		out.Questions[i] = q.clone()
	}
	return out
}

func (q Question) clone() Question {
	answers := make([]Answer, len(q.Answers))
	copy(answers, q.Answers)
	q.Answers = answers
	return q
}

// WithTitle sets the poll title.
func (f Form) WithTitle(title string) Form {
	out := f.Clone()
	out.Title = title
	return out
}

// AddQuestion appends an empty question with the given id.
func (f Form) AddQuestion(id string) Form {
	out := f.Clone()
	out.Questions = append(out.Questions, Question{ID: id, Answers: []Answer{}})
	return out
}

// RemoveQuestion drops the question with the given id.
func (f Form) RemoveQuestion(questionID string) Form {
	out := Form{Title: f.Title, Questions: make([]Question, 0, len(f.Questions))}
	for _, q := range f.Questions {
		if q.ID == questionID {
			continue
		}
		out.Questions = append(out.Questions, q.clone())
	}
	return out
}

// UpdateQuestion sets the title of the question with the given id.
func (f Form) UpdateQuestion(questionID, title string) Form {
	return f.mapQuestion(questionID, func(q Question) Question {
		q.Title = title
		return q
	})
}

// AddAnswer appends an empty answer with id answerID to a question.
func (f Form) AddAnswer(questionID, answerID string) Form {
	return f.mapQuestion(questionID, func(q Question) Question {
		q.Answers = append(q.Answers, Answer{ID: answerID})
		return q
	})
}

// RemoveAnswer drops one answer from a question.
func (f Form) RemoveAnswer(questionID, answerID string) Form {
	return f.mapQuestion(questionID, func(q Question) Question {
		kept := make([]Answer, 0, len(q.Answers))
		for _, a := range q.Answers {
			if a.ID != answerID {
				kept = append(kept, a)
			}
		}
		q.Answers = kept
		return q
	})
}

// UpdateAnswer sets the title of one answer.
func (f Form) UpdateAnswer(questionID, answerID, title string) Form {
	return f.mapQuestion(questionID, func(q Question) Question {
		for i := range q.Answers {
			if q.Answers[i].ID == answerID {
				q.Answers[i].Title = title
			}
		}
		return q
	})
}

func (f Form) mapQuestion(questionID string, fn func(Question) Question) Form {
	out := f.Clone()
	for i, q := range out.Questions {
		if q.ID == questionID {
			out.Questions[i] = fn(q)
		}
	}
	return out
}

// Question returns the question with the given id.
func (f Form) Question(questionID string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// HasAnswer reports whether the question holds an answer with answerID.
func (q Question) HasAnswer(answerID string) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

// IsSubmittable reports whether the poll can be published: a title, at
// least two questions, every question titled with at least two answers,
// and every answer titled.
func (f Form) IsSubmittable() bool {
	if f.Title == "" || len(f.Questions) < MinQuestions {
		return false
	}
	for _, q := range f.Questions {
		if q.Title == "" || len(q.Answers) < MinAnswers {
			return false
		}
		for _, a := range q.Answers {
			if a.Title == "" {
				return false
			}
		}
	}
	return true
}
