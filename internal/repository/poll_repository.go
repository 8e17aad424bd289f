package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhub-dev/eventhub/internal/poll"
)

// PollRepository stores published polls.
type PollRepository interface {
	Create(ctx context.Context, p *poll.Poll) error
	GetByID(ctx context.Context, id string) (*poll.Poll, error)
}

type pollRepository struct {
	pool *pgxpool.Pool
}

// NewPollRepository returns a Postgres-backed implementation.
func NewPollRepository(pool *pgxpool.Pool) PollRepository {
	return &pollRepository{pool: pool}
}

func (r *pollRepository) Create(ctx context.Context, p *poll.Poll) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const insertPoll = `
        INSERT INTO polls (title)
        VALUES ($1)
        RETURNING id, published_at`
	if err = tx.QueryRow(ctx, insertPoll, p.Form.Title).Scan(&p.ID, &p.PublishedAt); err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}

	const insertQuestion = `
        INSERT INTO poll_questions (id, poll_id, position, title)
        VALUES ($1, $2, $3, $4)`
	const insertAnswer = `
        INSERT INTO poll_answers (id, question_id, position, title)
        VALUES ($1, $2, $3, $4)`

	batch := &pgx.Batch{}
	for qi, q := range p.Form.Questions {
		batch.Queue(insertQuestion, q.ID, p.ID, qi, q.Title)
		for ai, a := range q.Answers {
			batch.Queue(insertAnswer, a.ID, q.ID, ai, a.Title)
		}
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert poll items: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pollRepository) GetByID(ctx context.Context, id string) (*poll.Poll, error) {
	const pollQuery = `
        SELECT id, title, published_at
        FROM polls WHERE id=$1`

	var p poll.Poll
	if err := r.pool.QueryRow(ctx, pollQuery, id).Scan(&p.ID, &p.Form.Title, &p.PublishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
        SELECT q.id, q.title, a.id, a.title
        FROM poll_questions q
        LEFT JOIN poll_answers a ON a.question_id = q.id
        WHERE q.poll_id=$1
        ORDER BY q.position, a.position`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Form.Questions = []poll.Question{}
	for rows.Next() {
		var (
			questionID, questionTitle string
			answerID, answerTitle     *string
		)
		if err := rows.Scan(&questionID, &questionTitle, &answerID, &answerTitle); err != nil {
			return nil, err
		}
		n := len(p.Form.Questions)
		if n == 0 || p.Form.Questions[n-1].ID != questionID {
			p.Form.Questions = append(p.Form.Questions, poll.Question{ID: questionID, Title: questionTitle, Answers: []poll.Answer{}})
			n++
		}
		if answerID != nil {
			q := &p.Form.Questions[n-1]
			q.Answers = append(q.Answers, poll.Answer{ID: *answerID, Title: derefString(answerTitle)})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
