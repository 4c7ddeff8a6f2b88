package quizzes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studyhall/studyhall/pkg/storage"
)

var (
	// ErrNotFound is returned when no quiz matches the given ID
	ErrNotFound = errors.New("quiz not found")
	// ErrCreatorNotFound is returned when the creator ID does not belong to a
	// registered user
	ErrCreatorNotFound = errors.New("creator not found")
)

// Service defines quiz operations
type Service interface {
	List(ctx context.Context) ([]Quiz, error)
	Get(ctx context.Context, id int64) (*Quiz, error)
	Create(ctx context.Context, quiz *Quiz) (*Quiz, error)
	Update(ctx context.Context, id int64, quiz *Quiz) (*Quiz, error)
	Delete(ctx context.Context, id int64) error
}

// SQLService implements Service over the SQL database
type SQLService struct {
	db *storage.DB
}

// NewSQLService creates a new SQL-backed quiz service
func NewSQLService(db *storage.DB) *SQLService {
	return &SQLService{db: db}
}

// List returns all quizzes with their questions
func (s *SQLService) List(ctx context.Context) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, creator_id FROM quizzes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []Quiz{}
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CreatorID); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	for i := range quizzes {
		questions, err := s.loadQuestions(ctx, quizzes[i].ID)
		if err != nil {
			return nil, err
		}
		quizzes[i].Questions = questions
	}
	return quizzes, nil
}

// Get returns a single quiz with its questions
func (s *SQLService) Get(ctx context.Context, id int64) (*Quiz, error) {
	q := &Quiz{}
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT id, title, description, creator_id FROM quizzes WHERE id = ?"), id).
		Scan(&q.ID, &q.Title, &q.Description, &q.CreatorID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	questions, err := s.loadQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Questions = questions
	return q, nil
}

// Create stores a new quiz and its questions
func (s *SQLService) Create(ctx context.Context, quiz *Quiz) (*Quiz, error) {
	exists, err := s.creatorExists(ctx, quiz.CreatorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCreatorNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.db.TxInsertReturningID(ctx, tx,
		"INSERT INTO quizzes (title, description, creator_id) VALUES (?, ?, ?)",
		quiz.Title, quiz.Description, quiz.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	if err := s.insertQuestions(ctx, tx, id, quiz.Questions); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quiz: %w", err)
	}

	quiz.ID = id
	if quiz.Questions == nil {
		quiz.Questions = []Question{}
	}
	return quiz, nil
}

// Update replaces a quiz's title, description and entire question list. The
// stored creator is preserved.
func (s *SQLService) Update(ctx context.Context, id int64, quiz *Quiz) (*Quiz, error) {
	var creatorID int64
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT creator_id FROM quizzes WHERE id = ?"), id).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.db.Rebind("UPDATE quizzes SET title = ?, description = ? WHERE id = ?"),
		quiz.Title, quiz.Description, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.db.Rebind("DELETE FROM questions WHERE quiz_id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to clear questions: %w", err)
	}
	if err := s.insertQuestions(ctx, tx, id, quiz.Questions); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quiz: %w", err)
	}

	quiz.ID = id
	quiz.CreatorID = creatorID
	if quiz.Questions == nil {
		quiz.Questions = []Question{}
	}
	return quiz, nil
}

// Delete removes a quiz and its questions
func (s *SQLService) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM quizzes WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLService) creatorExists(ctx context.Context, creatorID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT COUNT(*) FROM users WHERE id = ?"), creatorID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check creator: %w", err)
	}
	return count > 0, nil
}

func (s *SQLService) insertQuestions(ctx context.Context, tx *sql.Tx, quizID int64, questions []Question) error {
	for i := range questions {
		choices, err := json.Marshal(questions[i].Choices)
		if err != nil {
			return fmt.Errorf("failed to encode choices: %w", err)
		}
		id, err := s.db.TxInsertReturningID(ctx, tx,
			"INSERT INTO questions (quiz_id, position, text, choices, correct_index) VALUES (?, ?, ?, ?, ?)",
			quizID, i, questions[i].Text, string(choices), questions[i].CorrectIndex)
		if err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		questions[i].ID = id
	}
	return nil
}

func (s *SQLService) loadQuestions(ctx context.Context, quizID int64) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT id, text, choices, correct_index FROM questions WHERE quiz_id = ? ORDER BY position"),
		quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	defer rows.Close()

	questions := []Question{}
	for rows.Next() {
		var q Question
		var choices string
		if err := rows.Scan(&q.ID, &q.Text, &choices, &q.CorrectIndex); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
			return nil, fmt.Errorf("failed to decode choices: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, nil
}
