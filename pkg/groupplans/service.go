package groupplans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studyhall/studyhall/pkg/storage"
)

// ErrNotFound is returned when no plan matches the given ID
var ErrNotFound = errors.New("group plan not found")

const planColumns = "id, name, description, created_at, start_date, end_date, location, creator_id, status, max_participants, budget, image_url"

// Service defines group plan operations
type Service interface {
	List(ctx context.Context) ([]GroupPlan, error)
	Get(ctx context.Context, id int64) (*GroupPlan, error)
	Create(ctx context.Context, plan *GroupPlan) (*GroupPlan, error)
	Update(ctx context.Context, id int64, plan *GroupPlan) (*GroupPlan, error)
	Delete(ctx context.Context, id int64) error

	ListByCreator(ctx context.Context, creatorID int64) ([]GroupPlan, error)
	ListActive(ctx context.Context) ([]GroupPlan, error)
	ListUpcoming(ctx context.Context) ([]GroupPlan, error)
	ListByLocation(ctx context.Context, location string) ([]GroupPlan, error)
	ListAvailable(ctx context.Context) ([]GroupPlan, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]GroupPlan, error)

	AddParticipant(ctx context.Context, planID, participantID int64) (bool, error)
	RemoveParticipant(ctx context.Context, planID, participantID int64) (bool, error)
	UpdateStatus(ctx context.Context, planID int64, status string) (*GroupPlan, error)
	SetImageURL(ctx context.Context, planID int64, imageURL string) (*GroupPlan, error)
}

// SQLService implements Service over the SQL database
type SQLService struct {
	db *storage.DB
}

// NewSQLService creates a new SQL-backed group plan service
func NewSQLService(db *storage.DB) *SQLService {
	return &SQLService{db: db}
}

// List returns all plans with their rosters
func (s *SQLService) List(ctx context.Context) ([]GroupPlan, error) {
	return s.listWhere(ctx, "", nil)
}

// Get returns a single plan with its roster
func (s *SQLService) Get(ctx context.Context, id int64) (*GroupPlan, error) {
	p := &GroupPlan{}
	err := scanPlan(s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT "+planColumns+" FROM group_plans WHERE id = ?"), id), p)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	ids, err := s.loadParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ParticipantIDs = ids
	return p, nil
}

// Create stores a new plan. Status defaults to ACTIVE and the creation time
// is set server-side.
func (s *SQLService) Create(ctx context.Context, plan *GroupPlan) (*GroupPlan, error) {
	plan.CreatedAt = time.Now().UTC()
	if plan.Status == "" {
		plan.Status = StatusActive
	}

	id, err := s.db.InsertReturningID(ctx,
		"INSERT INTO group_plans (name, description, created_at, start_date, end_date, location, creator_id, status, max_participants, budget, image_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		plan.Name, plan.Description, plan.CreatedAt, plan.StartDate, plan.EndDate,
		plan.Location, plan.CreatorID, plan.Status, plan.MaxParticipants, plan.Budget, plan.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	plan.ID = id
	if plan.ParticipantIDs == nil {
		plan.ParticipantIDs = []int64{}
	}
	return plan, nil
}

// Update replaces a plan's editable fields. The stored creator, creation
// time and roster are preserved, and an empty incoming image URL keeps the
// stored one.
func (s *SQLService) Update(ctx context.Context, id int64, plan *GroupPlan) (*GroupPlan, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if plan.ImageURL == "" {
		plan.ImageURL = existing.ImageURL
	}
	if plan.Status == "" {
		plan.Status = existing.Status
	}

	_, err = s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE group_plans SET name = ?, description = ?, start_date = ?, end_date = ?, location = ?, status = ?, max_participants = ?, budget = ?, image_url = ? WHERE id = ?"),
		plan.Name, plan.Description, plan.StartDate, plan.EndDate, plan.Location,
		plan.Status, plan.MaxParticipants, plan.Budget, plan.ImageURL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	plan.ID = id
	plan.CreatedAt = existing.CreatedAt
	plan.CreatorID = existing.CreatorID
	plan.ParticipantIDs = existing.ParticipantIDs
	return plan, nil
}

// Delete removes a plan and its roster
func (s *SQLService) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM group_plans WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCreator returns the plans created by the given user
func (s *SQLService) ListByCreator(ctx context.Context, creatorID int64) ([]GroupPlan, error) {
	return s.listWhere(ctx, "WHERE creator_id = ?", []interface{}{creatorID})
}

// ListActive returns plans whose status is ACTIVE
func (s *SQLService) ListActive(ctx context.Context) ([]GroupPlan, error) {
	return s.listWhere(ctx, "WHERE status = ?", []interface{}{StatusActive})
}

// ListUpcoming returns active plans that have not started yet, soonest first
func (s *SQLService) ListUpcoming(ctx context.Context) ([]GroupPlan, error) {
	return s.listWhereOrdered(ctx, "WHERE start_date > ? AND status = ?", "start_date ASC",
		[]interface{}{time.Now().UTC(), StatusActive})
}

// ListByLocation returns plans whose location contains the given term,
// case-insensitively
func (s *SQLService) ListByLocation(ctx context.Context, location string) ([]GroupPlan, error) {
	pattern := "%" + strings.ToLower(location) + "%"
	return s.listWhere(ctx, "WHERE LOWER(location) LIKE ?", []interface{}{pattern})
}

// ListAvailable returns active plans whose roster still has room
func (s *SQLService) ListAvailable(ctx context.Context) ([]GroupPlan, error) {
	return s.listWhere(ctx,
		"WHERE status = ? AND (SELECT COUNT(*) FROM group_plan_participants WHERE plan_id = group_plans.id) < max_participants",
		[]interface{}{StatusActive})
}

// ListByParticipant returns the plans the given user has joined
func (s *SQLService) ListByParticipant(ctx context.Context, participantID int64) ([]GroupPlan, error) {
	return s.listWhere(ctx,
		"WHERE id IN (SELECT plan_id FROM group_plan_participants WHERE participant_id = ?)",
		[]interface{}{participantID})
}

// AddParticipant adds a user to the roster. It reports false without error
// when the plan is full or the user has already joined. The capacity check
// and the insert run in one transaction, but concurrent joins of the last
// seat can still race past the check.
func (s *SQLService) AddParticipant(ctx context.Context, planID, participantID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxParticipants int
	err = tx.QueryRowContext(ctx,
		s.db.Rebind("SELECT max_participants FROM group_plans WHERE id = ?"), planID).
		Scan(&maxParticipants)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get plan: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		s.db.Rebind("SELECT COUNT(*) FROM group_plan_participants WHERE plan_id = ?"), planID).
		Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= maxParticipants {
		return false, nil
	}

	var joined int
	err = tx.QueryRowContext(ctx,
		s.db.Rebind("SELECT COUNT(*) FROM group_plan_participants WHERE plan_id = ? AND participant_id = ?"),
		planID, participantID).Scan(&joined)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	if joined > 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		s.db.Rebind("INSERT INTO group_plan_participants (plan_id, participant_id) VALUES (?, ?)"),
		planID, participantID)
	if err != nil {
		return false, fmt.Errorf("failed to add participant: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit join: %w", err)
	}
	return true, nil
}

// RemoveParticipant removes a user from the roster. It reports false when
// the user was not on it.
func (s *SQLService) RemoveParticipant(ctx context.Context, planID, participantID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM group_plan_participants WHERE plan_id = ? AND participant_id = ?"),
		planID, participantID)
	if err != nil {
		return false, fmt.Errorf("failed to remove participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove participant: %w", err)
	}
	return affected > 0, nil
}

// UpdateStatus sets a plan's lifecycle status and returns the updated plan
func (s *SQLService) UpdateStatus(ctx context.Context, planID int64, status string) (*GroupPlan, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE group_plans SET status = ? WHERE id = ?"), status, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, planID)
}

// SetImageURL points a plan at its uploaded cover image
func (s *SQLService) SetImageURL(ctx context.Context, planID int64, imageURL string) (*GroupPlan, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE group_plans SET image_url = ? WHERE id = ?"), imageURL, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, planID)
}

func (s *SQLService) listWhere(ctx context.Context, where string, args []interface{}) ([]GroupPlan, error) {
	return s.listWhereOrdered(ctx, where, "id", args)
}

func (s *SQLService) listWhereOrdered(ctx context.Context, where, orderBy string, args []interface{}) ([]GroupPlan, error) {
	query := "SELECT " + planColumns + " FROM group_plans"
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY " + orderBy

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []GroupPlan{}
	for rows.Next() {
		var p GroupPlan
		if err := scanPlan(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	for i := range plans {
		ids, err := s.loadParticipants(ctx, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].ParticipantIDs = ids
	}
	return plans, nil
}

func (s *SQLService) loadParticipants(ctx context.Context, planID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind("SELECT participant_id FROM group_plan_participants WHERE plan_id = ? ORDER BY participant_id"),
		planID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner, p *GroupPlan) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.StartDate,
		&p.EndDate, &p.Location, &p.CreatorID, &p.Status, &p.MaxParticipants,
		&p.Budget, &p.ImageURL)
}
