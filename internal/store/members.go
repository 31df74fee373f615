package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "US"

type Member struct {
	ID        int64
	FirstName string
	LastName  string
	Email     sql.NullString
	Phone     sql.NullString
	Status    string
	CreatedAt time.Time
}

type Subscription struct {
	ID       int64
	MemberID int64
	Category string
	Status   string
	StartsOn string
	EndsOn   sql.NullString
}

// CreateMember inserts a member. A non-empty phone number is normalized to
// E.164 before storage; invalid numbers are rejected.
func (s *Store) CreateMember(ctx context.Context, member Member) (Member, error) {
	if member.Phone.Valid && strings.TrimSpace(member.Phone.String) != "" {
		normalized, err := normalizePhone(member.Phone.String)
		if err != nil {
			return Member{}, err
		}
		member.Phone = sql.NullString{String: normalized, Valid: true}
	}

	const q = `INSERT INTO members (first_name, last_name, email, phone, status) VALUES (?, ?, ?, ?, ?)`
	status := member.Status
	if status == "" {
		status = "active"
	}
	result, err := s.db.ExecContext(ctx, q, member.FirstName, member.LastName, member.Email, member.Phone, status)
	if err != nil {
		return Member{}, fmt.Errorf("create member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Member{}, fmt.Errorf("create member: %w", err)
	}
	return s.GetMember(ctx, id)
}

// GetMember returns a member by ID or ErrNotFound.
func (s *Store) GetMember(ctx context.Context, id int64) (Member, error) {
	const q = `SELECT id, first_name, last_name, email, phone, status, created_at FROM members WHERE id = ?`
	var member Member
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&member.ID, &member.FirstName, &member.LastName,
		&member.Email, &member.Phone, &member.Status, &member.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	if err != nil {
		return Member{}, fmt.Errorf("get member %d: %w", id, err)
	}
	return member, nil
}

// CreateSubscription records a subscription for a member.
func (s *Store) CreateSubscription(ctx context.Context, sub Subscription) (int64, error) {
	const q = `INSERT INTO subscriptions (member_id, category, status, starts_on, ends_on) VALUES (?, ?, ?, ?, ?)`
	status := sub.Status
	if status == "" {
		status = "ACTIVE"
	}
	result, err := s.db.ExecContext(ctx, q, sub.MemberID, sub.Category, status, sub.StartsOn, sub.EndsOn)
	if err != nil {
		return 0, fmt.Errorf("create subscription for member %d: %w", sub.MemberID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create subscription for member %d: %w", sub.MemberID, err)
	}
	return id, nil
}

// HasActiveSubscription reports whether the member holds at least one ACTIVE
// subscription in the given category.
func (s *Store) HasActiveSubscription(ctx context.Context, memberID int64, category string) (bool, error) {
	const q = `
		SELECT COUNT(1) FROM subscriptions
		WHERE member_id = ? AND category = ? AND status = 'ACTIVE'`
	var count int64
	if err := s.db.QueryRowContext(ctx, q, memberID, category).Scan(&count); err != nil {
		return false, fmt.Errorf("check subscription for member %d: %w", memberID, err)
	}
	return count > 0, nil
}

// UpdateSubscriptionStatus transitions a subscription's status.
func (s *Store) UpdateSubscriptionStatus(ctx context.Context, id int64, status string) error {
	const q = `UPDATE subscriptions SET status = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("update subscription %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizePhone(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number: %s", raw)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
