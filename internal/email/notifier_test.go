package email

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clubcourt/reserve/internal/store"
)

type captureSender struct {
	mu   sync.Mutex
	sent []sentMail
	done chan struct{}
}

type sentMail struct {
	recipient string
	subject   string
	body      string
}

func newCaptureSender() *captureSender {
	return &captureSender{done: make(chan struct{}, 8)}
}

func (c *captureSender) Send(ctx context.Context, recipient, subject, body string) error {
	c.mu.Lock()
	c.sent = append(c.sent, sentMail{recipient: recipient, subject: subject, body: body})
	c.mu.Unlock()
	c.done <- struct{}{}
	return nil
}

func (c *captureSender) wait(t *testing.T) sentMail {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no email delivered")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

func member(email string) store.Member {
	return store.Member{
		FirstName: "Jamie",
		LastName:  "Lin",
		Email:     sql.NullString{String: email, Valid: email != ""},
	}
}

func courtBooking(status string) store.Reservation {
	return store.Reservation{
		ID:              7,
		Category:        store.CategoryCourt,
		CourtNumber:     sql.NullInt64{Int64: 2, Valid: true},
		Day:             "2026-03-02",
		StartTime:       time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          status,
	}
}

func TestSendConfirmation(t *testing.T) {
	sender := newCaptureSender()
	notifier := NewNotifier(sender)

	notifier.SendConfirmation(context.Background(), member("jamie@example.com"), courtBooking(store.StatusConfirmed), nil)

	mail := sender.wait(t)
	if mail.recipient != "jamie@example.com" {
		t.Errorf("recipient = %q", mail.recipient)
	}
	if mail.subject != "Reservation confirmed" {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, "Court 2") || !strings.Contains(mail.body, "09:00") {
		t.Errorf("body = %q", mail.body)
	}
}

func TestSendConfirmation_PendingSubject(t *testing.T) {
	sender := newCaptureSender()
	notifier := NewNotifier(sender)

	notifier.SendConfirmation(context.Background(), member("jamie@example.com"), courtBooking(store.StatusPending), nil)

	if mail := sender.wait(t); mail.subject != "Reservation received" {
		t.Errorf("subject = %q, want Reservation received", mail.subject)
	}
}

func TestSendCancellation_IncludesReason(t *testing.T) {
	sender := newCaptureSender()
	notifier := NewNotifier(sender)

	booking := courtBooking(store.StatusCancelled)
	booking.CancellationReason = sql.NullString{String: "rain", Valid: true}
	notifier.SendCancellation(context.Background(), member("jamie@example.com"), booking, nil)

	mail := sender.wait(t)
	if !strings.Contains(mail.body, "Reason: rain") {
		t.Errorf("body = %q, want cancellation reason", mail.body)
	}
}

func TestSendReminder_PoolBooking(t *testing.T) {
	sender := newCaptureSender()
	notifier := NewNotifier(sender)

	detail := store.ReservationDetail{
		Reservation: courtBooking(store.StatusConfirmed),
		MemberEmail: sql.NullString{String: "jamie@example.com", Valid: true},
	}
	detail.CourtNumber = sql.NullInt64{}
	notifier.SendReminder(context.Background(), detail, nil)

	mail := sender.wait(t)
	if mail.subject != "Upcoming reservation" {
		t.Errorf("subject = %q", mail.subject)
	}
	if !strings.Contains(mail.body, "pool access") {
		t.Errorf("body = %q, want pool access", mail.body)
	}
}

func TestNotifier_SkipsMembersWithoutEmail(t *testing.T) {
	sender := newCaptureSender()
	notifier := NewNotifier(sender)

	notifier.SendConfirmation(context.Background(), member(""), courtBooking(store.StatusConfirmed), nil)

	select {
	case <-sender.done:
		t.Fatal("email sent to member without an address")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifier_NilSenderIsNoop(t *testing.T) {
	notifier := NewNotifier(nil)
	// Must not panic.
	notifier.SendConfirmation(context.Background(), member("jamie@example.com"), courtBooking(store.StatusConfirmed), nil)
}
