package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubcourt/reserve/internal/store"
)

const notificationTimeout = 5 * time.Second

// Sender provides a testable abstraction over SES delivery.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Notifier delivers reservation notices. Delivery is asynchronous and
// best-effort: a reservation outcome never depends on it.
type Notifier struct {
	sender Sender
}

// NewNotifier returns a notifier over the given sender. A nil sender
// disables delivery entirely.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// SendConfirmation emails the member that their reservation was created.
func (n *Notifier) SendConfirmation(ctx context.Context, member store.Member, reservation store.Reservation, logger *zerolog.Logger) {
	subject := "Reservation confirmed"
	if reservation.Status == store.StatusPending {
		subject = "Reservation received"
	}
	body := fmt.Sprintf(
		"Your %s reservation on %s from %s to %s (%s) has been recorded with status %s.",
		strings.ToLower(reservation.Category),
		reservation.Day,
		reservation.StartTime.Format("15:04"),
		reservation.EndTime.Format("15:04"),
		courtLine(reservation),
		reservation.Status,
	)
	n.deliver(member.Email.String, member.Email.Valid, subject, body, logger)
}

// SendCancellation emails the member that their reservation was cancelled.
func (n *Notifier) SendCancellation(ctx context.Context, member store.Member, reservation store.Reservation, logger *zerolog.Logger) {
	body := fmt.Sprintf(
		"Your reservation on %s from %s to %s has been cancelled.",
		reservation.Day,
		reservation.StartTime.Format("15:04"),
		reservation.EndTime.Format("15:04"),
	)
	if reservation.CancellationReason.Valid {
		body += " Reason: " + reservation.CancellationReason.String
	}
	n.deliver(member.Email.String, member.Email.Valid, "Reservation cancelled", body, logger)
}

// SendReminder emails the member about an upcoming reservation.
func (n *Notifier) SendReminder(ctx context.Context, detail store.ReservationDetail, logger *zerolog.Logger) {
	body := fmt.Sprintf(
		"Reminder: your reservation on %s starts at %s (%s).",
		detail.Day,
		detail.StartTime.Format("15:04"),
		courtLine(detail.Reservation),
	)
	n.deliver(detail.MemberEmail.String, detail.MemberEmail.Valid, "Upcoming reservation", body, logger)
}

func (n *Notifier) deliver(recipient string, hasRecipient bool, subject, body string, logger *zerolog.Logger) {
	if n == nil || n.sender == nil {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if !hasRecipient || recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()
		if err := n.sender.Send(sendCtx, recipient, subject, body); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Str("subject", subject).Msg("Failed to send notification email")
		}
	}()
}

func courtLine(r store.Reservation) string {
	if r.CourtNumber.Valid {
		return fmt.Sprintf("Court %d", r.CourtNumber.Int64)
	}
	return "pool access"
}
