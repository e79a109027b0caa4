package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"hrportal/internal/employee"
	"hrportal/internal/events"
	"hrportal/internal/mailer"
	"hrportal/internal/notification"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeLookup resolves event participant ids to employees for inbox
// routing and email addresses. Satisfied by employee.Repository.
type EmployeeLookup interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// ConsumeLeaveLifecycle turns leave lifecycle events into inbox rows and
// emails. Notification or email failures are logged and the message is
// committed anyway, delivery must never wedge the consumer group.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifications notification.Service,
	employees EmployeeLookup,
	mail mailer.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		handleLeaveEvent(ctx, event, notifications, employees, mail, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
		}
	}
}

func handleLeaveEvent(
	ctx context.Context,
	event events.LeaveStatusChangedEvent,
	notifications notification.Service,
	employees EmployeeLookup,
	mail mailer.Mailer,
	log *zap.Logger,
) {
	recipientID := event.EmployeeID
	title, body := leaveMessageFor(event)

	if event.EventType == events.LeaveCreated {
		// The approver gets pinged about new work, not the requester.
		recipientID = event.ApproverID
	}
	if title == "" || recipientID == "" {
		return
	}

	recipientUUID, err := uuid.Parse(recipientID)
	if err != nil {
		log.Error("leave event carries malformed recipient id",
			zap.String("leave_id", event.LeaveID),
			zap.String("recipient_id", recipientID),
		)
		return
	}

	if err := notifications.Notify(ctx, recipientUUID, event.EventType, title, body, "leave_request", event.LeaveID); err != nil {
		log.Error("persist leave notification failed",
			zap.String("leave_id", event.LeaveID),
			zap.Error(err),
		)
	}

	recipient, err := employees.FindByID(ctx, recipientID)
	if err != nil {
		log.Warn("leave event recipient lookup failed, skipping email",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
		return
	}

	if err := mail.Send(ctx, recipient.Email, title, body); err != nil {
		log.Error("send leave email failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}

func leaveMessageFor(event events.LeaveStatusChangedEvent) (title, body string) {
	switch event.EventType {
	case events.LeaveCreated:
		return "Nouvelle demande de congé à valider",
			fmt.Sprintf("Une demande de type %s (%.1f jour(s)) attend votre validation.", event.LeaveType, event.TotalDays)
	case events.LeaveApproved:
		return "Demande de congé approuvée",
			fmt.Sprintf("Votre demande de type %s (%.1f jour(s)) a été approuvée.", event.LeaveType, event.TotalDays)
	case events.LeaveRejected:
		body := fmt.Sprintf("Votre demande de type %s (%.1f jour(s)) a été refusée.", event.LeaveType, event.TotalDays)
		if event.Reason != "" {
			body += " Motif : " + event.Reason
		}
		return "Demande de congé refusée", body
	case events.LeaveCancelled:
		return "Demande de congé annulée",
			fmt.Sprintf("La demande de type %s (%.1f jour(s)) a été annulée.", event.LeaveType, event.TotalDays)
	default:
		return "", ""
	}
}
