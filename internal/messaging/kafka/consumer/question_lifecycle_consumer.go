package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"hrportal/internal/events"
	"hrportal/internal/mailer"
	"hrportal/internal/notification"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeQuestionLifecycle mirrors the leave consumer for HR questions.
func ConsumeQuestionLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifications notification.Service,
	employees EmployeeLookup,
	mail mailer.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.question_lifecycle")
	log.Info("question lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("question lifecycle consumer stopped")
				return
			}
			log.Error("fetch question lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.QuestionStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode question lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		handleQuestionEvent(ctx, event, notifications, employees, mail, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit question lifecycle message failed", zap.Error(err))
		}
	}
}

func handleQuestionEvent(
	ctx context.Context,
	event events.QuestionStatusChangedEvent,
	notifications notification.Service,
	employees EmployeeLookup,
	mail mailer.Mailer,
	log *zap.Logger,
) {
	recipientID := event.AuthorID
	title, body := questionMessageFor(event)

	if event.EventType == events.QuestionSubmitted {
		// New submissions go to the assigned HR member, if any.
		recipientID = event.AssignedTo
	}
	if title == "" || recipientID == "" {
		return
	}

	recipientUUID, err := uuid.Parse(recipientID)
	if err != nil {
		log.Error("question event carries malformed recipient id",
			zap.String("question_id", event.QuestionID),
			zap.String("recipient_id", recipientID),
		)
		return
	}

	if err := notifications.Notify(ctx, recipientUUID, event.EventType, title, body, "hr_question", event.QuestionID); err != nil {
		log.Error("persist question notification failed",
			zap.String("question_id", event.QuestionID),
			zap.Error(err),
		)
	}

	recipient, err := employees.FindByID(ctx, recipientID)
	if err != nil {
		log.Warn("question event recipient lookup failed, skipping email",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
		return
	}

	if err := mail.Send(ctx, recipient.Email, title, body); err != nil {
		log.Error("send question email failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}

func questionMessageFor(event events.QuestionStatusChangedEvent) (title, body string) {
	switch event.EventType {
	case events.QuestionSubmitted:
		return "Nouvelle question RH",
			fmt.Sprintf("Une question de la catégorie %s vous a été assignée.", event.Category)
	case events.QuestionReplied:
		return "Nouvelle réponse à votre question RH",
			"Un membre de l'équipe RH a répondu à votre question."
	case events.QuestionAnswered:
		return "Votre question RH a reçu une réponse",
			fmt.Sprintf("Votre question de la catégorie %s est marquée comme répondue.", event.Category)
	case events.QuestionClosed:
		return "Votre question RH est clôturée",
			fmt.Sprintf("Votre question de la catégorie %s a été clôturée.", event.Category)
	default:
		return "", ""
	}
}
