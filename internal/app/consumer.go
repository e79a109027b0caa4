package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrportal/internal/employee"
	"hrportal/internal/events"
	"hrportal/internal/mailer"
	"hrportal/internal/messaging/kafka/consumer"
	"hrportal/internal/notification"
	"hrportal/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notificationService := notification.NewService(notification.NewRepository(gormDB), notification.NewRegistry(), logger)
	employeeRepo := employee.NewRepository(gormDB)
	mail := mailer.New(mailer.ConfigFromEnv(), logger)

	leaveReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveLifecycleTopic,
		GroupID:        "hrportal-leave-lifecycle",
		CommitInterval: time.Second,
		StartOffset:    kafkago.FirstOffset,
	})
	defer leaveReader.Close()

	questionReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.QuestionLifecycleTopic,
		GroupID:        "hrportal-question-lifecycle",
		CommitInterval: time.Second,
		StartOffset:    kafkago.FirstOffset,
	})
	defer questionReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveLifecycle(ctx, leaveReader, notificationService, employeeRepo, mail, logger)
	go consumer.ConsumeQuestionLifecycle(ctx, questionReader, notificationService, employeeRepo, mail, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
