package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fystack/evm-relayer/pkg/common/logger"
)

const (
	DefaultStreamName = "relayer"
	streamMaxBytes    = 64 << 20
)

var ErrPermanent = errors.New("permanent messaging error")

type MessageQueue interface {
	Enqueue(ctx context.Context, subject string, message []byte, options *EnqueueOptions) error
	// handler should not block for long; unacked messages are redelivered.
	Dequeue(handler func(subject string, message []byte) error) error
	Close()
}

type EnqueueOptions struct {
	IdempotentKey string
}

type msgQueue struct {
	stream          string
	js              jetstream.JetStream
	consumer        jetstream.Consumer
	consumerContext jetstream.ConsumeContext
}

// NewJetStreamQueue ensures a limits-retention stream capturing subjects and
// returns a queue publishing to it.
func NewJetStreamQueue(ctx context.Context, nc *nats.Conn, streamName string, subjects []string) (MessageQueue, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Description: "Transaction lifecycle events for " + streamName,
		Subjects:    subjects,
		MaxBytes:    streamMaxBytes,
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Duplicates:  10 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("create JetStream stream %s: %w", streamName, err)
	}
	info, err := stream.Info(ctx)
	if err == nil {
		logger.Info("JetStream stream ready", "name", info.Config.Name, "subjects", info.Config.Subjects, "messages", info.State.Msgs)
	}

	return &msgQueue{stream: streamName, js: js}, nil
}

func (mq *msgQueue) Enqueue(ctx context.Context, subject string, message []byte, options *EnqueueOptions) error {
	msg := &nats.Msg{Subject: subject, Data: message, Header: nats.Header{}}
	if options != nil && options.IdempotentKey != "" {
		msg.Header.Set(jetstream.MsgIDHeader, options.IdempotentKey)
	}

	if _, err := mq.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("error enqueueing message: %w", err)
	}
	logger.Debug("Message enqueued", "subject", subject, "size", len(message))
	return nil
}

// Dequeue attaches an ephemeral consumer delivering new messages to handler.
func (mq *msgQueue) Dequeue(handler func(subject string, message []byte) error) error {
	ctx := context.Background()
	consumer, err := mq.js.CreateOrUpdateConsumer(ctx, mq.stream, jetstream.ConsumerConfig{
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    3,
	})
	if err != nil {
		return fmt.Errorf("create consumer on %s: %w", mq.stream, err)
	}
	mq.consumer = consumer

	c, err := consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(msg.Subject(), msg.Data()); err != nil {
			if errors.Is(err, ErrPermanent) {
				_ = msg.Term()
				return
			}
			logger.Error("Error handling message", "subject", msg.Subject(), "error", err)
			_ = msg.Nak()
			return
		}
		if err := msg.Ack(); err != nil {
			logger.Error("Error acknowledging message", "error", err)
		}
	})
	if err != nil {
		return err
	}
	mq.consumerContext = c
	return nil
}

func (mq *msgQueue) Close() {
	if mq.consumerContext != nil {
		mq.consumerContext.Stop()
	}
}
