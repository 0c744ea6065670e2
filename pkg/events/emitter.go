package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/infra"
)

const DefaultSubjectPrefix = "relayer.tx"

type Emitter interface {
	EmitTx(ctx context.Context, event TxEvent) error
	Close()
}

type emitter struct {
	queue         infra.MessageQueue
	subjectPrefix string
}

func NewEmitter(queue infra.MessageQueue, subjectPrefix string) Emitter {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	return &emitter{
		queue:         queue,
		subjectPrefix: subjectPrefix,
	}
}

func (e *emitter) EmitTx(ctx context.Context, event TxEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var opts *infra.EnqueueOptions
	if event.TxHash != "" {
		opts = &infra.EnqueueOptions{IdempotentKey: event.TxHash + ":" + string(event.Status)}
	}
	return e.queue.Enqueue(ctx, event.Subject(e.subjectPrefix), data, opts)
}

func (e *emitter) Close() {
	if e.queue != nil {
		e.queue.Close()
	}
}

// Noop drops events. Used when events are disabled in config.
type Noop struct{}

func (Noop) EmitTx(_ context.Context, event TxEvent) error {
	logger.Debug("Event dropped, emitter disabled", "status", event.Status, "tx_hash", event.TxHash)
	return nil
}

func (Noop) Close() {}

func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}
