package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/events"
	"github.com/fystack/evm-relayer/pkg/infra"
)

type EventsCmd struct {
	LogFile string `help:"Also append events to this file." name:"log"`
}

func (c *EventsCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	var out io.Writer = os.Stdout
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}

	nc, err := infra.GetNATSConnection(cfg.Services.Nats, cfg.Environment)
	if err != nil {
		return err
	}
	defer nc.Close()

	prefix := cfg.Services.Nats.SubjectPrefix
	if prefix == "" {
		prefix = events.DefaultSubjectPrefix
	}
	queue, err := infra.NewJetStreamQueue(ctx, nc, infra.DefaultStreamName, []string{prefix + ".>"})
	if err != nil {
		return err
	}
	defer queue.Close()

	err = queue.Dequeue(func(subject string, data []byte) error {
		var ev events.TxEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			logger.Error("Unmarshal event failed", "subject", subject, "error", err)
			return infra.ErrPermanent
		}
		fmt.Fprintf(out, "%s\t%s\tchain=%d\top=%s\ttx=%s\t%s\n",
			ev.Timestamp.Format("15:04:05"), ev.Status, ev.ChainID, ev.Operation, ev.TxHash, ev.Error)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Listening for transaction events", "subjects", prefix+".>")
	<-ctx.Done()
	return nil
}
