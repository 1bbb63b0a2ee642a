// Package worker provides async transaction assessment for the Pro tier.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/surakshapay/vigil/internal/detector"
	"github.com/surakshapay/vigil/internal/domain"
)

// Worker consumes ingested transactions from the EventBus and runs
// them through the assessment pipeline. It mirrors the synchronous
// /detect-fraud path for callers that feed transactions over NATS
// instead of HTTP.
type Worker struct {
	bus      domain.EventBus
	repo     domain.Repository
	detector *detector.Detector

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, det *detector.Detector) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:      bus,
		repo:     repo,
		detector: det,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the transaction ingestion topic.
func (w *Worker) Start() error {
	sub, err := w.bus.Subscribe(w.ctx, domain.TopicTransactionIngested, w.handleMessage)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("worker started", "topic", domain.TopicTransactionIngested)
	return nil
}

func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	return w.processTransaction(ctx, msg)
}

// processTransaction assesses a transaction delivered over the bus.
func (w *Worker) processTransaction(ctx context.Context, msg *domain.Message) error {
	start := time.Now()

	var tx domain.Transaction
	if err := json.Unmarshal(msg.Payload, &tx); err != nil {
		slog.Error("failed to parse transaction message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	slog.Debug("processing transaction",
		"message_id", msg.ID,
		"user_id", tx.UserID,
	)

	assessment := w.detector.Assess(ctx, &tx)

	// Audit trail, best effort
	if w.repo != nil {
		if err := w.repo.SaveTransaction(ctx, &tx); err != nil {
			slog.Error("failed to save transaction",
				"message_id", msg.ID,
				"error", err,
			)
		}
		if err := w.repo.SaveAssessment(ctx, assessment); err != nil {
			slog.Error("failed to save assessment",
				"assessment_id", assessment.ID,
				"error", err,
			)
		}
	}

	payload, _ := json.Marshal(assessment)
	if err := w.bus.Publish(ctx, domain.TopicAssessment, payload); err != nil {
		slog.Error("failed to publish assessment",
			"assessment_id", assessment.ID,
			"error", err,
		)
	}

	if assessment.IsFraud {
		if err := w.bus.Publish(ctx, domain.TopicAlert, payload); err != nil {
			slog.Error("failed to publish alert",
				"assessment_id", assessment.ID,
				"error", err,
			)
		}
	}

	slog.Info("transaction processed",
		"assessment_id", assessment.ID,
		"user_id", tx.UserID,
		"risk_score", assessment.RiskScore,
		"is_fraud", assessment.IsFraud,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() error {
	w.cancel()

	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("worker stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscription_count"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
