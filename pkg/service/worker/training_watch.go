package worker

import (
	"context"
	"time"

	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/service/progress"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

// TrainingWatchWorker polls the ML backend for the status of in-flight
// training runs and publishes snapshots to the progress hub.
//
// Architecture assumptions:
// - Single server instance (the watch set lives in process memory)
// - For horizontal scaling, move the watch set to a shared store
type TrainingWatchWorker struct {
	backend  mlbackend.Service
	hub      *progress.Hub
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewTrainingWatchWorker(backend mlbackend.Service, hub *progress.Hub, interval time.Duration) *TrainingWatchWorker {
	return &TrainingWatchWorker{
		backend:  backend,
		hub:      hub,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the polling loop in a background goroutine. It does not block
// server startup.
func (w *TrainingWatchWorker) Start(ctx context.Context) error {
	logging.Default().Info("training watch worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for the loop to exit.
func (w *TrainingWatchWorker) Stop() {
	logging.Default().Info("training watch worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("training watch worker stopped")
}

func (w *TrainingWatchWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.poll(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("training watch worker context cancelled")
			return
		}
	}
}

// poll checks every watched session once. A failed status call is logged and
// retried on the next tick; a terminal status removes the session from the
// watch set after the final event is published.
func (w *TrainingWatchWorker) poll(ctx context.Context) {
	for _, watched := range w.hub.Watching() {
		status, err := w.backend.TrainingStatus(ctx, watched.Tool, watched.SessionID)
		if err != nil {
			logging.Default().Warn("training status poll failed (will retry next interval)",
				"session_id", string(watched.SessionID),
				"error", err.Error())
			continue
		}

		w.hub.Publish(progress.Event{
			SessionID: watched.SessionID,
			Tool:      watched.Tool,
			State:     status.State,
			Progress:  status.Progress,
			Message:   status.Message,
			At:        time.Now(),
		})

		if status.Done() {
			w.hub.Unwatch(watched.SessionID)
		}
	}
}
