package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/service/progress"
	"github.com/readylab-io/waypoint/pkg/service/worker"
	"go.uber.org/goleak"
)

func TestTrainingWatchWorker(t *testing.T) {
	t.Run("publishes status and unwatches on completion", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		polls := make(chan struct{}, 10)
		backend := &mlbackend.Mock{
			TrainingStatusFunc: func(ctx context.Context, tool types.ToolID, sessionID types.SessionID) (*mlbackend.TrainingStatus, error) {
				select {
				case polls <- struct{}{}:
				default:
				}
				return &mlbackend.TrainingStatus{State: mlbackend.TrainingStateCompleted, Progress: 1}, nil
			},
		}

		hub := progress.NewHub()
		hub.Watch("sess-1", types.ToolRegression)

		events, cancel := hub.Subscribe("sess-1")
		defer cancel()

		w := worker.NewTrainingWatchWorker(backend, hub, 10*time.Millisecond)
		gt.NoError(t, w.Start(context.Background())).Required()

		select {
		case ev := <-events:
			gt.Value(t, ev.State).Equal(mlbackend.TrainingStateCompleted)
			gt.Value(t, ev.Progress).Equal(1.0)
		case <-time.After(time.Second):
			t.Fatal("no progress event within a second")
		}

		w.Stop()

		// terminal status removes the session from the watch set
		gt.Array(t, hub.Watching()).Length(0)
	})

	t.Run("poll errors keep the session watched", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		polled := make(chan struct{}, 10)
		backend := &mlbackend.Mock{
			TrainingStatusFunc: func(ctx context.Context, tool types.ToolID, sessionID types.SessionID) (*mlbackend.TrainingStatus, error) {
				select {
				case polled <- struct{}{}:
				default:
				}
				return nil, context.DeadlineExceeded
			},
		}

		hub := progress.NewHub()
		hub.Watch("sess-1", types.ToolNLP)

		w := worker.NewTrainingWatchWorker(backend, hub, 10*time.Millisecond)
		gt.NoError(t, w.Start(context.Background())).Required()

		select {
		case <-polled:
		case <-time.After(time.Second):
			t.Fatal("worker never polled")
		}

		w.Stop()

		gt.Array(t, hub.Watching()).Length(1)
	})

	t.Run("stop terminates the loop promptly", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		w := worker.NewTrainingWatchWorker(&mlbackend.Mock{}, progress.NewHub(), time.Hour)
		gt.NoError(t, w.Start(context.Background())).Required()

		done := make(chan struct{})
		go func() {
			w.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stop did not return within a second")
		}
	})
}
