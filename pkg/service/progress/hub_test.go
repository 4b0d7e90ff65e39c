package progress_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/service/progress"
)

func TestHubPublish(t *testing.T) {
	t.Run("delivers events to the session's subscribers", func(t *testing.T) {
		hub := progress.NewHub()
		ch, cancel := hub.Subscribe("sess-1")
		defer cancel()

		other, cancelOther := hub.Subscribe("sess-2")
		defer cancelOther()

		hub.Publish(progress.Event{SessionID: "sess-1", State: "running", Progress: 0.5})

		ev := <-ch
		gt.Value(t, ev.SessionID).Equal(types.SessionID("sess-1"))
		gt.Value(t, ev.Progress).Equal(0.5)

		select {
		case <-other:
			t.Error("event leaked to another session's subscriber")
		default:
		}
	})

	t.Run("cancelled subscribers receive nothing", func(t *testing.T) {
		hub := progress.NewHub()
		ch, cancel := hub.Subscribe("sess-1")
		cancel()

		hub.Publish(progress.Event{SessionID: "sess-1", State: "running"})

		select {
		case <-ch:
			t.Error("cancelled subscriber received an event")
		default:
		}
	})

	t.Run("full buffers drop instead of blocking", func(t *testing.T) {
		hub := progress.NewHub()
		_, cancel := hub.Subscribe("sess-1")
		defer cancel()

		// more events than the channel buffer holds; must not block
		for i := 0; i < 100; i++ {
			hub.Publish(progress.Event{SessionID: "sess-1", State: "running"})
		}
	})
}

func TestHubWatching(t *testing.T) {
	t.Run("watch and unwatch maintain the polling set", func(t *testing.T) {
		hub := progress.NewHub()

		hub.Watch("sess-1", types.ToolRegression)
		hub.Watch("sess-2", types.ToolNLP)

		watched := hub.Watching()
		gt.Array(t, watched).Length(2)

		hub.Unwatch("sess-1")
		watched = hub.Watching()
		gt.Array(t, watched).Length(1)
		gt.Value(t, watched[0].SessionID).Equal(types.SessionID("sess-2"))
		gt.Value(t, watched[0].Tool).Equal(types.ToolNLP)
	})

	t.Run("watching the same session twice keeps one entry", func(t *testing.T) {
		hub := progress.NewHub()

		hub.Watch("sess-1", types.ToolRegression)
		hub.Watch("sess-1", types.ToolRegression)

		gt.Array(t, hub.Watching()).Length(1)
	})
}
