package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/readylab-io/waypoint/pkg/domain/model/auth"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cookies carry the auth; cross-origin pages cannot read them, so the
	// upgrade itself is safe to allow.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// trainingProgressHandler streams training progress events for one session
// over a websocket. Authentication happens here rather than in middleware so
// a failure produces a proper HTTP error before the upgrade.
func (s *Server) trainingProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticateWS(r)
	if err != nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	sessionID := types.SessionID(chi.URLParam(r, "sessionID"))
	if _, err := s.uc.Session.Get(r.Context(), userID, sessionID); err != nil {
		handleError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logging.From(r.Context()).Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	events, cancel := s.uc.Hub().Subscribe(sessionID)
	defer cancel()

	// Reader goroutine: the client never sends data, but reading is how we
	// notice a closed connection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)) //nolint:errcheck
			if err := conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)) //nolint:errcheck
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return

		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) authenticateWS(r *http.Request) (types.UserID, error) {
	if s.authUC == nil || s.authUC.IsNoAuthn() {
		return types.UserID(auth.AnonymousSub), nil
	}

	tokenID, tokenSecret, ok := credentialsFromRequest(r)
	if !ok {
		return "", auth.ErrNotAuthenticated
	}

	token, err := s.authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
	if err != nil {
		return "", err
	}
	return types.UserID(token.Sub), nil
}
