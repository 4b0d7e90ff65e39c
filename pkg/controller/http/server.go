package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/usecase"
	"github.com/readylab-io/waypoint/pkg/utils/errutil"
	"github.com/readylab-io/waypoint/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// validate checks request DTOs against their struct tags
var validate = validator.New()

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Auth endpoints, no auth middleware: sign-in is how you get a token
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signin", authSignInHandler(s.authUC))
		r.Post("/logout", authLogoutHandler(s.authUC))
		r.With(authMiddleware(s.authUC)).Get("/me", authMeHandler())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/tools", s.listToolsHandler)
		r.Get("/tools/{tool}", s.getToolHandler)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSessionHandler)
			r.Get("/", s.listSessionsHandler)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.getSessionHandler)
				r.Patch("/", s.updateSessionHandler)
				r.Delete("/", s.deleteSessionHandler)

				r.Route("/steps", func(r chi.Router) {
					r.Post("/advance", s.advanceStepHandler)
					r.Post("/back", s.backStepHandler)
					r.Post("/goto", s.gotoStepHandler)
					r.Post("/reset", s.resetStepHandler)
				})
			})
		})

		r.Get("/dashboard", s.dashboardHandler)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", s.createProjectHandler)
			r.Get("/", s.listProjectsHandler)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", s.getProjectHandler)
				r.Patch("/", s.updateProjectHandler)
				r.Delete("/", s.deleteProjectHandler)

				r.Route("/guides/{guideID}", func(r chi.Router) {
					r.Put("/", s.putGuideProgressHandler)
					r.Get("/", s.getGuideProgressHandler)
					r.Get("/export", s.exportGuideHandler)
				})
			})
		})

		r.Route("/action-items", func(r chi.Router) {
			r.Post("/", s.createActionItemHandler)
			r.Get("/", s.listActionItemsHandler)
			r.Post("/generate", s.generateActionItemsHandler)
			r.Patch("/{actionItemID}", s.updateActionItemHandler)
			r.Delete("/{actionItemID}", s.deleteActionItemHandler)
		})
	})

	// Websocket endpoint authenticates inside the handler so the upgrade
	// response is not consumed by middleware error writers.
	r.Get("/ws/sessions/{sessionID}/training", s.trainingProgressHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

// decodeJSON parses and validates a JSON request body
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	if err := validate.Struct(dst); err != nil {
		return goerr.Wrap(err, "invalid request")
	}
	return nil
}
