package usecase

import (
	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/service/mlbackend"
	"github.com/readylab-io/waypoint/pkg/service/progress"
	"github.com/readylab-io/waypoint/pkg/service/storage"
)

type UseCases struct {
	repo         interfaces.Repository
	backend      mlbackend.Service
	storage      storage.Service
	tools        *model.ToolRegistry
	hub          *progress.Hub
	demoFallback bool

	Session    *SessionUseCase
	Workflow   *WorkflowUseCase
	Project    *ProjectUseCase
	Guide      *GuideUseCase
	ActionItem *ActionItemUseCase
	Auth       AuthUseCaseInterface
}

type Option func(*UseCases)

func WithBackend(backend mlbackend.Service) Option {
	return func(uc *UseCases) {
		uc.backend = backend
	}
}

func WithStorage(storage storage.Service) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func WithTools(tools *model.ToolRegistry) Option {
	return func(uc *UseCases) {
		uc.tools = tools
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func WithProgressHub(hub *progress.Hub) Option {
	return func(uc *UseCases) {
		uc.hub = hub
	}
}

// WithDemoFallback enables demo mode: sessions get local ids without a
// backend round trip and failed step dispatches fall back to synthesized
// payloads instead of failing the step.
func WithDemoFallback() Option {
	return func(uc *UseCases) {
		uc.demoFallback = true
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.tools == nil {
		uc.tools = model.DefaultToolRegistry()
	}
	if uc.hub == nil {
		uc.hub = progress.NewHub()
	}

	uc.Session = NewSessionUseCase(repo, uc.backend, uc.storage, uc.tools, uc.demoFallback)
	uc.Workflow = NewWorkflowUseCase(repo, uc.backend, uc.storage, uc.tools, uc.hub, uc.demoFallback)
	uc.Project = NewProjectUseCase(repo)
	uc.Guide = NewGuideUseCase(repo)
	uc.ActionItem = NewActionItemUseCase(repo)

	return uc
}

// Hub exposes the progress hub for the websocket controller.
func (uc *UseCases) Hub() *progress.Hub {
	return uc.hub
}

// Tools exposes the tool registry for the HTTP controller.
func (uc *UseCases) Tools() *model.ToolRegistry {
	return uc.tools
}
