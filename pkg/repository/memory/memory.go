package memory

import (
	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
)

type Memory struct {
	session    *sessionRepository
	project    *projectRepository
	guide      *guideRepository
	actionItem *actionItemRepository
	tokens     *tokenStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		session:    newSessionRepository(),
		project:    newProjectRepository(),
		guide:      newGuideRepository(),
		actionItem: newActionItemRepository(),
		tokens:     newTokenStore(),
	}
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Guide() interfaces.GuideRepository {
	return m.guide
}

func (m *Memory) ActionItem() interfaces.ActionItemRepository {
	return m.actionItem
}

func (m *Memory) Close() error {
	return nil
}
