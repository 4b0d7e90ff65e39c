package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	session    *sessionRepository
	project    *projectRepository
	guide      *guideRepository
	actionItem *actionItemRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.session.collectionPrefix = prefix
		f.project.collectionPrefix = prefix
		f.guide.collectionPrefix = prefix
		f.actionItem.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		session:    newSessionRepository(client),
		project:    newProjectRepository(client),
		guide:      newGuideRepository(client),
		actionItem: newActionItemRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Session() interfaces.SessionRepository {
	return f.session
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Guide() interfaces.GuideRepository {
	return f.guide
}

func (f *Firestore) ActionItem() interfaces.ActionItemRepository {
	return f.actionItem
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
