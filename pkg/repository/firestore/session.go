package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/interfaces"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type sessionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSessionRepository(client *firestore.Client) *sessionRepository {
	return &sessionRepository{
		client: client,
	}
}

func (r *sessionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sessions"
	}
	return "sessions"
}

// sessionDoc is the Firestore document representation of model.Session
type sessionDoc struct {
	ID          string                    `firestore:"ID"`
	UserID      string                    `firestore:"UserID"`
	Tool        string                    `firestore:"Tool"`
	Name        string                    `firestore:"Name"`
	Description string                    `firestore:"Description"`
	Status      string                    `firestore:"Status"`
	CurrentStep int                       `firestore:"CurrentStep"`
	StepData    map[string]map[string]any `firestore:"StepData,omitempty"`
	DataFile    *dataFileDoc              `firestore:"DataFile,omitempty"`
	CreatedAt   time.Time                 `firestore:"CreatedAt"`
	UpdatedAt   time.Time                 `firestore:"UpdatedAt"`
}

type dataFileDoc struct {
	Name        string `firestore:"Name"`
	Size        int64  `firestore:"Size"`
	ContentType string `firestore:"ContentType"`
	URL         string `firestore:"URL"`
	Path        string `firestore:"Path"`
}

func toSessionDoc(s *model.Session) *sessionDoc {
	doc := &sessionDoc{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		Tool:        s.Tool.String(),
		Name:        s.Name,
		Description: s.Description,
		Status:      s.Status.String(),
		CurrentStep: s.CurrentStep,
		StepData:    s.StepData,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.DataFile != nil {
		doc.DataFile = &dataFileDoc{
			Name:        s.DataFile.Name,
			Size:        s.DataFile.Size,
			ContentType: s.DataFile.ContentType,
			URL:         s.DataFile.URL,
			Path:        s.DataFile.Path,
		}
	}
	return doc
}

func fromSessionDoc(d *sessionDoc) *model.Session {
	s := &model.Session{
		ID:          types.SessionID(d.ID),
		UserID:      types.UserID(d.UserID),
		Tool:        types.ToolID(d.Tool),
		Name:        d.Name,
		Description: d.Description,
		Status:      types.SessionStatus(d.Status).Normalize(),
		CurrentStep: d.CurrentStep,
		StepData:    d.StepData,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.DataFile != nil {
		s.DataFile = &model.DataFile{
			Name:        d.DataFile.Name,
			Size:        d.DataFile.Size,
			ContentType: d.DataFile.ContentType,
			URL:         d.DataFile.URL,
			Path:        d.DataFile.Path,
		}
	}
	return s
}

func (r *sessionRepository) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	now := time.Now().UTC()
	created := *s
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session")
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, toSessionDoc(&created))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *sessionRepository) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("id", id))
	}

	var doc sessionDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session", goerr.V("id", id))
	}

	return fromSessionDoc(&doc), nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID types.UserID, opts ...interfaces.ListSessionOption) ([]*model.Session, error) {
	cfg := interfaces.BuildListSessionConfig(opts...)

	// Requires the composite index provisioned by the migrate command
	query := r.client.Collection(r.collection()).
		Where("UserID", "==", userID.String()).
		OrderBy("UpdatedAt", firestore.Desc)
	if st := cfg.Status(); st != nil {
		query = query.Where("Status", "==", st.String())
	}
	if cfg.Limit() > 0 {
		query = query.Limit(cfg.Limit())
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var sessions []*model.Session
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions", goerr.V("user_id", userID))
		}

		var doc sessionDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode session", goerr.V("doc_id", docSnap.Ref.ID))
		}
		sessions = append(sessions, fromSessionDoc(&doc))
	}

	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, s *model.Session) (*model.Session, error) {
	docRef := r.client.Collection(r.collection()).Doc(s.ID.String())

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", s.ID))
		}
		return nil, goerr.Wrap(err, "failed to check session existence", goerr.V("id", s.ID))
	}

	var existing sessionDoc
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session", goerr.V("id", s.ID))
	}

	updated := *s
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session")
	}

	if _, err := docRef.Set(ctx, toSessionDoc(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update session", goerr.V("id", s.ID))
	}

	return &updated, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id types.SessionID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "session not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check session existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("id", id))
	}

	return nil
}
