package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type guideRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newGuideRepository(client *firestore.Client) *guideRepository {
	return &guideRepository{
		client: client,
	}
}

func (r *guideRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_guide_progress"
	}
	return "guide_progress"
}

// docID keys progress documents by (project, guide)
func (r *guideRepository) docID(projectID types.ProjectID, guideID types.GuideID) string {
	return fmt.Sprintf("%s__%s", projectID, guideID)
}

func (r *guideRepository) Put(ctx context.Context, g *model.GuideProgress) (*model.GuideProgress, error) {
	updated := *g
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid guide progress")
	}

	docID := r.docID(updated.ProjectID, updated.GuideID)
	if _, err := r.client.Collection(r.collection()).Doc(docID).Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to put guide progress",
			goerr.V("project_id", updated.ProjectID), goerr.V("guide_id", updated.GuideID))
	}

	return &updated, nil
}

func (r *guideRepository) Get(ctx context.Context, projectID types.ProjectID, guideID types.GuideID) (*model.GuideProgress, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(r.docID(projectID, guideID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "guide progress not found",
				goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
		}
		return nil, goerr.Wrap(err, "failed to get guide progress",
			goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
	}

	var g model.GuideProgress
	if err := docSnap.DataTo(&g); err != nil {
		return nil, goerr.Wrap(err, "failed to decode guide progress",
			goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
	}

	return &g, nil
}

func (r *guideRepository) ListByProject(ctx context.Context, projectID types.ProjectID) ([]*model.GuideProgress, error) {
	iter := r.client.Collection(r.collection()).
		Where("ProjectID", "==", projectID.String()).
		OrderBy("UpdatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var progress []*model.GuideProgress
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate guide progress", goerr.V("project_id", projectID))
		}

		var g model.GuideProgress
		if err := docSnap.DataTo(&g); err != nil {
			return nil, goerr.Wrap(err, "failed to decode guide progress", goerr.V("doc_id", docSnap.Ref.ID))
		}
		progress = append(progress, &g)
	}

	return progress, nil
}

func (r *guideRepository) Delete(ctx context.Context, projectID types.ProjectID, guideID types.GuideID) error {
	docRef := r.client.Collection(r.collection()).Doc(r.docID(projectID, guideID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "guide progress not found",
				goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
		}
		return goerr.Wrap(err, "failed to check guide progress existence",
			goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete guide progress",
			goerr.V("project_id", projectID), goerr.V("guide_id", guideID))
	}

	return nil
}
