package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/readylab-io/waypoint/pkg/domain/model"
	"github.com/readylab-io/waypoint/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type actionItemRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActionItemRepository(client *firestore.Client) *actionItemRepository {
	return &actionItemRepository{
		client: client,
	}
}

func (r *actionItemRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_action_items"
	}
	return "action_items"
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	now := time.Now().UTC()
	created := *item
	created.ID = types.NewActionItemID()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid action item")
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID.String()).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action item", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *actionItemRepository) CreateMany(ctx context.Context, items []*model.ActionItem) ([]*model.ActionItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	created := make([]*model.ActionItem, len(items))

	// BulkWriter avoids one round trip per document
	bw := r.client.BulkWriter(ctx)
	for i, item := range items {
		c := *item
		c.ID = types.NewActionItemID()
		c.Status = c.Status.Normalize()
		c.CreatedAt = now
		c.UpdatedAt = now

		if err := c.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid action item", goerr.V("index", i))
		}

		if _, err := bw.Set(r.client.Collection(r.collection()).Doc(c.ID.String()), &c); err != nil {
			return nil, goerr.Wrap(err, "failed to queue action item", goerr.V("id", c.ID))
		}
		created[i] = &c
	}
	bw.End()

	return created, nil
}

func (r *actionItemRepository) Get(ctx context.Context, id types.ActionItemID) (*model.ActionItem, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V("id", id))
	}

	var item model.ActionItem
	if err := docSnap.DataTo(&item); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action item", goerr.V("id", id))
	}

	return &item, nil
}

func (r *actionItemRepository) ListByOwner(ctx context.Context, ownerID types.UserID) ([]*model.ActionItem, error) {
	q := r.client.Collection(r.collection()).
		Where("OwnerID", "==", ownerID.String()).
		OrderBy("CreatedAt", firestore.Desc)
	return r.list(ctx, q)
}

func (r *actionItemRepository) ListByProject(ctx context.Context, projectID types.ProjectID) ([]*model.ActionItem, error) {
	q := r.client.Collection(r.collection()).
		Where("ProjectID", "==", projectID.String()).
		OrderBy("CreatedAt", firestore.Desc)
	return r.list(ctx, q)
}

func (r *actionItemRepository) list(ctx context.Context, query firestore.Query) ([]*model.ActionItem, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var items []*model.ActionItem
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate action items")
		}

		var item model.ActionItem
		if err := docSnap.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode action item", goerr.V("doc_id", docSnap.Ref.ID))
		}
		items = append(items, &item)
	}

	return items, nil
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	docRef := r.client.Collection(r.collection()).Doc(item.ID.String())

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", item.ID))
		}
		return nil, goerr.Wrap(err, "failed to check action item existence", goerr.V("id", item.ID))
	}

	var existing model.ActionItem
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action item", goerr.V("id", item.ID))
	}

	updated := *item
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid action item")
	}

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V("id", item.ID))
	}

	return &updated, nil
}

func (r *actionItemRepository) Delete(ctx context.Context, id types.ActionItemID) error {
	docRef := r.client.Collection(r.collection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "action item not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check action item existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete action item", goerr.V("id", id))
	}

	return nil
}
