package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/domain"
	"github.com/digital-profile/internal/domain/repository"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/slug"
	"github.com/digital-profile/internal/usecase/dto"
)

// maxSlugAttempts - retries when a concurrent write takes the resolved slug
const maxSlugAttempts = 3

// EntityUseCase serves direct lookups and the write paths of every entity kind
type EntityUseCase struct {
	listingRepo repository.ListingRepository
	streamRepo  repository.StreamRepository
	hydrator    *MediaHydrator
	timeout     time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewEntityUseCase(
	listingRepo repository.ListingRepository,
	streamRepo repository.StreamRepository,
	hydrator *MediaHydrator,
	timeout time.Duration,
	logger *zap.Logger,
) *EntityUseCase {
	return &EntityUseCase{
		listingRepo: listingRepo,
		streamRepo:  streamRepo,
		hydrator:    hydrator,
		timeout:     timeout,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *EntityUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *EntityUseCase) GetBySlug(ctx context.Context, schema *domain.Schema, slugValue string) (*domain.Row, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	row, err := uc.listingRepo.GetBySlug(ctx, schema, slugValue)
	return uc.finishLookup(ctx, schema, row, err)
}

func (uc *EntityUseCase) GetByID(ctx context.Context, schema *domain.Schema, id string) (*domain.Row, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	row, err := uc.listingRepo.GetByID(ctx, schema, id)
	return uc.finishLookup(ctx, schema, row, err)
}

func (uc *EntityUseCase) finishLookup(ctx context.Context, schema *domain.Schema, row *domain.Row, err error) (*domain.Row, error) {
	if err != nil {
		return nil, uc.classify(schema, "lookup", err)
	}
	if err := uc.hydrator.Hydrate(ctx, schema.Type, []*domain.Row{row}); err != nil {
		uc.logger.Error("Failed to hydrate media",
			zap.String("entity_type", string(schema.Type)),
			zap.String("id", row.ID()),
			zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	return row, nil
}

// Create inserts a new entity. The id is generated, the slug is derived from
// the name unless supplied and made unique with a -N suffix.
func (uc *EntityUseCase) Create(ctx context.Context, schema *domain.Schema, input dto.EntityInput, actor string) (*domain.Row, error) {
	values, err := decodeInput(schema, input)
	if err != nil {
		return nil, err
	}

	for _, col := range schema.Columns {
		if col.Required && values[col.Name] == nil {
			return nil, errors.BadRequest("Field %q is required", col.Field)
		}
	}
	for _, col := range schema.Columns {
		if _, ok := values[col.Name]; !ok && col.Default != nil {
			values[col.Name] = col.Default
		}
	}

	name, _ := values["name"].(string)
	applySEODefaults(values)

	now := uc.now()
	values["id"] = uuid.NewString()
	values["created_at"] = now
	values["updated_at"] = now
	values["created_by"] = actor
	values["updated_by"] = actor

	base := slugBase(schema, values, name)

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		resolved, err := uc.resolveSlug(ctx, schema, base, "")
		if err != nil {
			return nil, uc.classify(schema, "create", err)
		}
		values["slug"] = resolved

		row, err := uc.listingRepo.Create(ctx, schema, values)
		if stderrors.Is(err, repository.ErrSlugTaken) && attempt < maxSlugAttempts {
			uc.logger.Debug("Slug taken concurrently, retrying",
				zap.String("entity_type", string(schema.Type)),
				zap.String("slug", resolved))
			continue
		}
		if err != nil {
			return nil, uc.classify(schema, "create", err)
		}

		uc.logger.Info("Entity created",
			zap.String("entity_type", string(schema.Type)),
			zap.String("id", row.ID()),
			zap.String("slug", resolved),
			zap.String("actor", actor))
		return uc.finishLookup(ctx, schema, row, nil)
	}
}

// Update changes only the supplied fields. A new name without an explicit slug
// regenerates the slug.
func (uc *EntityUseCase) Update(ctx context.Context, schema *domain.Schema, id string, input dto.EntityInput, actor string) (*domain.Row, error) {
	values, err := decodeInput(schema, input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	current, err := uc.listingRepo.GetByID(ctx, schema, id)
	if err != nil {
		return nil, uc.classify(schema, "update", err)
	}

	values["updated_at"] = uc.now()
	values["updated_by"] = actor

	explicitSlug, hasSlug := values["slug"].(string)
	newName, renamed := values["name"].(string)
	if renamed {
		if old, _ := current.Get("name"); old == newName {
			renamed = false
		}
	}
	regenerate := (hasSlug && explicitSlug != "") || renamed
	if !regenerate {
		delete(values, "slug")
	}

	for attempt := 1; ; attempt++ {
		if regenerate {
			base := slugBase(schema, values, newName)
			resolved, err := uc.resolveSlug(ctx, schema, base, id)
			if err != nil {
				return nil, uc.classify(schema, "update", err)
			}
			values["slug"] = resolved
		}

		row, err := uc.listingRepo.Update(ctx, schema, id, values)
		if stderrors.Is(err, repository.ErrSlugTaken) && regenerate && attempt < maxSlugAttempts {
			continue
		}
		if err != nil {
			return nil, uc.classify(schema, "update", err)
		}

		uc.logger.Info("Entity updated",
			zap.String("entity_type", string(schema.Type)),
			zap.String("id", id),
			zap.Int("fields", len(input)),
			zap.String("actor", actor))
		return uc.finishLookup(ctx, schema, row, nil)
	}
}

// Delete removes the entity and queues its orphaned media for cleanup. The
// deletion stands even when the event cannot be published.
func (uc *EntityUseCase) Delete(ctx context.Context, schema *domain.Schema, id, actor string) (*dto.DeleteResponse, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	orphaned, err := uc.listingRepo.Delete(ctx, schema, id)
	if err != nil {
		return nil, uc.classify(schema, "delete", err)
	}

	resp := &dto.DeleteResponse{ID: id, OrphanedMedia: len(orphaned)}

	event := &domain.MediaCleanupEvent{
		EntityType: schema.Type,
		EntityID:   id,
		MediaIDs:   make([]string, 0, len(orphaned)),
		FilePaths:  make([]string, 0, len(orphaned)),
		DeletedAt:  uc.now(),
	}
	for _, m := range orphaned {
		event.MediaIDs = append(event.MediaIDs, m.ID)
		event.FilePaths = append(event.FilePaths, m.FilePath)
	}

	if !event.IsEmpty() {
		if err := uc.streamRepo.PublishToStream(ctx, domain.StreamMediaCleanup, event); err != nil {
			uc.logger.Error("Failed to queue media cleanup",
				zap.String("entity_type", string(schema.Type)),
				zap.String("id", id),
				zap.Strings("media_ids", event.MediaIDs),
				zap.Error(err))
		} else {
			resp.CleanupQueued = true
		}
	}

	uc.logger.Info("Entity deleted",
		zap.String("entity_type", string(schema.Type)),
		zap.String("id", id),
		zap.Int("orphaned_media", len(orphaned)),
		zap.String("actor", actor))
	return resp, nil
}

func (uc *EntityUseCase) resolveSlug(ctx context.Context, schema *domain.Schema, base, excludeID string) (string, error) {
	taken, err := uc.listingRepo.TakenSlugs(ctx, schema, base, excludeID)
	if err != nil {
		return "", err
	}
	return slug.Resolve(base, taken), nil
}

// classify maps repository failures onto the public error taxonomy
func (uc *EntityUseCase) classify(schema *domain.Schema, op string, err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(string(schema.Type))
	}
	uc.logger.Error("Entity operation failed",
		zap.String("op", op),
		zap.String("entity_type", string(schema.Type)),
		zap.Error(err))
	return errors.ErrInternalServer
}

// slugBase - explicit slug when supplied, otherwise derived from the name,
// falling back to the entity type for names without an ASCII form
func slugBase(schema *domain.Schema, values map[string]interface{}, name string) string {
	if explicit, ok := values["slug"].(string); ok && explicit != "" {
		if s := slug.Make(explicit); s != "" {
			return s
		}
	}
	return slug.MakeOr(name, string(schema.Type))
}

// applySEODefaults - meta title and description default to name and description
func applySEODefaults(values map[string]interface{}) {
	if v, _ := values["meta_title"].(string); v == "" {
		if name, _ := values["name"].(string); name != "" {
			values["meta_title"] = name
		}
	}
	if v, _ := values["meta_description"].(string); v == "" {
		if desc, _ := values["description"].(string); desc != "" {
			values["meta_description"] = desc
		}
	}
}
