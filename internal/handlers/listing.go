package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/cache"
	"github.com/ukydev/rental-market/internal/db"
	"github.com/ukydev/rental-market/internal/events"
	"github.com/ukydev/rental-market/internal/middleware"
	"github.com/ukydev/rental-market/internal/models"
	"github.com/ukydev/rental-market/internal/query"
	"go.mongodb.org/mongo-driver/bson"
)

// MediaService uploads listing media and removes stale assets.
type MediaService interface {
	UploadListingMedia(ctx context.Context, photos, videos [][]byte) ([]models.Media, []models.Media, error)
	Cleanup(urls ...string)
}

// EventEmitter announces listing writes.
type EventEmitter interface {
	Emit(ctx context.Context, kind models.Kind, action events.Action, id string)
}

// WriteRecorder counts persisted listing writes.
type WriteRecorder interface {
	ObserveListingWrite(kind models.Kind, action string)
}

// ListingServices are the collaborators shared by every listing handler.
type ListingServices struct {
	Media          MediaService
	Cache          cache.Cache
	Events         EventEmitter
	Recorder       WriteRecorder
	Policy         query.Policy
	PatchMode      models.PatchMode
	MaxUploadBytes int64
	Logger         logrus.FieldLogger
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, models.Kind, events.Action, string) {}

type nopRecorder struct{}

func (nopRecorder) ObserveListingWrite(models.Kind, string) {}

func (s ListingServices) withDefaults() ListingServices {
	if s.Cache == nil {
		s.Cache = cache.Nop{}
	}
	if s.Events == nil {
		s.Events = nopEmitter{}
	}
	if s.Recorder == nil {
		s.Recorder = nopRecorder{}
	}
	if s.PatchMode == "" {
		s.PatchMode = models.PatchLegacy
	}
	if s.Logger == nil {
		s.Logger = logrus.StandardLogger()
	}
	return s
}

// listingResource implements the flows every listing kind shares.
type listingResource[T any, PT db.ListingDocument[T]] struct {
	kind       models.Kind
	one, many  string
	emptyMsg   string
	deletedMsg string
	fields     query.FieldSet
	store      db.ListingStore[T]
	svc        ListingServices
}

func (h *listingResource[T, PT]) logger(r *http.Request) logrus.FieldLogger {
	return h.svc.Logger.WithFields(logrus.Fields{"kind": h.kind, "path": r.URL.Path})
}

// create uploads the request media, then persists the listing. Nothing is
// persisted when any upload fails. Assets uploaded before a failed insert
// are left in the store.
func (h *listingResource[T, PT]) create(w http.ResponseWriter, r *http.Request, listing *T, files mediaFiles) {
	ctx := r.Context()
	photos, videos, err := h.svc.Media.UploadListingMedia(ctx, files.photos, files.videos)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}

	base := PT(listing).Base()
	base.Photos = photos
	base.Videos = videos
	if err := h.store.Create(ctx, listing); err != nil {
		if len(photos)+len(videos) > 0 {
			h.logger(r).WithField("assets", len(photos)+len(videos)).Warn("Listing not saved, uploaded media left orphaned")
		}
		writeError(w, h.logger(r), err)
		return
	}

	id := base.ID.Hex()
	h.svc.Recorder.ObserveListingWrite(h.kind, string(events.ActionCreated))
	h.svc.Events.Emit(ctx, h.kind, events.ActionCreated, id)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, h.one: listing})
}

func (h *listingResource[T, PT]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := query.Parse(r.URL.Query(), h.fields)

	total, err := h.store.Count(ctx, q.Filter)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}
	items, err := h.store.Find(ctx, q.Filter, q.Skip, q.Limit)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}
	if len(items) == 0 && h.svc.Policy.EmptyAsNotFound {
		writeError(w, h.logger(r), apperr.NotFound(h.emptyMsg))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		h.many:       items,
		"pagination": query.NewPagination(total, q),
	})
}

func (h *listingResource[T, PT]) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	key := cache.Key(h.kind, id)

	var cached T
	if found, err := h.svc.Cache.Get(ctx, key, &cached); err != nil {
		h.logger(r).WithError(err).Warn("Cache read failed")
	} else if found {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, h.one: &cached})
		return
	}

	listing, err := h.store.FindByID(ctx, id)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}
	if err := h.svc.Cache.Set(ctx, key, listing); err != nil {
		h.logger(r).WithError(err).Warn("Cache write failed")
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, h.one: listing})
}

// edit applies set to an existing listing. Replacement media are uploaded
// first; the assets they replace are removed only after the update is
// persisted.
func (h *listingResource[T, PT]) edit(w http.ResponseWriter, r *http.Request, set bson.M, files mediaFiles) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}

	var stale []string
	if !files.empty() {
		photos, videos, err := h.svc.Media.UploadListingMedia(ctx, files.photos, files.videos)
		if err != nil {
			writeError(w, h.logger(r), err)
			return
		}
		base := PT(existing).Base()
		if len(files.photos) > 0 {
			set["photos"] = photos
			stale = append(stale, urls(base.Photos)...)
		}
		if len(files.videos) > 0 {
			set["videos"] = videos
			stale = append(stale, urls(base.Videos)...)
		}
	}

	updated, err := h.store.Update(ctx, id, set)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}
	h.svc.Media.Cleanup(stale...)

	h.invalidate(r, id)
	h.svc.Recorder.ObserveListingWrite(h.kind, string(events.ActionUpdated))
	h.svc.Events.Emit(ctx, h.kind, events.ActionUpdated, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, h.one: updated})
}

// remove schedules cleanup of every asset of the listing and deletes it.
// Cleanup failures never fail the request.
func (h *listingResource[T, PT]) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	existing, err := h.store.FindByID(ctx, id)
	if err != nil {
		writeError(w, h.logger(r), err)
		return
	}
	h.svc.Media.Cleanup(PT(existing).Base().MediaURLs()...)

	if err := h.store.Delete(ctx, id); err != nil {
		writeError(w, h.logger(r), err)
		return
	}

	h.invalidate(r, id)
	h.svc.Recorder.ObserveListingWrite(h.kind, string(events.ActionDeleted))
	h.svc.Events.Emit(ctx, h.kind, events.ActionDeleted, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": h.deletedMsg})
}

func (h *listingResource[T, PT]) invalidate(r *http.Request, id string) {
	if err := h.svc.Cache.Delete(r.Context(), cache.Key(h.kind, id)); err != nil {
		h.logger(r).WithError(err).Warn("Cache invalidation failed")
	}
}

func urls(media []models.Media) []string {
	out := make([]string, 0, len(media))
	for _, m := range media {
		out = append(out, m.URL)
	}
	return out
}

// ownerOrUser falls back to the authenticated user when no owner is given.
func ownerOrUser(r *http.Request, owner string) string {
	if owner != "" {
		return owner
	}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
}
