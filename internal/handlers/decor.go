package handlers

import (
	"net/http"

	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/db"
	"github.com/ukydev/rental-market/internal/models"
	"github.com/ukydev/rental-market/internal/query"
)

// DecorHandler serves the decoration listing endpoints.
type DecorHandler struct {
	res *listingResource[models.Decoration, *models.Decoration]
}

func NewDecorHandler(store db.ListingStore[models.Decoration], svc ListingServices) *DecorHandler {
	return &DecorHandler{res: &listingResource[models.Decoration, *models.Decoration]{
		kind:       models.KindDecoration,
		one:        "decor",
		many:       "decors",
		emptyMsg:   "No decoration list found",
		deletedMsg: "Decoration deleted successfully",
		fields:     query.DecorationFields,
		store:      store,
		svc:        svc.withDefaults(),
	}}
}

// Create handles POST /api/decor/create-decorations.
func (h *DecorHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, files, err := parseListingForm(w, r, h.res.svc.MaxUploadBytes)
	if err != nil {
		writeError(w, h.res.logger(r), err)
		return
	}

	decor := &models.Decoration{
		ListingBase:      newBase(basePatchFromForm(form)),
		TypeOfDecoration: deref(formString(form, "typeOfDecoration")),
	}
	decor.Owner = ownerOrUser(r, decor.Owner)
	if decor.Title == "" || decor.Location == "" {
		writeError(w, h.res.logger(r), apperr.Validation("Title and location are required"))
		return
	}
	h.res.create(w, r, decor, files)
}

// List handles GET /api/decor/decorations-lists.
func (h *DecorHandler) List(w http.ResponseWriter, r *http.Request) { h.res.list(w, r) }

// Get handles GET /api/decor/decoration/{id}.
func (h *DecorHandler) Get(w http.ResponseWriter, r *http.Request) { h.res.get(w, r) }

// Edit is not supported for decorations yet.
func (h *DecorHandler) Edit(w http.ResponseWriter, r *http.Request) {
	writeError(w, h.res.logger(r), apperr.NotImplemented("Editing decorations is not implemented"))
}

// Delete handles DELETE /api/decor/remove-decorations/{id}.
func (h *DecorHandler) Delete(w http.ResponseWriter, r *http.Request) { h.res.remove(w, r) }
