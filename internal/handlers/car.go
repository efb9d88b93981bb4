package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/db"
	"github.com/ukydev/rental-market/internal/models"
	"github.com/ukydev/rental-market/internal/query"
)

// CarHandler serves the car listing endpoints.
type CarHandler struct {
	res *listingResource[models.Car, *models.Car]
}

func NewCarHandler(store db.ListingStore[models.Car], svc ListingServices) *CarHandler {
	return &CarHandler{res: &listingResource[models.Car, *models.Car]{
		kind:       models.KindCar,
		one:        "car",
		many:       "cars",
		emptyMsg:   "No cars found",
		deletedMsg: "Car deleted successfully",
		fields:     query.CarFields,
		store:      store,
		svc:        svc.withDefaults(),
	}}
}

// Create handles POST /api/car/create-car.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, files, err := parseListingForm(w, r, h.res.svc.MaxUploadBytes)
	if err != nil {
		writeError(w, h.res.logger(r), err)
		return
	}
	patch, err := carPatchFromForm(form)
	if err != nil {
		writeError(w, h.res.logger(r), err)
		return
	}

	car := newCar(patch)
	car.Owner = ownerOrUser(r, car.Owner)
	if car.Title == "" || car.Location == "" {
		writeError(w, h.res.logger(r), apperr.Validation("Title and location are required"))
		return
	}
	h.res.create(w, r, car, files)
}

// List handles GET /api/car/cars.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) { h.res.list(w, r) }

// Get handles GET /api/car/car/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) { h.res.get(w, r) }

// Edit handles PUT /api/car/edit-car/{id}. The body is either multipart
// form data, optionally carrying replacement media, or JSON.
func (h *CarHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var (
		patch models.CarPatch
		files mediaFiles
	)
	if isJSON(r) {
		if h.res.svc.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.res.svc.MaxUploadBytes)
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, h.res.logger(r), apperr.Validation("Invalid JSON body"))
			return
		}
	} else {
		form, f, err := parseListingForm(w, r, h.res.svc.MaxUploadBytes)
		if err != nil {
			writeError(w, h.res.logger(r), err)
			return
		}
		if patch, err = carPatchFromForm(form); err != nil {
			writeError(w, h.res.logger(r), err)
			return
		}
		files = f
	}
	if patch.AdditionalAmenities != nil {
		trimmed := trimList(*patch.AdditionalAmenities)
		patch.AdditionalAmenities = &trimmed
	}
	h.res.edit(w, r, patch.Set(h.res.svc.PatchMode), files)
}

// Delete handles DELETE /api/car/remove-car/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) { h.res.remove(w, r) }

func carPatchFromForm(form url.Values) (models.CarPatch, error) {
	p := models.CarPatch{
		BasePatch:                basePatchFromForm(form),
		Color:                    formString(form, "color"),
		TypeOfCar:                formString(form, "typeOfCar"),
		Interior:                 formString(form, "interior"),
		AdditionalAmenities:      formList(form, "additionalAmenities"),
		RentalDuration:           formString(form, "rentalDuration"),
		SpecialOptionsForWedding: formBool(form, "specialOptionsForWedding"),
	}
	var err error
	if p.YearOfProduction, err = formInt(form, "yearOfProduction"); err != nil {
		return p, err
	}
	if p.NumberOfSeats, err = formInt(form, "numberOfSeats"); err != nil {
		return p, err
	}
	if p.RentalPrice, err = formFloat(form, "rentalPrice"); err != nil {
		return p, err
	}
	return p, nil
}

func basePatchFromForm(form url.Values) models.BasePatch {
	return models.BasePatch{
		Title:       formString(form, "title"),
		Owner:       formString(form, "owner"),
		Location:    formString(form, "location"),
		Description: formString(form, "description"),
		IsVerified:  formBool(form, "isVerified"),
	}
}

func newCar(p models.CarPatch) *models.Car {
	amenities := deref(p.AdditionalAmenities)
	if amenities == nil {
		amenities = []string{}
	}
	return &models.Car{
		ListingBase:              newBase(p.BasePatch),
		YearOfProduction:         deref(p.YearOfProduction),
		Color:                    deref(p.Color),
		TypeOfCar:                deref(p.TypeOfCar),
		Interior:                 deref(p.Interior),
		NumberOfSeats:            deref(p.NumberOfSeats),
		AdditionalAmenities:      amenities,
		RentalPrice:              deref(p.RentalPrice),
		RentalDuration:           deref(p.RentalDuration),
		SpecialOptionsForWedding: deref(p.SpecialOptionsForWedding),
	}
}

func newBase(p models.BasePatch) models.ListingBase {
	return models.ListingBase{
		Title:       deref(p.Title),
		Owner:       deref(p.Owner),
		Location:    deref(p.Location),
		Description: deref(p.Description),
		IsVerified:  deref(p.IsVerified),
	}
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
