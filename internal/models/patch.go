package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// PatchMode selects how a partial update treats supplied values.
type PatchMode string

const (
	// PatchLegacy drops zero values ("", 0, false, empty lists), so a field
	// can never be updated to its zero value. isVerified is exempt.
	PatchLegacy PatchMode = "legacy"
	// PatchPresence applies every field that was supplied.
	PatchPresence PatchMode = "presence"
)

func ParsePatchMode(s string) (PatchMode, error) {
	switch PatchMode(s) {
	case "", PatchLegacy:
		return PatchLegacy, nil
	case PatchPresence:
		return PatchPresence, nil
	default:
		return "", fmt.Errorf("unknown patch mode %q", s)
	}
}

// BasePatch carries the shared listing fields of a partial update.
// A nil field was not supplied.
type BasePatch struct {
	Title       *string `json:"title"`
	Owner       *string `json:"owner"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	IsVerified  *bool   `json:"isVerified"`
}

// CarPatch is a partial update of a Car.
type CarPatch struct {
	BasePatch
	YearOfProduction         *int      `json:"yearOfProduction"`
	Color                    *string   `json:"color"`
	TypeOfCar                *string   `json:"typeOfCar"`
	Interior                 *string   `json:"interior"`
	NumberOfSeats            *int      `json:"numberOfSeats"`
	AdditionalAmenities      *[]string `json:"additionalAmenities"`
	RentalPrice              *float64  `json:"rentalPrice"`
	RentalDuration           *string   `json:"rentalDuration"`
	SpecialOptionsForWedding *bool     `json:"specialOptionsForWedding"`
}

// Set renders the patch as a $set document.
func (p CarPatch) Set(mode PatchMode) bson.M {
	set := p.BasePatch.Set(mode)
	put(set, mode, "yearOfProduction", p.YearOfProduction)
	put(set, mode, "color", p.Color)
	put(set, mode, "typeOfCar", p.TypeOfCar)
	put(set, mode, "interior", p.Interior)
	put(set, mode, "numberOfSeats", p.NumberOfSeats)
	put(set, mode, "rentalPrice", p.RentalPrice)
	put(set, mode, "rentalDuration", p.RentalDuration)
	put(set, mode, "specialOptionsForWedding", p.SpecialOptionsForWedding)
	if p.AdditionalAmenities != nil && (mode == PatchPresence || len(*p.AdditionalAmenities) > 0) {
		set["additionalAmenities"] = *p.AdditionalAmenities
	}
	return set
}

func (p BasePatch) Set(mode PatchMode) bson.M {
	set := bson.M{}
	put(set, mode, "title", p.Title)
	put(set, mode, "owner", p.Owner)
	put(set, mode, "location", p.Location)
	put(set, mode, "description", p.Description)
	if p.IsVerified != nil {
		set["isVerified"] = *p.IsVerified
	}
	return set
}

func put[T comparable](set bson.M, mode PatchMode, key string, v *T) {
	if v == nil {
		return
	}
	var zero T
	if mode == PatchLegacy && *v == zero {
		return
	}
	set[key] = *v
}
