package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind names a listing variant. It doubles as the collection name.
type Kind string

const (
	KindCar        Kind = "car"
	KindDecoration Kind = "decoration"
)

// MediaKind is the resource-type hint sent to the asset store.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is a reference to an uploaded asset.
type Media struct {
	URL         string  `bson:"url" json:"url"`
	Description *string `bson:"description,omitempty" json:"description,omitempty"`
}

// ListingBase holds the fields shared by every listing variant.
type ListingBase struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Owner       string             `bson:"owner" json:"owner"`
	Location    string             `bson:"location" json:"location"`
	Description string             `bson:"description" json:"description"`
	Photos      []Media            `bson:"photos" json:"photos"`
	Videos      []Media            `bson:"videos" json:"videos"`
	IsVerified  bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Base gives generic code access to the shared fields.
func (b *ListingBase) Base() *ListingBase { return b }

// MediaURLs returns the urls of every photo and video.
func (b *ListingBase) MediaURLs() []string {
	urls := make([]string, 0, len(b.Photos)+len(b.Videos))
	for _, m := range b.Photos {
		urls = append(urls, m.URL)
	}
	for _, m := range b.Videos {
		urls = append(urls, m.URL)
	}
	return urls
}

// Car is a vehicle offered for rental.
type Car struct {
	ListingBase              `bson:",inline"`
	YearOfProduction         int      `bson:"yearOfProduction" json:"yearOfProduction"`
	Color                    string   `bson:"color" json:"color"`
	TypeOfCar                string   `bson:"typeOfCar" json:"typeOfCar"`
	Interior                 string   `bson:"interior" json:"interior"`
	NumberOfSeats            int      `bson:"numberOfSeats" json:"numberOfSeats"`
	AdditionalAmenities      []string `bson:"additionalAmenities" json:"additionalAmenities"`
	RentalPrice              float64  `bson:"rentalPrice" json:"rentalPrice"`
	RentalDuration           string   `bson:"rentalDuration" json:"rentalDuration"`
	SpecialOptionsForWedding bool     `bson:"specialOptionsForWedding" json:"specialOptionsForWedding"`
}

func (Car) Kind() Kind { return KindCar }

// Decoration is a decoration package offered for rental.
type Decoration struct {
	ListingBase      `bson:",inline"`
	TypeOfDecoration string `bson:"typeOfDecoration" json:"typeOfDecoration"`
}

func (Decoration) Kind() Kind { return KindDecoration }

// NewMedia wraps urls as media entries, skipping empty urls.
func NewMedia(urls ...string) []Media {
	out := make([]Media, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		out = append(out, Media{URL: u})
	}
	return out
}
