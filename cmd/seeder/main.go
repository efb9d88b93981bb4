package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// SampleCar is the form payload of one seeded car listing.
type SampleCar struct {
	Title                    string
	Owner                    string
	YearOfProduction         int
	Color                    string
	TypeOfCar                string
	Interior                 string
	NumberOfSeats            int
	AdditionalAmenities      []string
	RentalPrice              float64
	Location                 string
	RentalDuration           string
	SpecialOptionsForWedding bool
	Description              string
}

var (
	makes     = []string{"Toyota Camry", "Mercedes-Benz S-Class", "Lexus RX 350", "Range Rover Sport", "Rolls-Royce Ghost", "BMW 7 Series"}
	colors    = []string{"white", "black", "silver", "blue", "red"}
	carTypes  = []string{"sedan", "suv", "limousine", "coupe"}
	interiors = []string{"leather", "fabric", "suede"}
	locations = []string{"Lagos", "Abuja", "Ibadan", "Port Harcourt", "Kano"}
	durations = []string{"hourly", "daily", "weekly"}
	amenities = []string{"wifi", "gps", "bluetooth", "air conditioning", "minibar", "sunroof"}
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func randomCar(owner string) SampleCar {
	picked := make([]string, 0, 3)
	for _, i := range rand.Perm(len(amenities))[:1+rand.Intn(3)] {
		picked = append(picked, amenities[i])
	}
	name := makes[rand.Intn(len(makes))]
	return SampleCar{
		Title:                    name,
		Owner:                    owner,
		YearOfProduction:         2015 + rand.Intn(10),
		Color:                    colors[rand.Intn(len(colors))],
		TypeOfCar:                carTypes[rand.Intn(len(carTypes))],
		Interior:                 interiors[rand.Intn(len(interiors))],
		NumberOfSeats:            []int{2, 4, 5, 7}[rand.Intn(4)],
		AdditionalAmenities:      picked,
		RentalPrice:              float64(50 + rand.Intn(950)),
		Location:                 locations[rand.Intn(len(locations))],
		RentalDuration:           durations[rand.Intn(len(durations))],
		SpecialOptionsForWedding: rand.Intn(2) == 0,
		Description:              fmt.Sprintf("%s available for rent", name),
	}
}

type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

func postJSON(url string, v any) (*authResponse, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out authResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// authenticate registers the seed account, logging in instead when it
// already exists.
func authenticate(apiURL, email, password string) (string, error) {
	reg, err := postJSON(apiURL+"/user/register", map[string]string{
		"name":     "Seeder",
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to register: %w", err)
	}
	if reg.Success {
		log.WithField("email", email).Info("Registered seed account")
		return reg.Token, nil
	}
	if reg.Message != "User already exists" {
		return "", fmt.Errorf("registration rejected: %s", reg.Message)
	}

	login, err := postJSON(apiURL+"/user/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("failed to login: %w", err)
	}
	if !login.Success {
		return "", fmt.Errorf("login rejected: %s", login.Message)
	}
	log.WithField("email", email).Info("Logged in with existing seed account")
	return login.Token, nil
}

func (c SampleCar) fields() map[string]string {
	return map[string]string{
		"title":                    c.Title,
		"owner":                    c.Owner,
		"yearOfProduction":         strconv.Itoa(c.YearOfProduction),
		"color":                    c.Color,
		"typeOfCar":                c.TypeOfCar,
		"interior":                 c.Interior,
		"numberOfSeats":            strconv.Itoa(c.NumberOfSeats),
		"additionalAmenities":      strings.Join(c.AdditionalAmenities, ","),
		"rentalPrice":              strconv.FormatFloat(c.RentalPrice, 'f', -1, 64),
		"location":                 c.Location,
		"rentalDuration":           c.RentalDuration,
		"specialOptionsForWedding": strconv.FormatBool(c.SpecialOptionsForWedding),
		"description":              c.Description,
	}
}

func createCar(apiURL, token string, car SampleCar) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range car.fields() {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+"/car/create-car", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create car: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("car creation failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Car struct {
			ID string `json:"_id"`
		} `json:"car"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Car.ID == "" {
		return "", fmt.Errorf("invalid car ID in response")
	}

	log.WithFields(log.Fields{
		"car_id":   result.Car.ID,
		"title":    car.Title,
		"location": car.Location,
	}).Info("Created car")
	return result.Car.ID, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	apiURL := strings.TrimSuffix(envOr("SEED_API_URL", "http://localhost:5000/api"), "/")
	email := envOr("SEED_EMAIL", "seeder@example.com")
	password := envOr("SEED_PASSWORD", "seeder-password")

	count := 10
	if val := os.Getenv("SEED_COUNT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			count = n
		}
	}

	log.WithFields(log.Fields{
		"count":   count,
		"api_url": apiURL,
	}).Info("Starting listing seeder")

	token, err := authenticate(apiURL, email, password)
	if err != nil {
		log.WithError(err).Fatal("Failed to authenticate")
	}

	created := 0
	for i := 0; i < count; i++ {
		if _, err := createCar(apiURL, token, randomCar("Seeder")); err != nil {
			log.WithError(err).Error("Failed to create car")
			continue
		}
		created++
	}

	log.WithField("created_cars", created).Info("Seeding completed")
	if created == 0 {
		log.Error("No cars created. Ensure the API is reachable. Exiting.")
		os.Exit(1)
	}
}
