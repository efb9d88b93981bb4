package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/rental-market/internal/auth"
	"github.com/ukydev/rental-market/internal/cache"
	"github.com/ukydev/rental-market/internal/media"
	"github.com/ukydev/rental-market/internal/metrics"
	"github.com/ukydev/rental-market/internal/middleware"
	"github.com/ukydev/rental-market/internal/models"
	"github.com/ukydev/rental-market/internal/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testEnv struct {
	router   http.Handler
	cars     *memListings[models.Car, *models.Car]
	decors   *memListings[models.Decoration, *models.Decoration]
	users    *memUsers
	assets   *assetStore
	uploader *media.Uploader
	cache    *mapCache
	auth     *auth.Service
	userID   string
	token    string
}

type envOption func(*ListingServices)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()

	env := &testEnv{
		cars:   newMemListings[models.Car, *models.Car]("Car"),
		decors: newMemListings[models.Decoration, *models.Decoration]("Decor"),
		users:  newMemUsers(),
		assets: &assetStore{failOn: map[string]bool{}},
		cache:  newMapCache(),
		auth:   auth.NewService("test-secret", time.Hour),
		userID: primitive.NewObjectID().Hex(),
	}
	env.uploader = media.NewUploader(env.assets, logger, nil, time.Second)

	svc := ListingServices{
		Media:     env.uploader,
		Cache:     env.cache,
		Policy:    query.DefaultPolicy(),
		PatchMode: models.PatchLegacy,
		Logger:    logger,
	}
	for _, opt := range opts {
		opt(&svc)
	}

	env.router = NewRouter(RouterConfig{
		Auth:      NewAuthHandler(auth.NewAccounts(env.auth, env.users), logger),
		Cars:      NewCarHandler(env.cars, svc),
		Decors:    NewDecorHandler(env.decors, svc),
		AuthMW:    middleware.NewAuthMiddleware(env.auth),
		Metrics:   metrics.New(),
		Logger:    logger,
		ClientURL: "http://localhost:5173",
	})

	token, err := env.auth.GenerateToken(env.userID)
	require.NoError(t, err)
	env.token = token
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedCar(t *testing.T, car models.Car) models.Car {
	t.Helper()
	require.NoError(t, e.cars.Create(context.Background(), &car))
	return car
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string][]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, contents := range files {
		for i, c := range contents {
			fw, err := mw.CreateFormFile(field, fmt.Sprintf("%s-%d.bin", field, i))
			require.NoError(t, err)
			_, err = io.WriteString(fw, c)
			require.NoError(t, err)
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type carResponse struct {
	Success bool       `json:"success"`
	Car     models.Car `json:"car"`
	Message string     `json:"message"`
}

type carsResponse struct {
	Success    bool             `json:"success"`
	Cars       []models.Car     `json:"cars"`
	Pagination query.Pagination `json:"pagination"`
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)
	body := models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}

	w := env.do(t, jsonRequest(t, http.MethodPost, "/api/user/register", body), false)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[models.AuthResponse](t, w)
	assert.True(t, first.Success)
	assert.NotEmpty(t, first.Token)

	w = env.do(t, jsonRequest(t, http.MethodPost, "/api/user/register", body), false)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[models.AuthResponse](t, w)
	assert.False(t, second.Success)
	assert.Equal(t, "User already exists", second.Message)
	assert.Empty(t, second.Token)
	assert.Equal(t, 1, env.users.count())
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		body models.RegisterRequest
		want string
	}{
		{"missing name", models.RegisterRequest{Email: "a@b.co", Password: "password123"}, "Please provide all fields"},
		{"bad email", models.RegisterRequest{Name: "A", Email: "nope", Password: "password123"}, "Please enter a valid email"},
		{"short password", models.RegisterRequest{Name: "A", Email: "a@b.co", Password: "short"}, "Password should be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, jsonRequest(t, http.MethodPost, "/api/user/register", tt.body), false)
			assert.Equal(t, http.StatusOK, w.Code)
			resp := decode[models.AuthResponse](t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.want, resp.Message)
		})
	}
	assert.Equal(t, 0, env.users.count())
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	reg := models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}
	w := env.do(t, jsonRequest(t, http.MethodPost, "/api/user/register", reg), false)
	require.True(t, decode[models.AuthResponse](t, w).Success)

	t.Run("valid credentials", func(t *testing.T) {
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/user/login", models.LoginRequest{Email: reg.Email, Password: reg.Password}), false)
		resp := decode[models.AuthResponse](t, w)
		require.True(t, resp.Success)

		claims, err := env.auth.ValidateToken(resp.Token)
		require.NoError(t, err)
		user, err := env.users.FindUserByEmail(context.Background(), reg.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.UserID)

		_, err = env.auth.ValidateToken(resp.Token + "x")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/user/login", models.LoginRequest{Email: reg.Email, Password: "wrong-password"}), false)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[models.AuthResponse](t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Invalid credentials", resp.Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/user/login", models.LoginRequest{Email: "who@example.com", Password: "password123"}), false)
		resp := decode[models.AuthResponse](t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "User does not exist", resp.Message)
	})

	t.Run("logout", func(t *testing.T) {
		w := env.do(t, httptest.NewRequest(http.MethodPost, "/api/user/logout", nil), false)
		resp := decode[models.AuthResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "User logged out successfully", resp.Message)
	})
}

func TestCarHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	req := multipartRequest(t, http.MethodPost, "/api/car/create-car",
		map[string]string{
			"title":               "Rolls Royce Phantom",
			"location":            "Lagos",
			"color":               "white",
			"yearOfProduction":    "2021",
			"numberOfSeats":       "4",
			"rentalPrice":         "450.5",
			"additionalAmenities": "wifi, gps",
			"isVerified":          "on",
		},
		map[string][]string{
			"photos": {"photo-1", "photo-2", "photo-3"},
			"videos": {"video-1"},
		})

	w := env.do(t, req, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[carResponse](t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Car.ID.IsZero())
	assert.Equal(t, env.userID, resp.Car.Owner)
	assert.Equal(t, 2021, resp.Car.YearOfProduction)
	assert.Equal(t, 450.5, resp.Car.RentalPrice)
	assert.Equal(t, []string{"wifi", "gps"}, resp.Car.AdditionalAmenities)
	assert.True(t, resp.Car.IsVerified)
	require.Len(t, resp.Car.Photos, 3)
	assert.Equal(t, "https://assets.test/image/photo-1", resp.Car.Photos[0].URL)
	assert.Equal(t, "https://assets.test/image/photo-3", resp.Car.Photos[2].URL)
	require.Len(t, resp.Car.Videos, 1)
	assert.Equal(t, "https://assets.test/video/video-1", resp.Car.Videos[0].URL)
	assert.Equal(t, 1, env.cars.len())
}

func TestCarHandler_CreateUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.assets.failOn["photo-2"] = true
	req := multipartRequest(t, http.MethodPost, "/api/car/create-car",
		map[string]string{"title": "Benz", "location": "Abuja"},
		map[string][]string{
			"photos": {"photo-1", "photo-2", "photo-3"},
			"videos": {"video-1"},
		})

	w := env.do(t, req, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Error uploading image", resp.Message)
	assert.Equal(t, 0, env.cars.len())
}

func TestCarHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("requires auth", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/car/create-car", map[string]string{"title": "x", "location": "y"}, nil)
		w := env.do(t, req, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, http.StatusUnauthorized, decode[models.ErrorResponse](t, w).StatusCode)
	})

	t.Run("too many photos", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/car/create-car",
			map[string]string{"title": "x", "location": "y"},
			map[string][]string{"photos": {"1", "2", "3", "4", "5", "6"}})
		w := env.do(t, req, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "You can upload at most 5 photos", decode[models.ErrorResponse](t, w).Message)
	})

	t.Run("bad number", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/car/create-car",
			map[string]string{"title": "x", "location": "y", "rentalPrice": "cheap"}, nil)
		w := env.do(t, req, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/car/create-car", map[string]string{"location": "y"}, nil)
		w := env.do(t, req, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Equal(t, 0, env.cars.len())
	assert.Equal(t, 0, env.assets.puts)
}

func TestCarHandler_ListPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 25; i++ {
		env.seedCar(t, models.Car{ListingBase: models.ListingBase{Title: fmt.Sprintf("car-%02d", i), Location: "Lagos"}})
	}

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/cars?limit=10&page=2", nil), false)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[carsResponse](t, w)
	assert.True(t, resp.Success)
	require.Len(t, resp.Cars, 10)
	assert.Equal(t, "car-14", resp.Cars[0].Title)
	assert.Equal(t, "car-05", resp.Cars[9].Title)
	assert.Equal(t, query.Pagination{TotalItems: 25, TotalPages: 3, CurrentPage: 2, Limit: 10, ItemRange: "11-20"}, resp.Pagination)
}

func TestCarHandler_ListAmenities(t *testing.T) {
	env := newTestEnv(t)
	for i, amenities := range [][]string{{"wifi"}, {"wifi", "gps"}, {"gps", "bluetooth", "wifi"}, {"gps"}} {
		env.seedCar(t, models.Car{
			ListingBase:         models.ListingBase{Title: fmt.Sprintf("car-%d", i)},
			AdditionalAmenities: amenities,
		})
	}

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/cars?additionalAmenities=wifi,gps", nil), false)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[carsResponse](t, w)
	require.Len(t, resp.Cars, 2)
	for _, c := range resp.Cars {
		assert.Contains(t, c.AdditionalAmenities, "wifi")
		assert.Contains(t, c.AdditionalAmenities, "gps")
	}
	assert.Equal(t, int64(2), resp.Pagination.TotalItems)
}

func TestCarHandler_ListEmpty(t *testing.T) {
	t.Run("not found by default", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/cars?location=Nowhere", nil), false)
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decode[models.ErrorResponse](t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "No cars found", resp.Message)
	})

	t.Run("empty list when policy allows", func(t *testing.T) {
		env := newTestEnv(t, func(s *ListingServices) { s.Policy.EmptyAsNotFound = false })
		w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/cars", nil), false)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[carsResponse](t, w)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Cars)
		assert.NotNil(t, resp.Cars)
	})
}

func TestCarHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	car := env.seedCar(t, models.Car{ListingBase: models.ListingBase{Title: "Lexus"}})
	path := "/api/car/car/" + car.ID.Hex()

	w := env.do(t, httptest.NewRequest(http.MethodGet, path, nil), false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lexus", decode[carResponse](t, w).Car.Title)
	assert.True(t, env.cache.has(cache.Key(models.KindCar, car.ID.Hex())))

	w = env.do(t, httptest.NewRequest(http.MethodGet, path, nil), false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.cache.hits)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/car/not-an-id", nil), false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/car/"+primitive.NewObjectID().Hex(), nil), false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Car not found", decode[models.ErrorResponse](t, w).Message)
}

func TestCarHandler_EditLegacyDropsFalsy(t *testing.T) {
	env := newTestEnv(t)
	car := env.seedCar(t, models.Car{
		ListingBase: models.ListingBase{Title: "Camry", IsVerified: true},
		RentalPrice: 200,
		Color:       "black",
	})
	path := "/api/car/edit-car/" + car.ID.Hex()

	w := env.do(t, jsonRequest(t, http.MethodPut, path, map[string]any{
		"rentalPrice": 0,
		"color":       "blue",
		"title":       "",
		"isVerified":  false,
	}), true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[carResponse](t, w)
	assert.Equal(t, 200.0, resp.Car.RentalPrice)
	assert.Equal(t, "blue", resp.Car.Color)
	assert.Equal(t, "Camry", resp.Car.Title)
	assert.False(t, resp.Car.IsVerified)
}

func TestCarHandler_EditPresenceMode(t *testing.T) {
	env := newTestEnv(t, func(s *ListingServices) { s.PatchMode = models.PatchPresence })
	car := env.seedCar(t, models.Car{ListingBase: models.ListingBase{Title: "Camry"}, RentalPrice: 200})

	w := env.do(t, jsonRequest(t, http.MethodPut, "/api/car/edit-car/"+car.ID.Hex(), map[string]any{"rentalPrice": 0}), true)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[carResponse](t, w)
	assert.Equal(t, 0.0, resp.Car.RentalPrice)
	assert.Equal(t, "Camry", resp.Car.Title)
}

func TestCarHandler_EditReplacesMedia(t *testing.T) {
	env := newTestEnv(t)
	car := env.seedCar(t, models.Car{
		ListingBase: models.ListingBase{
			Title:  "Camry",
			Photos: models.NewMedia("https://assets.test/image/old-1", "https://assets.test/image/old-2"),
			Videos: models.NewMedia("https://assets.test/video/old-v"),
		},
	})
	key := cache.Key(models.KindCar, car.ID.Hex())
	require.NoError(t, env.cache.Set(context.Background(), key, car))

	req := multipartRequest(t, http.MethodPut, "/api/car/edit-car/"+car.ID.Hex(),
		map[string]string{"color": "red"},
		map[string][]string{"photos": {"new-1"}})
	w := env.do(t, req, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env.uploader.Wait()

	resp := decode[carResponse](t, w)
	require.Len(t, resp.Car.Photos, 1)
	assert.Equal(t, "https://assets.test/image/new-1", resp.Car.Photos[0].URL)
	require.Len(t, resp.Car.Videos, 1)
	assert.Equal(t, "https://assets.test/video/old-v", resp.Car.Videos[0].URL)
	assert.Equal(t, "red", resp.Car.Color)
	assert.ElementsMatch(t, []string{"https://assets.test/image/old-1", "https://assets.test/image/old-2"}, env.assets.removedURLs())
	assert.False(t, env.cache.has(key))
}

func TestCarHandler_EditUploadFailureKeepsListing(t *testing.T) {
	env := newTestEnv(t)
	car := env.seedCar(t, models.Car{ListingBase: models.ListingBase{
		Title:  "Camry",
		Photos: models.NewMedia("https://assets.test/image/old-1"),
	}})
	env.assets.failOn["new-1"] = true

	req := multipartRequest(t, http.MethodPut, "/api/car/edit-car/"+car.ID.Hex(),
		map[string]string{"color": "red"},
		map[string][]string{"photos": {"new-1"}})
	w := env.do(t, req, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env.uploader.Wait()

	stored, err := env.cars.FindByID(context.Background(), car.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "https://assets.test/image/old-1", stored.Photos[0].URL)
	assert.Empty(t, stored.Color)
	assert.Empty(t, env.assets.removedURLs())
}

func TestCarHandler_EditNotFound(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, jsonRequest(t, http.MethodPut, "/api/car/edit-car/"+primitive.NewObjectID().Hex(), map[string]any{"color": "red"}), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCarHandler_DeleteWithCleanupFailure(t *testing.T) {
	env := newTestEnv(t)
	env.assets.removeErr = fmt.Errorf("asset store down")
	car := env.seedCar(t, models.Car{ListingBase: models.ListingBase{
		Title:  "Camry",
		Photos: models.NewMedia("https://assets.test/image/p1"),
		Videos: models.NewMedia("https://assets.test/video/v1"),
	}})

	w := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/car/remove-car/"+car.ID.Hex(), nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[carResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Car deleted successfully", resp.Message)
	env.uploader.Wait()
	assert.ElementsMatch(t, []string{"https://assets.test/image/p1", "https://assets.test/video/v1"}, env.assets.removedURLs())

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/car/"+car.ID.Hex(), nil), false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/car/cars", nil), false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/car/remove-car/"+car.ID.Hex(), nil), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDecorHandler(t *testing.T) {
	env := newTestEnv(t)

	req := multipartRequest(t, http.MethodPost, "/api/decor/create-decorations",
		map[string]string{"title": "Garden", "location": "Ibadan", "typeOfDecoration": "floral", "owner": "Bisi"},
		map[string][]string{"photos": {"decor-1"}})
	w := env.do(t, req, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool              `json:"success"`
		Decor   models.Decoration `json:"decor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Bisi", created.Decor.Owner)
	assert.False(t, created.Decor.IsVerified)
	id := created.Decor.ID.Hex()

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/decor/decorations-lists?typeOfDecoration=floral", nil), false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"decors":[`))

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/decor/decorations-lists?typeOfDecoration=balloons", nil), false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No decoration list found", decode[models.ErrorResponse](t, w).Message)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/decor/decorations-lists?location=Ibadan&color=red", nil), false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"totalItems":1`)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/decor/decoration/"+id, nil), false)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, jsonRequest(t, http.MethodPut, "/api/decor/edit-decorations/"+id, map[string]any{"title": "x"}), true)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	errResp := decode[models.ErrorResponse](t, w)
	assert.False(t, errResp.Success)
	assert.Equal(t, http.StatusNotImplemented, errResp.StatusCode)

	w = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/decor/remove-decorations/"+id, nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Decoration deleted successfully")
	env.uploader.Wait()
	assert.Equal(t, []string{"https://assets.test/image/decor-1"}, env.assets.removedURLs())
	assert.Equal(t, 0, env.decors.len())
}

func TestRouter_Basics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), false)
	assert.Equal(t, "server start", w.Body.String())

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), false)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/nothing", nil), false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/car/cars", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w = env.do(t, req, false)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
