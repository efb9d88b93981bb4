package auth

import (
	"context"
	"strings"
	"time"

	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence Accounts needs.
type UserStore interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Accounts implements registration and login on top of Service.
type Accounts struct {
	service *Service
	users   UserStore
}

func NewAccounts(service *Service, users UserStore) *Accounts {
	return &Accounts{service: service, users: users}
}

// Register creates a user and returns a token for it.
func (a *Accounts) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if strings.TrimSpace(req.Name) == "" || req.Email == "" || req.Password == "" {
		return "", apperr.Validation("Please provide all fields")
	}
	if err := ValidateEmail(req.Email); err != nil {
		return "", err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return "", err
	}

	existing, err := a.users.FindUserByEmail(ctx, req.Email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return "", apperr.Internal("Error occurred while registering", err)
	}
	if existing != nil {
		return "", apperr.Conflict("User already exists")
	}

	hash, err := a.service.HashPassword(req.Password)
	if err != nil {
		return "", apperr.Internal("Error occurred while registering", err)
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  hash,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.users.InsertUser(ctx, user); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return "", err
		}
		return "", apperr.Internal("Error occurred while registering", err)
	}

	token, err := a.service.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", apperr.Internal("Error occurred while registering", err)
	}
	return token, nil
}

// Login verifies credentials and returns a fresh token.
func (a *Accounts) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return "", apperr.Validation("Please provide all fields")
	}

	user, err := a.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", apperr.NotFound("User does not exist")
		}
		return "", apperr.Internal("Error occurred while logging in", err)
	}

	if !a.service.CheckPassword(req.Password, user.Password) {
		return "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := a.service.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", apperr.Internal("Error occurred while logging in", err)
	}
	return token, nil
}
