package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/db"
	"github.com/ukydev/rental-market/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memListings is an in-memory ListingStore that evaluates filters the way
// the Mongo queries do: exact match per key and $all for list fields.
type memListings[T any, PT db.ListingDocument[T]] struct {
	mu    sync.Mutex
	noun  string
	docs  []bson.M
	clock time.Time
}

func newMemListings[T any, PT db.ListingDocument[T]](noun string) *memListings[T, PT] {
	return &memListings[T, PT]{noun: noun, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *memListings[T, PT]) Create(ctx context.Context, listing *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	base := PT(listing).Base()
	base.ID = primitive.NewObjectID()
	base.CreatedAt = s.clock
	base.UpdatedAt = s.clock

	doc, err := toDoc(listing)
	if err != nil {
		return err
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *memListings[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	return fromDoc[T](s.docs[i])
}

func (s *memListings[T, PT]) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := s.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i]["createdAt"].(primitive.DateTime) > matched[j]["createdAt"].(primitive.DateTime)
	})

	out := make([]T, 0)
	for i := skip; i < int64(len(matched)) && i < skip+limit; i++ {
		item, err := fromDoc[T](matched[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

func (s *memListings[T, PT]) Count(ctx context.Context, filter bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(filter))), nil
}

func (s *memListings[T, PT]) Update(ctx context.Context, id string, set bson.M) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return nil, err
	}
	patch, err := toDoc(set)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if k != "_id" && k != "createdAt" {
			s.docs[i][k] = v
		}
	}
	return fromDoc[T](s.docs[i])
}

func (s *memListings[T, PT]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return nil
}

func (s *memListings[T, PT]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *memListings[T, PT]) index(id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1, apperr.Validation("Invalid " + strings.ToLower(s.noun) + " id")
	}
	for i, d := range s.docs {
		if d["_id"] == oid {
			return i, nil
		}
	}
	return -1, apperr.NotFound(s.noun + " not found")
}

func (s *memListings[T, PT]) matching(filter bson.M) []bson.M {
	var out []bson.M
	for _, d := range s.docs {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	return out
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if op, ok := want.(bson.M); ok {
			all, _ := op["$all"].([]string)
			have, _ := doc[k].(bson.A)
			for _, w := range all {
				if !containsValue(have, w) {
					return false
				}
			}
			continue
		}
		if doc[k] != want {
			return false
		}
	}
	return true
}

func containsValue(arr bson.A, v string) bool {
	for _, a := range arr {
		if a == v {
			return true
		}
	}
	return false
}

func toDoc(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	return doc, bson.Unmarshal(data, &doc)
}

func fromDoc[T any](doc bson.M) (*T, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// memUsers is an in-memory user store with a unique email.
type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]models.User{}} }

func (s *memUsers) InsertUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return apperr.Conflict("User already exists")
	}
	s.users[user.Email] = user
	return nil
}

func (s *memUsers) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

func (s *memUsers) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// assetStore fails puts whose data is listed in failOn.
type assetStore struct {
	mu        sync.Mutex
	failOn    map[string]bool
	removeErr error
	puts      int
	removed   []string
}

func (s *assetStore) Put(ctx context.Context, data []byte, kind models.MediaKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failOn[string(data)] {
		return "", errors.New("asset store unavailable")
	}
	return fmt.Sprintf("https://assets.test/%s/%s", kind, data), nil
}

func (s *assetStore) Remove(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, url)
	return s.removeErr
}

func (s *assetStore) removedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

// mapCache is a Cache backed by a map of JSON values.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.NewDecoder(bytes.NewReader(raw)).Decode(dst)
}

func (c *mapCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *mapCache) Close() error { return nil }

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
