// Package media uploads listing photos and videos to an asset store and
// removes replaced or orphaned assets.
package media

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/models"
	"golang.org/x/sync/errgroup"
)

// Store is a remote or local asset store.
type Store interface {
	// Put stores data and returns its durable public url.
	Put(ctx context.Context, data []byte, kind models.MediaKind) (string, error)
	// Remove deletes the asset behind url.
	Remove(ctx context.Context, url string) error
}

// File is one in-memory upload.
type File struct {
	Data []byte
	Kind models.MediaKind
}

// Recorder receives upload and cleanup outcomes.
type Recorder interface {
	ObserveUpload(kind models.MediaKind, err error)
	ObserveCleanupFailure()
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpload(models.MediaKind, error) {}
func (nopRecorder) ObserveCleanupFailure()                {}

// Uploader fans uploads out to a Store and schedules cleanup.
type Uploader struct {
	store          Store
	logger         logrus.FieldLogger
	recorder       Recorder
	cleanupTimeout time.Duration
	wg             sync.WaitGroup
}

func NewUploader(store Store, logger logrus.FieldLogger, recorder Recorder, cleanupTimeout time.Duration) *Uploader {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}
	return &Uploader{
		store:          store,
		logger:         logger,
		recorder:       recorder,
		cleanupTimeout: cleanupTimeout,
	}
}

// Upload stores every file concurrently. Results keep the input order.
// If any upload fails the whole batch fails and no urls are returned.
func (u *Uploader) Upload(ctx context.Context, files []File) ([]models.Media, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			url, err := u.store.Put(gctx, f.Data, f.Kind)
			u.recorder.ObserveUpload(f.Kind, err)
			if err != nil {
				u.logger.WithError(err).WithField("kind", f.Kind).Error("Error uploading media")
				return apperr.Upload(fmt.Sprintf("Error uploading %s", f.Kind), err)
			}
			if url == "" {
				return apperr.Upload(fmt.Sprintf("Error uploading %s", f.Kind), fmt.Errorf("store returned empty url"))
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models.NewMedia(urls...), nil
}

// UploadListingMedia uploads photos then videos as a single batch.
func (u *Uploader) UploadListingMedia(ctx context.Context, photos, videos [][]byte) (photoMedia, videoMedia []models.Media, err error) {
	files := make([]File, 0, len(photos)+len(videos))
	for _, p := range photos {
		files = append(files, File{Data: p, Kind: models.MediaImage})
	}
	for _, v := range videos {
		files = append(files, File{Data: v, Kind: models.MediaVideo})
	}

	media, err := u.Upload(ctx, files)
	if err != nil {
		return nil, nil, err
	}
	if len(media) == 0 {
		return []models.Media{}, []models.Media{}, nil
	}
	return media[:len(photos)], media[len(photos):], nil
}

// Cleanup removes urls in the background. Failures are logged only.
func (u *Uploader) Cleanup(urls ...string) {
	if len(urls) == 0 {
		return
	}
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), u.cleanupTimeout)
		defer cancel()

		for _, url := range urls {
			if err := u.store.Remove(ctx, url); err != nil {
				u.recorder.ObserveCleanupFailure()
				u.logger.WithError(err).WithField("url", url).Error("Error deleting media")
				continue
			}
			u.logger.WithField("url", url).Debug("Media deleted")
		}
	}()
}

// Wait blocks until scheduled cleanups finish.
func (u *Uploader) Wait() {
	u.wg.Wait()
}
