package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ukydev/rental-market/internal/apperr"
	"github.com/ukydev/rental-market/internal/query"
)

const (
	maxPhotos       = 5
	maxVideos       = 3
	multipartMemory = 32 << 20
)

type mediaFiles struct {
	photos [][]byte
	videos [][]byte
}

func (f mediaFiles) empty() bool { return len(f.photos) == 0 && len(f.videos) == 0 }

// isJSON reports whether r carries a JSON body.
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// parseListingForm reads form fields and the photos and videos files of a
// multipart or urlencoded request.
func parseListingForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (url.Values, mediaFiles, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, mediaFiles{}, bodyError(err)
		}
		return r.PostForm, mediaFiles{}, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, mediaFiles{}, bodyError(err)
	}
	defer r.MultipartForm.RemoveAll()

	photos, err := readFiles(r.MultipartForm.File["photos"], maxPhotos, "photos")
	if err != nil {
		return nil, mediaFiles{}, err
	}
	videos, err := readFiles(r.MultipartForm.File["videos"], maxVideos, "videos")
	if err != nil {
		return nil, mediaFiles{}, err
	}
	return url.Values(r.MultipartForm.Value), mediaFiles{photos: photos, videos: videos}, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Validation("Request body too large")
	}
	return apperr.Validation("Invalid form data")
}

func readFiles(headers []*multipart.FileHeader, max int, field string) ([][]byte, error) {
	if len(headers) > max {
		return nil, apperr.Validation(fmt.Sprintf("You can upload at most %d %s", max, field))
	}
	out := make([][]byte, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, apperr.Validation("Unable to read uploaded " + field)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperr.Validation("Unable to read uploaded " + field)
		}
		if len(data) == 0 {
			return nil, apperr.Validation("Uploaded " + field + " must not be empty")
		}
		out = append(out, data)
	}
	return out, nil
}

// Form field readers return nil when the key is absent.

func formString(form url.Values, key string) *string {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	return &v
}

func formInt(form url.Values, key string) (*int, error) {
	s := formString(form, key)
	if s == nil || *s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		return nil, apperr.Validation(key + " must be a whole number")
	}
	return &n, nil
}

func formFloat(form url.Values, key string) (*float64, error) {
	s := formString(form, key)
	if s == nil || *s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil, apperr.Validation(key + " must be a number")
	}
	return &f, nil
}

// formBool coerces "true", "1" and "on" to true and anything else to false.
func formBool(form url.Values, key string) *bool {
	s := formString(form, key)
	if s == nil {
		return nil
	}
	var b bool
	switch strings.ToLower(*s) {
	case "true", "1", "on":
		b = true
	}
	return &b
}

// formList accepts repeated keys, key[] and comma separated values.
func formList(form url.Values, key string) *[]string {
	vs, ok := form[key]
	if !ok {
		vs, ok = form[key+"[]"]
	}
	if !ok {
		return nil
	}
	items := []string{}
	for _, v := range vs {
		items = append(items, query.SplitList(v)...)
	}
	return &items
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
