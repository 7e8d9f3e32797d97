// Package githubtest provides an in-process fake of the release API. It serves
// the enterprise layout ("/api/v3/" and "/api/uploads/") so that clients built
// for the host "http://127.0.0.1:port" talk to it unchanged.
package githubtest

import (
	"encoding/json"
	"fmt"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/google/go-github/v75/github"
)

// Fault tells the server to fail a call with Status. Zero means success.
type Fault struct {
	Status  int
	Message string
}

// Upload is one asset upload the server accepted
type Upload struct {
	ReleaseID     int64
	Name          string
	ContentType   string
	ContentLength int64
	Body          []byte
	Authorization string
}

// Server is a fake release API
type Server struct {
	*httptest.Server

	// OnCreateRelease is consulted for every create call; attempt starts at 1
	OnCreateRelease func(attempt int, release *github.RepositoryRelease) Fault
	// OnUpload is consulted for every upload call; attempt counts per asset name
	OnUpload func(name string, attempt int) Fault

	mu             sync.Mutex
	releases       []*github.RepositoryRelease
	uploads        []*Upload
	createAttempts int
	uploadAttempts map[string]int
	authHeaders    []string
	nextID         atomic.Int64
	inFlight       atomic.Int32
	maxInFlight    atomic.Int32

	// UploadDelay holds each upload open for a while, to observe concurrency
	UploadDelay time.Duration
}

// NewServer starts a fake server. Call Close when done.
func NewServer() *Server {
	return NewServerWithContext(context.Background())
}

// NewServerWithContext starts a fake server that logs requests with the
// logger carried by ctx
func NewServerWithContext(ctx context.Context) *Server {
	s := &Server{
		uploadAttempts: make(map[string]int),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logRequests(ctxlog.From(ctx)))
	router.Post("/api/v3/repos/{owner}/{repo}/releases", s.handleCreateRelease)
	router.Post("/api/uploads/repos/{owner}/{repo}/releases/{id}/assets", s.handleUpload)

	s.Server = httptest.NewServer(router)
	return s
}

// Host returns the value to use as host when building clients for this server
func (s *Server) Host() string {
	return s.URL
}

func (s *Server) handleCreateRelease(w http.ResponseWriter, r *http.Request) {
	var release github.RepositoryRelease
	if err := json.NewDecoder(r.Body).Decode(&release); err != nil {
		writeError(w, http.StatusBadRequest, "Problems parsing JSON")
		return
	}

	s.mu.Lock()
	s.createAttempts++
	attempt := s.createAttempts
	s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
	s.mu.Unlock()

	if s.OnCreateRelease != nil {
		if f := s.OnCreateRelease(attempt, &release); f.Status != 0 {
			writeError(w, f.Status, f.Message)
			return
		}
	}

	owner, repo := chi.URLParam(r, "owner"), chi.URLParam(r, "repo")
	id := s.nextID.Add(1)
	release.ID = github.Ptr(id)
	release.HTMLURL = github.Ptr(fmt.Sprintf("%s/%s/%s/releases/tag/%s", s.URL, owner, repo, release.GetTagName()))
	release.UploadURL = github.Ptr(fmt.Sprintf("%s/api/uploads/repos/%s/%s/releases/%d/assets{?name,label}", s.URL, owner, repo, id))
	release.CreatedAt = &github.Timestamp{Time: time.Now()}

	s.mu.Lock()
	s.releases = append(s.releases, &release)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, &release)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxInFlight.Load()
		if n <= cur || s.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	name := r.URL.Query().Get("name")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	s.mu.Lock()
	s.uploadAttempts[name]++
	attempt := s.uploadAttempts[name]
	s.mu.Unlock()

	if s.UploadDelay > 0 {
		time.Sleep(s.UploadDelay)
	}

	if s.OnUpload != nil {
		if f := s.OnUpload(name, attempt); f.Status != 0 {
			writeError(w, f.Status, f.Message)
			return
		}
	}

	releaseID, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	upload := &Upload{
		ReleaseID:     releaseID,
		Name:          name,
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.ContentLength,
		Body:          body,
		Authorization: r.Header.Get("Authorization"),
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, upload)
	s.mu.Unlock()

	id := s.nextID.Add(1)
	writeJSON(w, http.StatusCreated, &github.ReleaseAsset{
		ID:                 github.Ptr(id),
		Name:               github.Ptr(name),
		ContentType:        github.Ptr(upload.ContentType),
		Size:               github.Ptr(len(body)),
		State:              github.Ptr("uploaded"),
		BrowserDownloadURL: github.Ptr(fmt.Sprintf("%s/download/%d/%s", s.URL, releaseID, name)),
	})
}

// Releases returns the releases created so far
func (s *Server) Releases() []*github.RepositoryRelease {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*github.RepositoryRelease(nil), s.releases...)
}

// Uploads returns the accepted uploads
func (s *Server) Uploads() []*Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Upload(nil), s.uploads...)
}

// CreateAttempts returns how many create calls were received
func (s *Server) CreateAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createAttempts
}

// UploadAttempts returns how many upload calls were received for name
func (s *Server) UploadAttempts(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadAttempts[name]
}

// TotalUploadAttempts returns the number of upload calls for all names
func (s *Server) TotalUploadAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.uploadAttempts {
		total += n
	}
	return total
}

// AuthHeaders returns the Authorization headers of create calls
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

// MaxConcurrentUploads returns the highest number of uploads seen in flight at once
func (s *Server) MaxConcurrentUploads() int {
	return int(s.maxInFlight.Load())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{
		"message": message,
	})
}
