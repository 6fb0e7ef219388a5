package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"mediadex/internal/config"
	"mediadex/internal/models"
	"mediadex/internal/services/appwrite"

	"github.com/sirupsen/logrus"
)

var equalQueryRe = regexp.MustCompile(`equal\("([^"]+)", \["([^"]+)"\]\)`)

// fakeBackend is an in-memory stand-in for the remote document store
type fakeBackend struct {
	mu           sync.Mutex
	docs         map[string]map[string]interface{}
	fail         bool
	accountID    string
	createCalls  int
	accountCalls int

	// When blockCreate is non-nil, document creation waits on it after
	// signalling createEntered
	blockCreate   chan struct{}
	createEntered chan struct{}
}

func newFakeBackend(accountID string) *fakeBackend {
	return &fakeBackend{
		docs:      make(map[string]map[string]interface{}),
		accountID: accountID,
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/account" && r.Method == http.MethodGet {
		b.mu.Lock()
		b.accountCalls++
		accountID := b.accountID
		b.mu.Unlock()

		if accountID == "" {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"$id": accountID})
		return
	}

	if !strings.HasPrefix(r.URL.Path, "/databases/db/collections/watchlist/documents") {
		http.NotFound(w, r)
		return
	}

	b.mu.Lock()
	failing := b.fail
	b.mu.Unlock()
	if failing {
		http.Error(w, `{"message":"unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		b.handleList(w, r)
	case http.MethodPost:
		b.handleCreate(w, r)
	case http.MethodDelete:
		b.handleDelete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (b *fakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []map[string]interface{}
	for _, doc := range b.docs {
		ok := true
		for _, q := range r.URL.Query()["queries[]"] {
			m := equalQueryRe.FindStringSubmatch(q)
			if m == nil {
				continue
			}
			if fmt.Sprintf("%v", doc[m[1]]) != m[2] {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":     len(matched),
		"documents": matched,
	})
}

func (b *fakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocumentID string                 `json:"documentId"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if b.createEntered != nil {
		b.createEntered <- struct{}{}
	}
	if b.blockCreate != nil {
		<-b.blockCreate
	}

	b.mu.Lock()
	b.createCalls++
	doc := body.Data
	doc["$id"] = body.DocumentID
	b.docs[body.DocumentID] = doc
	b.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (b *fakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.docs[docID]; !ok {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
		return
	}
	delete(b.docs, docID)
	w.WriteHeader(http.StatusNoContent)
}

func newTestService(t *testing.T, backend *fakeBackend, signedIn bool) *Service {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &config.Config{
		AppwriteEndpoint:   srv.URL,
		AppwriteProjectID:  "proj",
		AppwriteDatabaseID: "db",
		SessionFile:        filepath.Join(dir, "session.json"),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if signedIn {
		store, err := appwrite.NewFileSessionStore(cfg.SessionFile)
		if err != nil {
			t.Fatalf("Failed to create session store: %v", err)
		}
		err = store.SaveSession(&appwrite.Session{
			ID:        "sess_1",
			UserID:    backend.accountID,
			Secret:    "secret",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
	}

	client, err := appwrite.NewClient(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	db, err := models.NewDatabase(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewService(client, db, "watchlist", logger)
}

func darkKnight() models.MediaSummary {
	return models.MediaSummary{
		Kind:        models.KindMovie,
		ID:          155,
		Title:       "The Dark Knight",
		PosterPath:  "/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
		VoteAverage: 8.5,
		ReleaseDate: "2008-07-16",
	}
}

func TestAddCheckRemoveRoundTrip(t *testing.T) {
	backend := newFakeBackend("user_1")
	svc := newTestService(t, backend, true)
	ctx := context.Background()

	if saved := svc.CheckIsSaved(ctx, "user_1", 155); saved != nil {
		t.Fatalf("Expected unsaved before add, got %+v", saved)
	}

	entry, err := svc.Add(ctx, darkKnight())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if entry.DocumentID == "" {
		t.Fatal("Expected a store-assigned document ID")
	}
	if entry.MediaID != "155" {
		t.Errorf("Expected media ID '155', got %q", entry.MediaID)
	}
	if entry.Title != "The Dark Knight" {
		t.Errorf("Title mismatch: %q", entry.Title)
	}
	// 8.5 rounds up on the stored document
	if entry.VoteAverage != 9 {
		t.Errorf("Expected rounded vote 9, got %d", entry.VoteAverage)
	}
	if entry.ReleaseDate != "2008-07-16" {
		t.Errorf("Release date mismatch: %q", entry.ReleaseDate)
	}

	saved := svc.CheckIsSaved(ctx, "user_1", 155)
	if saved == nil {
		t.Fatal("Expected saved state after add")
	}
	if saved.DocumentID != entry.DocumentID {
		t.Errorf("Document ID mismatch: %q vs %q", saved.DocumentID, entry.DocumentID)
	}

	if err := svc.Remove(ctx, entry.DocumentID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if saved := svc.CheckIsSaved(ctx, "user_1", 155); saved != nil {
		t.Errorf("Expected unsaved after remove, got %+v", saved)
	}
}

func TestAddRequiresAuthentication(t *testing.T) {
	backend := newFakeBackend("")
	svc := newTestService(t, backend, false)

	_, err := svc.Add(context.Background(), darkKnight())
	if !errors.Is(err, models.ErrAuthRequired) {
		t.Fatalf("Expected ErrAuthRequired, got %v", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.createCalls != 0 {
		t.Errorf("Unauthenticated add reached the store %d times", backend.createCalls)
	}
}

func TestAddRejectsPerson(t *testing.T) {
	backend := newFakeBackend("user_1")
	svc := newTestService(t, backend, true)

	_, err := svc.Add(context.Background(), models.MediaSummary{Kind: models.KindPerson, ID: 3})
	if err == nil {
		t.Fatal("Expected an error for a person item")
	}
}

func TestConcurrentAddCreatesOneDocument(t *testing.T) {
	backend := newFakeBackend("user_1")
	backend.createEntered = make(chan struct{}, 2)
	backend.blockCreate = make(chan struct{})
	svc := newTestService(t, backend, true)
	ctx := context.Background()

	type result struct {
		entry *models.WatchlistEntry
		err   error
	}
	results := make(chan result, 2)

	go func() {
		entry, err := svc.Add(ctx, darkKnight())
		results <- result{entry, err}
	}()
	<-backend.createEntered

	go func() {
		entry, err := svc.Add(ctx, darkKnight())
		results <- result{entry, err}
	}()

	// Wait until the second add has resolved its account and joined the
	// in-flight guard
	deadline := time.Now().Add(2 * time.Second)
	for {
		backend.mu.Lock()
		calls := backend.accountCalls
		backend.mu.Unlock()
		if calls >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Second add never reached the backend")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	close(backend.blockCreate)

	first := <-results
	second := <-results
	if first.err != nil || second.err != nil {
		t.Fatalf("Adds failed: %v / %v", first.err, second.err)
	}
	if first.entry.DocumentID != second.entry.DocumentID {
		t.Errorf("Adds produced different documents: %q vs %q", first.entry.DocumentID, second.entry.DocumentID)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.createCalls != 1 {
		t.Errorf("Expected exactly one create, got %d", backend.createCalls)
	}
}

func TestListFallsBackToCache(t *testing.T) {
	backend := newFakeBackend("user_1")
	svc := newTestService(t, backend, true)
	ctx := context.Background()

	if _, err := svc.Add(ctx, darkKnight()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// A successful list refreshes the local snapshot
	entries := svc.List(ctx, "user_1")
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	// With the store unreachable the snapshot is served instead
	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()

	cached := svc.List(ctx, "user_1")
	if len(cached) != 1 {
		t.Fatalf("Expected cached entry, got %d", len(cached))
	}
	if cached[0].Title != "The Dark Knight" {
		t.Errorf("Cached entry mismatch: %+v", cached[0])
	}

	// No snapshot and no store: empty, never an error
	empty := svc.List(ctx, "user_2")
	if len(empty) != 0 {
		t.Errorf("Expected empty list for uncached user, got %v", empty)
	}
}

func TestCheckIsSavedSwallowsFailures(t *testing.T) {
	backend := newFakeBackend("user_1")
	backend.fail = true
	svc := newTestService(t, backend, true)

	if saved := svc.CheckIsSaved(context.Background(), "user_1", 155); saved != nil {
		t.Errorf("Failed lookup should read as unsaved, got %+v", saved)
	}
}

func TestCheckIsSavedWithoutUser(t *testing.T) {
	backend := newFakeBackend("user_1")
	svc := newTestService(t, backend, true)

	if saved := svc.CheckIsSaved(context.Background(), "", 155); saved != nil {
		t.Errorf("Empty user should read as unsaved, got %+v", saved)
	}
}

func TestToggleFlipsOnlyOnSuccess(t *testing.T) {
	backend := newFakeBackend("user_1")
	svc := newTestService(t, backend, true)
	ctx := context.Background()

	state, err := svc.Toggle(ctx, models.SavedState{}, darkKnight())
	if err != nil {
		t.Fatalf("Toggle (add) failed: %v", err)
	}
	if !state.IsSaved || state.SavedDocID == "" {
		t.Fatalf("Expected saved state, got %+v", state)
	}

	// Failure leaves the prior state intact
	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()

	unchanged, err := svc.Toggle(ctx, state, darkKnight())
	if err == nil {
		t.Fatal("Expected toggle to fail with the store down")
	}
	if unchanged != state {
		t.Errorf("Failed toggle changed state: %+v", unchanged)
	}

	backend.mu.Lock()
	backend.fail = false
	backend.mu.Unlock()

	state, err = svc.Toggle(ctx, state, darkKnight())
	if err != nil {
		t.Fatalf("Toggle (remove) failed: %v", err)
	}
	if state.IsSaved {
		t.Errorf("Expected unsaved state, got %+v", state)
	}
}
