package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/neomind180-byte/neomind180-sub000/internal/middleware"
	"github.com/neomind180-byte/neomind180-sub000/internal/navigation"
	librarysupabase "github.com/neomind180-byte/neomind180-sub000/services/library/supabase"
)

type mockRepo struct {
	items   []librarysupabase.LibraryItem
	listErr error
	lastCat string
}

func (m *mockRepo) List(_ context.Context) ([]librarysupabase.LibraryItem, error) {
	return m.items, m.listErr
}

func (m *mockRepo) ListByCategory(_ context.Context, category string) ([]librarysupabase.LibraryItem, error) {
	m.lastCat = category
	var out []librarysupabase.LibraryItem
	for _, it := range m.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, m.listErr
}

type fixedTier navigation.Tier

func (f fixedTier) TierFor(_ context.Context, _ string) navigation.Tier {
	return navigation.Tier(f)
}

func catalog() []librarysupabase.LibraryItem {
	return []librarysupabase.LibraryItem{
		{ID: "a", Title: "Grounding basics", Type: librarysupabase.TypeGuide, Category: "anxiety", MinTier: 0},
		{ID: "b", Title: "Deep dive workshop", Type: librarysupabase.TypeVideo, Category: "anxiety", MinTier: 1},
		{ID: "c", Title: "Coach worksheets", Type: librarysupabase.TypeWorksheet, Category: "growth", MinTier: 2},
	}
}

func TestVisibleLocksAboveTier(t *testing.T) {
	got := Visible(catalog(), navigation.TierFree)
	if len(got) != 3 {
		t.Fatalf("locked items must stay listed, got %d", len(got))
	}
	if got[0].Locked || !got[1].Locked || !got[2].Locked {
		t.Fatalf("free tier locks wrong: %v %v %v", got[0].Locked, got[1].Locked, got[2].Locked)
	}

	got = Visible(catalog(), navigation.Tier2)
	if got[1].Locked || !got[2].Locked {
		t.Fatalf("tier2 locks wrong: %v %v", got[1].Locked, got[2].Locked)
	}

	for _, it := range Visible(catalog(), navigation.Tier3) {
		if it.Locked {
			t.Fatalf("tier3 should unlock everything, %s locked", it.ID)
		}
	}
}

func TestListAnonymousBrowsesAtFreeTier(t *testing.T) {
	svc, err := New(&mockRepo{items: catalog()}, fixedTier(navigation.Tier3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := mux.NewRouter()
	svc.Routes(r)

	// No session: the resolver must not be consulted.
	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}

	var out struct {
		Data []VisibleItem `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Data[2].Locked {
		t.Fatalf("anonymous caller must browse at free tier: %+v", out.Data[2])
	}
}

func TestListUsesResolvedTierAndCategoryFilter(t *testing.T) {
	repo := &mockRepo{items: catalog()}
	svc, err := New(repo, fixedTier(navigation.Tier2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := mux.NewRouter()
	svc.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/library?category=anxiety", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), "u1", "", ""))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	if repo.lastCat != "anxiety" {
		t.Fatalf("category filter not passed: %q", repo.lastCat)
	}

	var out struct {
		Data []VisibleItem `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Data) != 2 {
		t.Fatalf("items = %d, want 2 in category", len(out.Data))
	}
	for _, it := range out.Data {
		if it.Locked {
			t.Fatalf("tier2 should unlock minTier<=1 items: %+v", it)
		}
	}
}

func TestListRepositoryFailure(t *testing.T) {
	svc, err := New(&mockRepo{listErr: errors.New("down")}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := mux.NewRouter()
	svc.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.Code)
	}
}
