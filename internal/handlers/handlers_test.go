package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/middleware"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// listingStore keeps food listings in memory. Books are never stored.
type listingStore struct {
	mu      sync.Mutex
	foods   map[uuid.UUID]*models.FoodListing
	listErr error
}

func newListingStore() *listingStore {
	return &listingStore{foods: map[uuid.UUID]*models.FoodListing{}}
}

func (s *listingStore) CreateFood(ctx context.Context, f *models.FoodListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.foods[f.ID] = &cp
	return nil
}

func (s *listingStore) GetFood(ctx context.Context, id uuid.UUID) (*models.FoodListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.foods[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *listingStore) UpdateFood(ctx context.Context, f *models.FoodListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[f.ID]; !ok {
		return models.ErrRecordNotFound
	}
	cp := *f
	s.foods[f.ID] = &cp
	return nil
}

func (s *listingStore) DeleteFood(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(s.foods, id)
	return nil
}

func (s *listingStore) ListFood(ctx context.Context, filter models.FoodFilter) ([]*models.FoodListing, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.FoodListing
	for _, f := range s.foods {
		if f.Status == filter.Status || (filter.Status == "" && f.Status == models.ResourceAvailable) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *listingStore) ListFoodByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.FoodListing, error) {
	return nil, nil
}

func (s *listingStore) ListFoodMessagedBy(ctx context.Context, userID uuid.UUID) ([]*models.FoodListing, error) {
	return nil, nil
}

func (s *listingStore) CreateBook(ctx context.Context, b *models.BookListing) error { return nil }

func (s *listingStore) GetBook(ctx context.Context, id uuid.UUID) (*models.BookListing, error) {
	return nil, models.ErrRecordNotFound
}

func (s *listingStore) UpdateBook(ctx context.Context, b *models.BookListing) error {
	return models.ErrRecordNotFound
}

func (s *listingStore) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return models.ErrRecordNotFound
}

func (s *listingStore) ListBooks(ctx context.Context, filter models.BookFilter) ([]*models.BookListing, error) {
	return nil, nil
}

func (s *listingStore) CancelActiveReservations(ctx context.Context, ref models.ResourceRef) (int64, error) {
	return 0, nil
}

func (s *listingStore) seed(owner uuid.UUID, title string) *models.FoodListing {
	f := &models.FoodListing{
		ID:         uuid.New(),
		ProviderID: owner,
		Title:      title,
		Status:     models.ResourceAvailable,
	}
	s.foods[f.ID] = f
	return f
}

// asUser stands in for the auth middleware.
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != uuid.Nil {
			c.Set(helpers.ClaimsKey, &helpers.EnhancedClaims{UserID: id, CustomClaims: &helpers.CustomClaims{}})
		}
		c.Next()
	}
}

func newCatalogRouter(store *listingStore, caller uuid.UUID) *gin.Engine {
	cs := services.NewCatalogService(store, store, store)
	r := gin.New()
	r.Use(middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(asUser(caller))
	r.GET("/food_listings", ListFood(cs))
	r.POST("/food_listings", CreateFood(cs))
	r.GET("/food_listings/:id", GetFood(cs))
	r.PUT("/food_listings/:id", UpdateFood(cs))
	r.DELETE("/food_listings/:id", DeleteFood(cs))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListFood_EmptyIsArray(t *testing.T) {
	r := newCatalogRouter(newListingStore(), uuid.Nil)

	w := do(r, http.MethodGet, "/food_listings", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"food_listings":[]}`, w.Body.String())
}

func TestListFood_QueryValidation(t *testing.T) {
	r := newCatalogRouter(newListingStore(), uuid.Nil)

	tests := []struct {
		name  string
		query string
	}{
		{"negative max distance", "?max_distance=-1"},
		{"non numeric latitude", "?latitude=north"},
		{"non integer expiration days", "?min_expiration_days=soon"},
		{"nan max distance", "?max_distance=NaN"},
		{"infinite latitude", "?latitude=Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/food_listings"+tt.query, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation_error", decodeBody(t, w)["code"])
		})
	}
}

func TestListFood_StoreFailureIsGeneric(t *testing.T) {
	store := newListingStore()
	store.listErr = errors.New("pq: relation \"food_listings\" does not exist")
	r := newCatalogRouter(store, uuid.Nil)

	w := do(r, http.MethodGet, "/food_listings", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, "internal_error", body["code"])
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestCreateFood(t *testing.T) {
	t.Run("requires a user", func(t *testing.T) {
		r := newCatalogRouter(newListingStore(), uuid.Nil)

		w := do(r, http.MethodPost, "/food_listings", `{"title":"Bagels"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("creates for the caller", func(t *testing.T) {
		owner := uuid.New()
		r := newCatalogRouter(newListingStore(), owner)

		w := do(r, http.MethodPost, "/food_listings", `{"title":"Bagels","quantity":12}`)

		require.Equal(t, http.StatusCreated, w.Code)
		food := decodeBody(t, w)["food"].(map[string]any)
		assert.Equal(t, "Bagels", food["title"])
		assert.Equal(t, owner.String(), food["provider_id"])
		assert.Equal(t, "available", food["status"])
	})

	t.Run("missing title", func(t *testing.T) {
		r := newCatalogRouter(newListingStore(), uuid.New())

		w := do(r, http.MethodPost, "/food_listings", `{"quantity":1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := newCatalogRouter(newListingStore(), uuid.New())

		w := do(r, http.MethodPost, "/food_listings", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeBody(t, w)["error"])
	})
}

func TestGetFood(t *testing.T) {
	store := newListingStore()
	food := store.seed(uuid.New(), "Soup")
	r := newCatalogRouter(store, uuid.Nil)

	w := do(r, http.MethodGet, "/food_listings/"+food.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Soup", decodeBody(t, w)["food"].(map[string]any)["title"])

	w = do(r, http.MethodGet, "/food_listings/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeBody(t, w)["code"])

	w = do(r, http.MethodGet, "/food_listings/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFood_OwnershipBeforeValidation(t *testing.T) {
	store := newListingStore()
	owner := uuid.New()
	food := store.seed(owner, "Soup")
	path := "/food_listings/" + food.ID.String()

	stranger := newCatalogRouter(store, uuid.New())
	for _, body := range []string{`{"title":""}`, `{"title":5}`, `not json`, `{"pickup_latitude":"x"}`} {
		w := do(stranger, http.MethodPut, path, body)
		assert.Equal(t, http.StatusForbidden, w.Code, body)
	}
	assert.Equal(t, "Soup", store.foods[food.ID].Title)

	w := do(newCatalogRouter(store, owner), http.MethodPut, path, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(newCatalogRouter(store, owner), http.MethodPut, path, `{"title":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, w)["error"])

	w = do(newCatalogRouter(store, owner), http.MethodPut, path, `{"title":"Lentil soup"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lentil soup", decodeBody(t, w)["food"].(map[string]any)["title"])
}

func TestDeleteFood(t *testing.T) {
	store := newListingStore()
	owner := uuid.New()
	food := store.seed(owner, "Soup")
	path := "/food_listings/" + food.ID.String()

	w := do(newCatalogRouter(store, uuid.New()), http.MethodDelete, path, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(newCatalogRouter(store, owner), http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(newCatalogRouter(store, owner), http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatList_OtherUsersListIsForbidden(t *testing.T) {
	caller := uuid.New()
	cs := services.NewConversationService(nil, nil, nil)
	r := gin.New()
	r.Use(asUser(caller))
	r.GET("/chat-list/:userId", ChatList(cs))

	w := do(r, http.MethodGet, "/chat-list/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeBody(t, w)["code"])
}

func TestResourceParam(t *testing.T) {
	r := gin.New()
	r.GET("/resources/:type/:id", func(c *gin.Context) {
		ref, ok := resourceParam(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": ref.Type, "id": ref.ID})
	})

	id := uuid.New()
	w := do(r, http.MethodGet, "/resources/book/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "book", decodeBody(t, w)["type"])

	w = do(r, http.MethodGet, "/resources/furniture/"+id.String(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/resources/food/123", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/up", Health(pingerFunc(func(context.Context) error { return nil })))
	r.GET("/down", Health(pingerFunc(func(context.Context) error { return errors.New("refused") })))

	w := do(r, http.MethodGet, "/up", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])

	w = do(r, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
