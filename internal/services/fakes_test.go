package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/joshua-takyi/foodshare/internal/models"
)

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// memStore is an in-memory stand-in for the Postgres repository.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	foods        map[uuid.UUID]*models.FoodListing
	books        map[uuid.UUID]*models.BookListing
	reservations map[uuid.UUID]*models.Reservation
	ratings      []*models.Rating
	messages     []*models.Message
	images       map[uuid.UUID]*models.Image
	roles        map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]*models.User{},
		foods:        map[uuid.UUID]*models.FoodListing{},
		books:        map[uuid.UUID]*models.BookListing{},
		reservations: map[uuid.UUID]*models.Reservation{},
		images:       map[uuid.UUID]*models.Image{},
		roles:        map[string]int{"undergrad": 1, "master": 2, "phd": 3, "employee": 4, "professor": 5},
	}
}

func (s *memStore) addUser(first, last string) *models.User {
	u := &models.User{ID: uuid.New(), Email: first + "@emory.edu", FirstName: first, LastName: last}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addFood(owner uuid.UUID, title string) *models.FoodListing {
	f := &models.FoodListing{ID: uuid.New(), ProviderID: owner, Title: title, Status: models.ResourceAvailable}
	s.foods[f.ID] = f
	return f
}

// food

func (s *memStore) CreateFood(ctx context.Context, f *models.FoodListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	if u, ok := s.users[f.ProviderID]; ok {
		cp.Provider = u.Summary()
	}
	s.foods[f.ID] = &cp
	return nil
}

func (s *memStore) GetFood(ctx context.Context, id uuid.UUID) (*models.FoodListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.foods[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *memStore) UpdateFood(ctx context.Context, f *models.FoodListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[f.ID]; !ok {
		return models.ErrRecordNotFound
	}
	cp := *f
	s.foods[f.ID] = &cp
	return nil
}

func (s *memStore) DeleteFood(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(s.foods, id)
	return nil
}

func (s *memStore) ListFood(ctx context.Context, filter models.FoodFilter) ([]*models.FoodListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := filter.Status
	if status == "" {
		status = models.ResourceAvailable
	}
	var out []*models.FoodListing
	for _, f := range s.foods {
		if f.Status != status {
			continue
		}
		if filter.ExpiresAfter != nil && (f.ExpirationDate == nil || f.ExpirationDate.Before(*filter.ExpiresAfter)) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ListFoodByProvider(ctx context.Context, providerID uuid.UUID) ([]*models.FoodListing, error) {
	var out []*models.FoodListing
	for _, f := range s.foods {
		if f.ProviderID == providerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memStore) ListFoodMessagedBy(ctx context.Context, userID uuid.UUID) ([]*models.FoodListing, error) {
	seen := map[uuid.UUID]bool{}
	var out []*models.FoodListing
	for _, m := range s.messages {
		if m.SenderID == userID && m.FoodID != nil && !seen[*m.FoodID] {
			seen[*m.FoodID] = true
			if f, ok := s.foods[*m.FoodID]; ok {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// books

func (s *memStore) CreateBook(ctx context.Context, b *models.BookListing) error {
	cp := *b
	s.books[b.ID] = &cp
	return nil
}

func (s *memStore) GetBook(ctx context.Context, id uuid.UUID) (*models.BookListing, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) UpdateBook(ctx context.Context, b *models.BookListing) error {
	if _, ok := s.books[b.ID]; !ok {
		return models.ErrRecordNotFound
	}
	cp := *b
	s.books[b.ID] = &cp
	return nil
}

func (s *memStore) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.books[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *memStore) ListBooks(ctx context.Context, filter models.BookFilter) ([]*models.BookListing, error) {
	var out []*models.BookListing
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, nil
}

// reservations

func (s *memStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reservations {
		active := existing.Status == models.ReservationPending || existing.Status == models.ReservationConfirmed
		if active && existing.ResourceRef == r.ResourceRef {
			return models.NewConflictError("this resource already has an active reservation")
		}
	}
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *memStore) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	r, ok := s.reservations[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) TransitionReservation(ctx context.Context, id uuid.UUID, from, to models.ReservationStatus, resourceStatus models.ResourceStatus) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok || r.Status != from {
		return nil, models.NewConflictError("reservation status changed, please retry")
	}
	if resourceStatus != "" {
		switch r.Type {
		case models.ResourceFood:
			f, ok := s.foods[r.ResourceRef.ID]
			if !ok {
				return nil, models.ErrRecordNotFound
			}
			f.Status = resourceStatus
		case models.ResourceBook:
			b, ok := s.books[r.ResourceRef.ID]
			if !ok {
				return nil, models.ErrRecordNotFound
			}
			b.Status = resourceStatus
		}
	}
	r.Status = to
	cp := *r
	return &cp, nil
}

func (s *memStore) CancelActiveReservations(ctx context.Context, ref models.ResourceRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.reservations {
		active := r.Status == models.ReservationPending || r.Status == models.ReservationConfirmed
		if active && r.ResourceRef == ref {
			r.Status = models.ReservationCancelled
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListReservationsByRequester(ctx context.Context, requesterID uuid.UUID) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for _, r := range s.reservations {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ratings

func (s *memStore) CreateRating(ctx context.Context, r *models.Rating) error {
	for _, existing := range s.ratings {
		if existing.GiverID == r.GiverID && existing.ReceiverID == r.ReceiverID && existing.ResourceRef == r.ResourceRef {
			return models.NewConflictError("you have already rated this user for this resource")
		}
	}
	s.ratings = append(s.ratings, r)
	return nil
}

func (s *memStore) RatingExists(ctx context.Context, giverID, receiverID uuid.UUID, ref models.ResourceRef) (bool, error) {
	for _, r := range s.ratings {
		if r.GiverID == giverID && r.ReceiverID == receiverID && r.ResourceRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListScoresForReceiver(ctx context.Context, receiverID uuid.UUID) ([]int, error) {
	var scores []int
	for _, r := range s.ratings {
		if r.ReceiverID == receiverID {
			scores = append(scores, r.Score)
		}
	}
	return scores, nil
}

// chats

func (s *memStore) CreateMessage(ctx context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *memStore) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	for _, m := range s.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func between(m *models.Message, a, b uuid.UUID) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (s *memStore) ListConversation(ctx context.Context, a, b uuid.UUID) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range s.messages {
		if between(m, a, b) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *memStore) ListFoodThread(ctx context.Context, userID, foodID uuid.UUID) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range s.messages {
		if m.FoodID != nil && *m.FoodID == foodID && (m.SenderID == userID || m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) ListMessagesForUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *memStore) MarkMessageRead(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			if m.IsRead {
				return false, nil
			}
			m.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// users

func (s *memStore) CreateUser(ctx context.Context, u *models.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.ErrEmailTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func (s *memStore) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := map[uuid.UUID]*models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *memStore) UpdateUser(ctx context.Context, u *models.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return models.ErrRecordNotFound
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) RoleIDByName(ctx context.Context, name string) (*int, error) {
	id, ok := s.roles[name]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &id, nil
}

// images

func (s *memStore) CreateImage(ctx context.Context, img *models.Image) error {
	cp := *img
	s.images[img.ID] = &cp
	return nil
}

func (s *memStore) GetImage(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return img, nil
}

func (s *memStore) ListImages(ctx context.Context, ref models.ResourceRef) ([]*models.Image, error) {
	var out []*models.Image
	for _, img := range s.images {
		if img.ResourceRef == ref {
			out = append(out, img)
		}
	}
	return out, nil
}

func (s *memStore) DeleteImage(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.images[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(s.images, id)
	return nil
}

// mockAuth stands in for the Supabase auth API.
type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (*models.AuthSession, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*models.AuthSession)
	return session, args.Error(1)
}

func (m *mockAuth) Refresh(ctx context.Context, refreshToken string) (*models.AuthSession, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*models.AuthSession)
	return session, args.Error(1)
}

func (m *mockAuth) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file io.Reader, folder string, tags []string) (string, string, error) {
	args := m.Called(ctx, file, folder, tags)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockUploader) Destroy(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

// memFavourites backs saved resources in memory.
type memFavourites struct {
	saved map[uuid.UUID]map[string]models.SavedItem
	clock func() time.Time
}

func (f *memFavourites) SaveResource(ctx context.Context, userID uuid.UUID, ref models.ResourceRef) (*models.SavedResources, error) {
	if f.saved[userID] == nil {
		f.saved[userID] = map[string]models.SavedItem{}
	}
	f.saved[userID][ref.String()] = models.SavedItem{ResourceRef: ref, AddedAt: f.clock()}
	return &models.SavedResources{UserID: userID.String(), Items: f.saved[userID]}, nil
}

func (f *memFavourites) UnsaveResource(ctx context.Context, userID uuid.UUID, ref models.ResourceRef) error {
	delete(f.saved[userID], ref.String())
	return nil
}

func (f *memFavourites) GetSavedResources(ctx context.Context, userID uuid.UUID) (*models.SavedResources, error) {
	return &models.SavedResources{UserID: userID.String(), Items: f.saved[userID]}, nil
}
