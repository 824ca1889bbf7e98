package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/foodshare/internal/models"
)

func TestFavouriteService(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser("ada", "lovelace")
	user := store.addUser("alan", "turing")
	first := store.addFood(owner.ID, "Bagels")
	second := store.addFood(owner.ID, "Soup")

	clock := tickingClock()
	favs := &memFavourites{saved: map[uuid.UUID]map[string]models.SavedItem{}, clock: clock}
	svc := NewFavouriteService(favs, NewResourceResolver(store, store))

	firstRef := models.ResourceRef{Type: models.ResourceFood, ID: first.ID}
	secondRef := models.ResourceRef{Type: models.ResourceFood, ID: second.ID}

	_, err := svc.Save(ctx, user.ID, firstRef)
	require.NoError(t, err)
	_, err = svc.Save(ctx, user.ID, secondRef)
	require.NoError(t, err)

	items, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, secondRef, items[0].ResourceRef)
	assert.Equal(t, firstRef, items[1].ResourceRef)

	require.NoError(t, svc.Unsave(ctx, user.ID, secondRef))
	items, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.Save(ctx, user.ID, models.ResourceRef{Type: models.ResourceBook, ID: uuid.New()})
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Save(ctx, user.ID, models.ResourceRef{Type: "car", ID: uuid.New()})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestFavouriteServiceWithoutStore(t *testing.T) {
	svc := NewFavouriteService(nil, NewResourceResolver(newMemStore(), newMemStore()))
	_, err := svc.List(context.Background(), uuid.New())
	requireAppError(t, err, http.StatusServiceUnavailable)
}
