package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/foodshare/internal/models"
)

func TestImageUpload(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser("ada", "lovelace")
	other := store.addUser("alan", "turing")
	food := store.addFood(owner.ID, "Bagels")
	ref := models.ResourceRef{Type: models.ResourceFood, ID: food.ID}

	uploader := new(mockUploader)
	uploader.On("Upload", mock.Anything, mock.Anything, "foodshare/food", []string{"foodshare", "food"}).
		Return("https://res.cloudinary.com/demo/bagels.jpg", "foodshare/food/bagels", nil).Once()
	svc := NewImageService(store, NewResourceResolver(store, store), uploader)

	img, err := svc.Upload(ctx, ref, owner.ID, strings.NewReader("jpeg"), " fresh ")
	require.NoError(t, err)
	assert.Equal(t, "fresh", img.Caption)
	assert.Equal(t, "foodshare/food/bagels", img.PublicID)

	_, err = svc.Upload(ctx, ref, other.ID, strings.NewReader("jpeg"), "")
	requireAppError(t, err, http.StatusForbidden)

	_, err = svc.Upload(ctx, ref, owner.ID, strings.NewReader("jpeg"), strings.Repeat("c", maxCaptionLength+1))
	requireAppError(t, err, http.StatusBadRequest)

	list, err := svc.List(ctx, ref)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	uploader.AssertExpectations(t)
}

func TestImageUploadWithoutUploader(t *testing.T) {
	store := newMemStore()
	svc := NewImageService(store, NewResourceResolver(store, store), nil)
	ref := models.ResourceRef{Type: models.ResourceFood, ID: uuid.New()}
	_, err := svc.Upload(context.Background(), ref, uuid.New(), strings.NewReader(""), "")
	requireAppError(t, err, http.StatusServiceUnavailable)
}

func TestImageUploadFailure(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("ada", "lovelace")
	food := store.addFood(owner.ID, "Bagels")
	uploader := new(mockUploader)
	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", "", errors.New("cloudinary down"))
	svc := NewImageService(store, NewResourceResolver(store, store), uploader)

	_, err := svc.Upload(context.Background(), models.ResourceRef{Type: models.ResourceFood, ID: food.ID}, owner.ID, strings.NewReader("x"), "")
	require.Error(t, err)
	_, isApp := models.AsAppError(err)
	assert.False(t, isApp)
	assert.Empty(t, store.images)
}

func TestImageDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	owner := store.addUser("ada", "lovelace")
	other := store.addUser("alan", "turing")
	food := store.addFood(owner.ID, "Bagels")
	img := &models.Image{
		ID:          uuid.New(),
		ResourceRef: models.ResourceRef{Type: models.ResourceFood, ID: food.ID},
		PublicID:    "foodshare/food/bagels",
	}
	require.NoError(t, store.CreateImage(ctx, img))

	uploader := new(mockUploader)
	uploader.On("Destroy", mock.Anything, "foodshare/food/bagels").Return(nil).Once()
	svc := NewImageService(store, NewResourceResolver(store, store), uploader)

	requireAppError(t, svc.Delete(ctx, img.ID, other.ID), http.StatusForbidden)
	require.NoError(t, svc.Delete(ctx, img.ID, owner.ID))
	requireAppError(t, svc.Delete(ctx, img.ID, owner.ID), http.StatusNotFound)
	uploader.AssertExpectations(t)
}
