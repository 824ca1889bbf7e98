package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/services"
)

type reservationRequest struct {
	ResourceType string     `json:"resource_type"`
	ResourceID   uuid.UUID  `json:"resource_id"`
	PickupTime   *time.Time `json:"pickup_time"`
}

func CreateReservation(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var req reservationRequest
		if !decodeJSON(c, &req) {
			return
		}
		ref := models.ResourceRef{Type: models.ResourceType(req.ResourceType), ID: req.ResourceID}
		reservation, err := ls.Reserve(c.Request.Context(), ref, userID, req.PickupTime)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"reservation": reservation, "message": "Reservation created successfully"})
	}
}

func ListReservations(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		list, err := ls.ListReservations(c.Request.Context(), userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": nonNil(list)})
	}
}

func UpdateReservationStatus(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if !decodeJSON(c, &req) {
			return
		}
		next, err := models.ParseReservationStatus(req.Status)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		reservation, err := ls.UpdateReservationStatus(c.Request.Context(), id, userID, next)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservation": reservation})
	}
}

type ratingRequest struct {
	ReceiverID   uuid.UUID `json:"receiver_id"`
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
	Score        int       `json:"score"`
	Comment      string    `json:"comment"`
}

func (r ratingRequest) ref() models.ResourceRef {
	return models.ResourceRef{Type: models.ResourceType(r.ResourceType), ID: r.ResourceID}
}

func CreateRating(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var req ratingRequest
		if !decodeJSON(c, &req) {
			return
		}
		rating, err := ls.Rate(c.Request.Context(), services.RatingInput{
			GiverID:    userID,
			ReceiverID: req.ReceiverID,
			Ref:        req.ref(),
			Score:      req.Score,
			Comment:    req.Comment,
		})
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"rating": rating, "message": "Rating submitted successfully"})
	}
}

func CheckRating(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var req ratingRequest
		if !decodeJSON(c, &req) {
			return
		}
		exists, err := ls.RatingExists(c.Request.Context(), userID, req.ReceiverID, req.ref())
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"already_rated": exists})
	}
}

func UserRating(ls *services.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		summary, err := ls.AverageRating(c.Request.Context(), id)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
