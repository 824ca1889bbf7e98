package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joshua-takyi/foodshare/internal/helpers"
	"github.com/joshua-takyi/foodshare/internal/metrics"
	"github.com/joshua-takyi/foodshare/internal/models"
	"github.com/joshua-takyi/foodshare/internal/realtime"
	"github.com/joshua-takyi/foodshare/internal/services"
)

// ChatList returns the caller's conversations. The path id must be the caller.
func ChatList(cs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "userId")
		if !ok {
			return
		}
		if id != userID {
			helpers.RespondError(c, models.NewForbiddenError("you can only view your own conversations"))
			return
		}
		conversations, err := cs.ConversationsForUser(c.Request.Context(), userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversations": nonNil(conversations)})
	}
}

func FoodChat(cs *services.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		foodID, ok := helpers.ParseUUIDParam(c, "foodId")
		if !ok {
			return
		}
		messages, err := cs.FoodThread(c.Request.Context(), userID, foodID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": nonNil(messages)})
	}
}

// SendMessage is the polling counterpart of the send_message socket event.
func SendMessage(cs *services.ConversationService, hub *realtime.Hub, rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		var req struct {
			ReceiverID uuid.UUID  `json:"receiverId"`
			Message    string     `json:"message"`
			FoodID     *uuid.UUID `json:"foodId"`
		}
		if !decodeJSON(c, &req) {
			return
		}
		msg, err := cs.Append(c.Request.Context(), userID, req.ReceiverID, req.Message, req.FoodID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		rec.RecordChatMessage("http")
		hub.PublishMessage(msg)
		c.JSON(http.StatusCreated, gin.H{"message": msg})
	}
}

func MarkMessageRead(cs *services.ConversationService, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := helpers.RequireUser(c)
		if !ok {
			return
		}
		id, ok := helpers.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		msg, changed, err := cs.MarkRead(c.Request.Context(), id, userID)
		if err != nil {
			helpers.RespondError(c, err)
			return
		}
		if changed {
			hub.PublishRead(msg)
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "changed": changed})
	}
}
