package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Okano804/ChatTODO/internal/clock"
	"github.com/Okano804/ChatTODO/internal/dto"
	"github.com/Okano804/ChatTODO/internal/extract"
)

const clarifyMessage = "TODOの内容を理解できませんでした。「明日の15時までに報告書を提出」のように、期限を含めて入力してください。"

type ChatHandler struct {
	extractor *extract.Extractor
	zone      clock.Zone
}

func NewChatHandler(extractor *extract.Extractor, zone clock.Zone) *ChatHandler {
	return &ChatHandler{extractor: extractor, zone: zone}
}

// Chat godoc
// @Summary      Extract a task and deadline from a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ChatRequest  true  "Chat message"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ChatResponse
// @Failure      500   {object}  map[string]string
// @Router       /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.extractor.Extract(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, extract.ErrNoDeadline) {
			// Ambiguity is a clarification request, not an error.
			c.JSON(http.StatusBadRequest, dto.ChatResponse{Success: false, Message: clarifyMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.ChatResponse{Success: true, Task: res.Task, Deadline: res.Deadline}
	if at, err := h.zone.Normalize(res.Deadline); err == nil {
		resp.DeadlineAt = &at
	} else {
		// Non-fatal: the raw string is passed through for the user to fix.
		log.Printf("extracted deadline not normalizable: %v", err)
	}
	c.JSON(http.StatusOK, resp)
}
