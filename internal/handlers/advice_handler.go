package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/services"
)

// AdviceHandler handles AI advisory requests.
type AdviceHandler struct {
	adviceService services.AdviceServicer
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(adviceService services.AdviceServicer) *AdviceHandler {
	return &AdviceHandler{adviceService: adviceService}
}

// AdviceRequest represents the request payload for the advisory endpoint.
type AdviceRequest struct {
	Question string `json:"question"`
}

// AdviceResponse represents the advisory response.
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// GetAdvice handles a financial advice question.
// @Summary     Get financial advice
// @Description Answer a financial question grounded in the user's recent activity
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AdviceRequest true "Question"
// @Success     200 {object} AdviceResponse "Generated advice"
// @Failure     400 {object} ErrorResponse "Question is required"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Generation backend request failed"
// @Router      /ai/advice [post]
func (h *AdviceHandler) GetAdvice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	advice, err := h.adviceService.GetAdvice(c.Request.Context(), userID, req.Question)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
