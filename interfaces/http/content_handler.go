package http

import (
	"errors"
	"net/http"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"
	"crowdfund-service/usecase"

	"github.com/gin-gonic/gin"
)

type IContentHandler interface {
	GenerateContent(ctx *gin.Context)
}

type ContentHandler struct {
	contentUsecase usecase.IContentUsecase
}

func NewContentHandler(contentUsecase usecase.IContentUsecase) IContentHandler {
	return &ContentHandler{contentUsecase: contentUsecase}
}

// GenerateContent handles POST /generate-content
func (h *ContentHandler) GenerateContent(ctx *gin.Context) {
	var req dto.GenerateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Prompt is required"})
		return
	}

	text, err := h.contentUsecase.Generate(ctx.Request.Context(), req.Prompt, req.Language)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Prompt is required"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error generating content")
		ctx.JSON(http.StatusBadGateway, dto.Message{Msg: "Failed to generate content"})
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateContentResponse{GeneratedText: text})
}
