package http

import (
	"errors"
	"net/http"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"
	"crowdfund-service/infrastructure/tmpfile"
	"crowdfund-service/interfaces/middleware"
	"crowdfund-service/usecase"

	"github.com/gin-gonic/gin"
)

type IPostHandler interface {
	CreatePost(ctx *gin.Context)
	GetAllPosts(ctx *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
	uploadDir   string
}

func NewPostHandler(postUsecase usecase.IPostUsecase, uploadDir string) IPostHandler {
	return &PostHandler{postUsecase: postUsecase, uploadDir: uploadDir}
}

// CreatePost handles POST /post/new-post
func (h *PostHandler) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		if tooLarge(err) {
			logger.GetLogger().WithField("error", err).Warn("Rejected oversized upload")
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.Message{Msg: "Image file is too large"})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Description is required"})
		return
	}

	if file, err := ctx.FormFile("image"); err == nil {
		path, cleanup, err := tmpfile.Save(file, h.uploadDir)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while saving upload")
			ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
			return
		}
		defer cleanup()
		req.ImagePath = path
	}

	post, err := h.postUsecase.CreatePost(ctx.Request.Context(), req, middleware.CurrentUser(ctx))
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Description is required"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error creating post")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatePostResponse{Msg: "Post created successfully", Post: post})
}

// GetAllPosts handles GET /post
func (h *PostHandler) GetAllPosts(ctx *gin.Context) {
	posts, err := h.postUsecase.ListPosts(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error fetching posts")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
		return
	}
	ctx.JSON(http.StatusOK, posts)
}
