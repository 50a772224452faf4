package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"
	"crowdfund-service/infrastructure/tmpfile"
	"crowdfund-service/interfaces/middleware"
	"crowdfund-service/usecase"

	"github.com/gin-gonic/gin"
)

type IProjectHandler interface {
	CreateProject(ctx *gin.Context)
	GetAllProjects(ctx *gin.Context)
	GetProjectByID(ctx *gin.Context)
}

type ProjectHandler struct {
	projectUsecase usecase.IProjectUsecase
	uploadDir      string
}

func NewProjectHandler(projectUsecase usecase.IProjectUsecase, uploadDir string) IProjectHandler {
	return &ProjectHandler{projectUsecase: projectUsecase, uploadDir: uploadDir}
}

// CreateProject handles POST /project/new-project
func (h *ProjectHandler) CreateProject(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		if tooLarge(err) {
			logger.GetLogger().WithField("error", err).Warn("Rejected oversized upload")
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.Message{Msg: "Image file is too large"})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Image file is required"})
		return
	}

	// numeric fields that do not parse fail like a rejected save
	req, err := bindCreateProject(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error creating project")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
		return
	}

	path, cleanup, err := tmpfile.Save(file, h.uploadDir)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while saving upload")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
		return
	}
	defer cleanup()
	req.ImagePath = path

	project, err := h.projectUsecase.CreateProject(ctx.Request.Context(), req, middleware.CurrentUser(ctx))
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Image file is required"})
			return
		}
		logger.GetLogger().WithField("error", err).Error("Error creating project")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateProjectResponse{Msg: "Project created successfully", Project: project})
}

// GetAllProjects handles GET /project
func (h *ProjectHandler) GetAllProjects(ctx *gin.Context) {
	projects, err := h.projectUsecase.ListProjects(ctx.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error fetching projects")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
		return
	}
	ctx.JSON(http.StatusOK, projects)
}

// GetProjectByID handles GET /project/:projectId
func (h *ProjectHandler) GetProjectByID(ctx *gin.Context) {
	project, err := h.projectUsecase.GetProject(ctx.Request.Context(), ctx.Param("projectId"))
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, project)
	case errors.Is(err, model.ErrMalformedInput):
		ctx.JSON(http.StatusBadRequest, dto.Message{Msg: "Invalid project ID"})
	case errors.Is(err, model.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.Message{Msg: "Project not found"})
	default:
		logger.GetLogger().WithField("error", err).Error("Error fetching project")
		ctx.JSON(http.StatusInternalServerError, dto.Message{Msg: "Server error"})
	}
}

func bindCreateProject(ctx *gin.Context) (dto.CreateProjectRequest, error) {
	req := dto.CreateProjectRequest{
		Title:             ctx.PostForm("title"),
		Description:       ctx.PostForm("description"),
		Category:          ctx.PostForm("category"),
		Milestones:        ctx.PostForm("milestones"),
		CommunityFeedback: ctx.PostForm("communityFeedback"),
		Contributions:     ctx.PostForm("contributions"),
		Name:              ctx.PostForm("name"),
		Avatar:            ctx.PostForm("avatar"),
	}
	var err error
	if req.AmountRaised, err = optionalFloat(ctx, "amountRaised"); err != nil {
		return req, err
	}
	if req.MinimumDonation, err = optionalFloat(ctx, "minimumDonation"); err != nil {
		return req, err
	}
	if req.Contributors, err = optionalInt(ctx, "contributors"); err != nil {
		return req, err
	}
	if req.Upvotes, err = optionalInt(ctx, "upvotes"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalFloat(ctx *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(ctx.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: cast %s=%q to number", model.ErrPersistence, field, raw)
	}
	return &f, nil
}

func optionalInt(ctx *gin.Context, field string) (*int, error) {
	raw := strings.TrimSpace(ctx.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: cast %s=%q to integer", model.ErrPersistence, field, raw)
	}
	return &i, nil
}

// tooLarge reports whether a form read failed on the body limit.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
