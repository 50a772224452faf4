package usecase

import (
	"context"
	"fmt"
	"math"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/logger"
	"crowdfund-service/infrastructure/utils"
)

const (
	projectSequence = "projects"
	anonymousName   = "Anonymous"
	// DefaultAvatar is shown for projects whose creator has no picture.
	DefaultAvatar = "https://res.cloudinary.com/djoebsejh/image/upload/v1727181418/u6fshzccb1vhxk2bzopn.png"
)

type IProjectUsecase interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, user *model.AuthUser) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, idParam string) (*model.Project, error)
}

type projectUsecase struct {
	projectRepo repository.IProject
	sequence    repository.ISequence
	imageStore  repository.IImageStore
	publishers  []repository.IProjectEventPublisher
}

func NewProjectUsecase(projectRepo repository.IProject, sequence repository.ISequence, imageStore repository.IImageStore, publishers ...repository.IProjectEventPublisher) IProjectUsecase {
	return &projectUsecase{
		projectRepo: projectRepo,
		sequence:    sequence,
		imageStore:  imageStore,
		publishers:  publishers,
	}
}

func (u *projectUsecase) CreateProject(ctx context.Context, req dto.CreateProjectRequest, user *model.AuthUser) (*model.Project, error) {
	if req.ImagePath == "" {
		return nil, fmt.Errorf("%w: image file is required", model.ErrValidation)
	}
	lg := logger.GetLogger().WithField("title", req.Title)

	image, err := u.imageStore.Upload(ctx, req.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("upload project image: %w", err)
	}
	imageURL := ""
	if image != nil {
		imageURL = image.SecureURL
	}

	latest, err := u.projectRepo.FindMostRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: find most recent project: %v", model.ErrPersistence, err)
	}
	var floor int64
	if latest != nil {
		floor = latest.Id
	}
	id, err := u.sequence.Next(ctx, projectSequence, floor)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate project id: %v", model.ErrPersistence, err)
	}

	now := utils.GetCurrentTime()
	project := &model.Project{
		Id:                id,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Creator:           creatorName(req.Name, user),
		Avatar:            creatorAvatar(req.Avatar, user),
		Image:             imageURL,
		AmountRaised:      req.AmountRaised,
		MinimumDonation:   req.MinimumDonation,
		Contributors:      req.Contributors,
		Upvotes:           req.Upvotes,
		Milestones:        ParseOrEmpty[model.Milestone](req.Milestones),
		CommunityFeedback: ParseOrEmpty[model.Feedback](req.CommunityFeedback),
		Contributions:     ParseOrEmpty[model.Contribution](req.Contributions),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.projectRepo.Insert(ctx, project); err != nil {
		return nil, fmt.Errorf("%w: insert project %d: %v", model.ErrPersistence, id, err)
	}
	lg.WithField("id", id).Info("Project created")

	event := model.NewProjectCreatedEvent(project)
	for _, p := range u.publishers {
		if err := p.PublishProjectEvent(ctx, event); err != nil {
			lg.WithField("error", err).WithField("id", id).Warn("Failed to publish project event")
		}
	}
	return project, nil
}

func (u *projectUsecase) ListProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := u.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", model.ErrPersistence, err)
	}
	if projects == nil {
		projects = make([]model.Project, 0)
	}
	return projects, nil
}

// GetProject resolves the path parameter the way a numeric comparison
// would: anything that is not a number is malformed, a number that is not
// a whole value can never match.
func (u *projectUsecase) GetProject(ctx context.Context, idParam string) (*model.Project, error) {
	f, ok := toNumber(idParam)
	if !ok {
		return nil, fmt.Errorf("%w: project id %q", model.ErrMalformedInput, idParam)
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) || f >= int64Bound || f < -int64Bound {
		return nil, fmt.Errorf("%w: project %s", model.ErrNotFound, idParam)
	}

	project, err := u.projectRepo.FindByID(ctx, int64(f))
	if err != nil {
		return nil, fmt.Errorf("%w: find project %s: %v", model.ErrPersistence, idParam, err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", model.ErrNotFound, idParam)
	}
	return project, nil
}

func creatorName(name string, user *model.AuthUser) string {
	if name != "" {
		return name
	}
	if user != nil && user.Name != "" {
		return user.Name
	}
	return anonymousName
}

func creatorAvatar(avatar string, user *model.AuthUser) string {
	if avatar != "" {
		return avatar
	}
	if user != nil && user.ProfileImage != "" {
		return user.ProfileImage
	}
	return DefaultAvatar
}
