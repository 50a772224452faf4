package usecase

import (
	"context"
	"fmt"
	"strings"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/logger"
	"crowdfund-service/infrastructure/utils"
)

type IPostUsecase interface {
	CreatePost(ctx context.Context, req dto.CreatePostRequest, user *model.AuthUser) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
}

type postUsecase struct {
	postRepo   repository.IPost
	imageStore repository.IImageStore
}

func NewPostUsecase(postRepo repository.IPost, imageStore repository.IImageStore) IPostUsecase {
	return &postUsecase{postRepo: postRepo, imageStore: imageStore}
}

func (u *postUsecase) CreatePost(ctx context.Context, req dto.CreatePostRequest, user *model.AuthUser) (*model.Post, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", model.ErrValidation)
	}

	imageURL := ""
	if req.ImagePath != "" {
		image, err := u.imageStore.Upload(ctx, req.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("upload post image: %w", err)
		}
		if image != nil {
			imageURL = image.SecureURL
		}
	}

	post := &model.Post{
		Description: req.Description,
		Image:       imageURL,
		Creator:     creatorName("", user),
		Avatar:      creatorAvatar("", user),
		CreatedAt:   utils.GetCurrentTime(),
	}
	if err := u.postRepo.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("%w: insert post: %v", model.ErrPersistence, err)
	}
	logger.GetLogger().WithField("id", post.ObjectID.Hex()).Info("Post created")
	return post, nil
}

func (u *postUsecase) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := u.postRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %v", model.ErrPersistence, err)
	}
	if posts == nil {
		posts = make([]model.Post, 0)
	}
	return posts, nil
}
