package usecase

import (
	"context"
	"fmt"
	"strings"

	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
)

const defaultLanguage = "en"

type IContentUsecase interface {
	Generate(ctx context.Context, prompt, language string) (string, error)
}

type contentUsecase struct {
	generator repository.IContentGenerator
}

func NewContentUsecase(generator repository.IContentGenerator) IContentUsecase {
	return &contentUsecase{generator: generator}
}

func (u *contentUsecase) Generate(ctx context.Context, prompt, language string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", model.ErrValidation)
	}
	if language == "" {
		language = defaultLanguage
	}
	return u.generator.Generate(ctx, prompt, language)
}
