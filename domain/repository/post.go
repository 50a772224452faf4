package repository

import (
	"context"

	"crowdfund-service/domain/model"
)

type IPost interface {
	Insert(ctx context.Context, post *model.Post) error
	FindAll(ctx context.Context) ([]model.Post, error)
}
