package repository

import (
	"context"

	"crowdfund-service/domain/model"
)

// IProject is the persistence boundary for projects. Lookups that find
// nothing return a nil project and a nil error.
type IProject interface {
	FindMostRecent(ctx context.Context) (*model.Project, error)
	FindAll(ctx context.Context) ([]model.Project, error)
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	Insert(ctx context.Context, project *model.Project) error
}

// ISequence hands out unique increasing integers per name. The returned value
// is always greater than floor and greater than any value returned before.
type ISequence interface {
	Next(ctx context.Context, name string, floor int64) (int64, error)
}

// IProjectEventPublisher delivers project lifecycle events.
type IProjectEventPublisher interface {
	PublishProjectEvent(ctx context.Context, event model.ProjectEvent) error
}
