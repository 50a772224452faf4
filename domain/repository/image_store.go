package repository

import (
	"context"

	"crowdfund-service/domain/model"
)

// IImageStore uploads a local file to the image host. A nil image with a nil
// error means the host accepted the call but returned nothing usable.
type IImageStore interface {
	Upload(ctx context.Context, localPath string) (*model.UploadedImage, error)
}

type IContentGenerator interface {
	Generate(ctx context.Context, prompt, language string) (string, error)
}
