package dto

import "crowdfund-service/domain/model"

type CreatePostRequest struct {
	Description string `form:"description" binding:"required"`
	ImagePath   string `form:"-"`
}

type CreatePostResponse struct {
	Msg  string      `json:"msg"`
	Post *model.Post `json:"post"`
}
