package dto

import "crowdfund-service/domain/model"

// CreateProjectRequest carries the multipart form of a project creation.
// Milestones, CommunityFeedback and Contributions hold raw JSON text.
type CreateProjectRequest struct {
	Title             string
	Description       string
	Category          string
	AmountRaised      *float64
	MinimumDonation   *float64
	Contributors      *int
	Upvotes           *int
	Milestones        string
	CommunityFeedback string
	Contributions     string
	Name              string
	Avatar            string
	ImagePath         string
}

type CreateProjectResponse struct {
	Msg     string         `json:"msg"`
	Project *model.Project `json:"project"`
}

// Message is the error envelope the web client reads.
type Message struct {
	Msg string `json:"msg"`
}

// Res is returned by the auth middleware when a token is rejected.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}
