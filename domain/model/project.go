package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is a crowdfunding campaign. Id is the public sequential key;
// ObjectID is only the storage key.
type Project struct {
	ObjectID          bson.ObjectID  `json:"_id,omitempty"             bson:"_id,omitempty"`
	Id                int64          `json:"id"                        bson:"id"`
	Title             string         `json:"title"                     bson:"title"`
	Description       string         `json:"description"               bson:"description"`
	Category          string         `json:"category"                  bson:"category"`
	Creator           string         `json:"creator"                   bson:"creator"`
	Avatar            string         `json:"avatar"                    bson:"avatar"`
	Image             string         `json:"image"                     bson:"image"`
	AmountRaised      *float64       `json:"amountRaised,omitempty"    bson:"amountRaised,omitempty"`
	MinimumDonation   *float64       `json:"minimumDonation,omitempty" bson:"minimumDonation,omitempty"`
	Contributors      *int           `json:"contributors,omitempty"    bson:"contributors,omitempty"`
	Upvotes           *int           `json:"upvotes,omitempty"         bson:"upvotes,omitempty"`
	Milestones        []Milestone    `json:"milestones"                bson:"milestones"`
	CommunityFeedback []Feedback     `json:"communityFeedback"         bson:"communityFeedback"`
	Contributions     []Contribution `json:"contributions"             bson:"contributions"`
	CreatedAt         time.Time      `json:"createdAt"                 bson:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"                 bson:"updatedAt"`
}

type Milestone struct {
	Title       string  `json:"title"       bson:"title"`
	Description string  `json:"description" bson:"description"`
	Amount      float64 `json:"amount"      bson:"amount"`
	Completed   bool    `json:"completed"   bson:"completed"`
}

type Feedback struct {
	Name    string `json:"name"    bson:"name"`
	Avatar  string `json:"avatar"  bson:"avatar"`
	Comment string `json:"comment" bson:"comment"`
	Upvotes int    `json:"upvotes" bson:"upvotes"`
}

type Contribution struct {
	Name    string  `json:"name"    bson:"name"`
	Amount  float64 `json:"amount"  bson:"amount"`
	Message string  `json:"message" bson:"message"`
	Date    string  `json:"date"    bson:"date"`
}

const ProjectCreated = "project.created"

// ProjectEvent is fanned out to dashboard streams and message brokers after
// a project is stored.
type ProjectEvent struct {
	Type       string    `json:"type"`
	ProjectID  int64     `json:"projectId"`
	Title      string    `json:"title"`
	Creator    string    `json:"creator"`
	Image      string    `json:"image,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewProjectCreatedEvent(p *Project) ProjectEvent {
	return ProjectEvent{
		Type:       ProjectCreated,
		ProjectID:  p.Id,
		Title:      p.Title,
		Creator:    p.Creator,
		Image:      p.Image,
		OccurredAt: p.CreatedAt,
	}
}
