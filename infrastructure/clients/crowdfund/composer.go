package crowdfund

import (
	"context"
	"errors"
	"sync"

	"crowdfund-service/domain/model"
	"crowdfund-service/infrastructure/logger"
)

type ComposerState int

const (
	Idle ComposerState = iota
	Generating
	Submitting
	Navigated
)

func (s ComposerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Submitting:
		return "submitting"
	case Navigated:
		return "navigated"
	}
	return "unknown"
}

// PostsRoute is where the composer navigates after a successful publish.
const PostsRoute = "/posts"

var ErrComposerBusy = errors.New("composer is busy")

// PostAPI is the part of the API the composer needs.
type PostAPI interface {
	CreatePost(ctx context.Context, description, imagePath string) (*model.Post, error)
	Generate(ctx context.Context, prompt, language string) (string, error)
}

// Composer drives the new-post flow: an editable draft, optional AI
// generation that replaces the draft, and submission that navigates to the
// posts list on success.
type Composer struct {
	api      PostAPI
	navigate func(route string)

	mu          sync.Mutex
	state       ComposerState
	description string
	imagePath   string
}

func NewComposer(api PostAPI, navigate func(route string)) *Composer {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Composer{api: api, navigate: navigate}
}

func (c *Composer) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = description
}

func (c *Composer) SetImage(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imagePath = path
}

func (c *Composer) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.description
}

func (c *Composer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// begin moves from Idle to next and returns a snapshot of the draft.
func (c *Composer) begin(next ComposerState) (description, imagePath string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return "", "", ErrComposerBusy
	}
	c.state = next
	return c.description, c.imagePath, nil
}

// Generate sends the current draft as the prompt. On success the draft is
// replaced with the generated text; on failure it is left unchanged.
func (c *Composer) Generate(ctx context.Context) error {
	prompt, _, err := c.begin(Generating)
	if err != nil {
		return err
	}

	text, genErr := c.api.Generate(ctx, prompt, "en")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Idle
	if genErr != nil {
		logger.GetLogger().WithField("error", genErr).Error("Failed to generate content. Please try again later.")
		return genErr
	}
	c.description = text
	return nil
}

// Submit publishes the draft. Failures leave the draft in place and return
// the composer to Idle.
func (c *Composer) Submit(ctx context.Context) (*model.Post, error) {
	description, imagePath, err := c.begin(Submitting)
	if err != nil {
		return nil, err
	}

	post, submitErr := c.api.CreatePost(ctx, description, imagePath)

	c.mu.Lock()
	if submitErr != nil {
		c.state = Idle
		c.mu.Unlock()
		logger.GetLogger().WithField("error", submitErr).Error("Error creating post")
		return nil, submitErr
	}
	c.state = Navigated
	c.mu.Unlock()

	logger.GetLogger().WithField("post", post).Info("Post created successfully")
	c.navigate(PostsRoute)
	return post, nil
}
