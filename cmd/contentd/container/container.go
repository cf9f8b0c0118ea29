package container

import (
	"github.com/juicelabs/juice-content/cmd/contentd/handlers"
	"github.com/juicelabs/juice-content/cmd/contentd/service"
	"github.com/juicelabs/juice-content/common/bootstrap"
)

// Container holds all initialized services and handlers (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	// Services
	Store *service.ContentStore

	// Handlers
	ContentHandler *handlers.ContentHandler
	DebugHandler   *handlers.DebugHandler
}

// NewContainer initializes all services and handlers once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	store := service.NewContentStore(components.Bucket, components.Config, components.Logger)

	return &Container{
		Components:     components,
		Store:          store,
		ContentHandler: handlers.NewContentHandler(components, store),
		DebugHandler:   handlers.NewDebugHandler(components),
	}, nil
}
