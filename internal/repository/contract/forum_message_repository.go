package contract

import (
	"context"

	"hk-explorer-be/internal/entity"
	"hk-explorer-be/internal/repository/specification"
)

type ForumMessageRepository interface {
	Create(ctx context.Context, message *entity.ForumMessage) error
	// FindAll returns messages newest first.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ForumMessage, error)
}
