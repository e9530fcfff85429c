package unitofwork

import (
	"context"

	"hk-explorer-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChallengeRepository() contract.ChallengeRepository
	WeeklyEventRepository() contract.WeeklyEventRepository
	ForumMessageRepository() contract.ForumMessageRepository
}
