package borrower

import (
	"context"
	"time"
)

type Repository interface {
	Save(ctx context.Context, b *Borrower) (*Borrower, error)
	FindByID(ctx context.Context, id string) (*Borrower, error)
	UpdateCreditScore(ctx context.Context, id string, score int, scoredAt time.Time) error
	FindUnscored(ctx context.Context, limit int) ([]string, error)
}
