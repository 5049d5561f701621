package core

import "context"

type ExchangeRepository interface {
	Save(ctx context.Context, ex Exchange) error
	Recent(ctx context.Context, limit int) ([]Exchange, error)
}
