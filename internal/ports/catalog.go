package ports

import (
	"context"

	"github.com/bnema/punini-cli/internal/domain"
)

type Catalog interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id domain.ProductID) (domain.Product, error)
}
