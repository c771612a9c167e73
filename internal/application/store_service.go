package application

import (
	"context"
	"fmt"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
)

// StoreService serves the catalog and routes purchases through the Ledger.
type StoreService struct {
	catalog ports.Catalog
	ledger  *Ledger
}

func NewStoreService(catalog ports.Catalog, ledger *Ledger) *StoreService {
	return &StoreService{catalog: catalog, ledger: ledger}
}

func (s *StoreService) Browse(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	return domain.FilterProducts(products, filter), nil
}

func (s *StoreService) Product(ctx context.Context, id domain.ProductID) (ProductView, error) {
	product, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return ProductView{}, fmt.Errorf("get product %d: %w", id, err)
	}

	session := s.ledger.Session()

	return ProductView{
		Product:   product,
		Balance:   session.Balance,
		CanAfford: session.CanAfford(product.Price),
		Shortfall: session.Shortfall(product.Price),
	}, nil
}

func (s *StoreService) Buy(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	product, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}

	if err := s.ledger.PurchaseItem(ctx, product.Name, product.Price); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}
