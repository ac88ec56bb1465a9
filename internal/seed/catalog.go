// Package seed loads a starter catalog from YAML and creates it through the catalog service,
// so seeded products get the same validation and audit rows as ones created by an admin.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go-store-orders/internal/service"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Products []Product `yaml:"products"`
}

type Product struct {
	Name         string          `yaml:"name"`
	SKU          string          `yaml:"sku"`
	BaseUnit     string          `yaml:"base_unit"`
	InitialStock decimal.Decimal `yaml:"initial_stock"`
	Units        []Unit          `yaml:"units"`
}

type Unit struct {
	Name string          `yaml:"name"`
	Rate decimal.Decimal `yaml:"rate"`
}

// Summary counts what Apply did. Products whose SKU already exists are skipped.
type Summary struct {
	Created int
	Skipped int
}

func Load(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return &cat, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

func Apply(ctx context.Context, catalog service.CatalogService, cat *Catalog) (Summary, error) {
	var sum Summary
	for _, p := range cat.Products {
		req := &service.CreateProductRequest{
			Name:         p.Name,
			SKU:          p.SKU,
			BaseUnit:     p.BaseUnit,
			InitialStock: p.InitialStock,
		}
		for _, u := range p.Units {
			req.Units = append(req.Units, service.UnitInput{UnitName: u.Name, ConversionRate: u.Rate})
		}

		_, err := catalog.CreateProduct(ctx, req)
		switch {
		case err == nil:
			sum.Created++
		case errors.Is(err, service.ErrConflict):
			sum.Skipped++
		default:
			return sum, fmt.Errorf("product %s: %w", p.SKU, err)
		}
	}
	return sum, nil
}
