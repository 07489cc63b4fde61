package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/proficiency"
)

// LoadCatalog returns opts.Catalog, or reads and validates opts.CatalogPath.
func LoadCatalog(opts Options) (*catalog.Catalog, error) {
	if opts.Catalog != nil {
		if err := opts.Catalog.Validate(); err != nil {
			return nil, err
		}
		return opts.Catalog, nil
	}
	return catalog.LoadFile(opts.CatalogPath)
}

// CatalogHash returns the content hash of a catalog, independent of the
// encoding it was read from.
func CatalogHash(c *catalog.Catalog) (string, error) {
	data, err := catalog.Marshal(c, catalog.FormatJSON)
	if err != nil {
		return "", fmt.Errorf("serialize catalog: %w", err)
	}
	return cache.Hash(data), nil
}

// LoadProficiency returns the solved-problem dataset for the run.
//
// A configured file must be readable. A configured URL that cannot be fetched
// degrades to an empty dataset with a warning, so an offline machine still
// renders a galaxy (algorithm topics show as unexplored). With neither set
// the dataset is empty.
func LoadProficiency(ctx context.Context, c cache.Cache, opts Options) (proficiency.Dataset, error) {
	switch {
	case opts.ProficiencyFile != "":
		return proficiency.LoadFile(opts.ProficiencyFile)
	case opts.ProficiencyURL != "":
		ds, err := proficiency.NewFetcher(c, opts.ProficiencyTTL).Fetch(ctx, opts.ProficiencyURL, opts.Refresh)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if opts.Logger != nil {
				opts.Logger.Warn("proficiency unavailable, topics left unexplored", "url", opts.ProficiencyURL, "err", err)
			}
			return proficiency.Dataset{}, nil
		}
		return ds, nil
	}
	return proficiency.Dataset{}, nil
}
