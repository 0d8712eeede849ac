package cache

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comparely/pricedex/internal/domain"
)

// entryDTO is the stored JSON shape of a cache entry.
// HitCount lives in a separate counter key so concurrent hits
// increment atomically instead of racing a read-modify-write.
type entryDTO struct {
	QueryNormalized string      `json:"query_normalized"`
	QueryOriginal   string      `json:"query_original"`
	Limit           int         `json:"limit"`
	Results         []resultDTO `json:"results"`
	CreatedAt       int64       `json:"created_at"` // unix ms
	UpdatedAt       int64       `json:"updated_at"`
	ExpiresAt       int64       `json:"expires_at"`
}

type resultDTO struct {
	ProductName string  `json:"product_name"`
	Price       string  `json:"price"`
	Currency    string  `json:"currency"`
	SourceURL   string  `json:"source_url"`
	Vendor      string  `json:"vendor"`
	Confidence  float64 `json:"confidence"`
}

func toDTO(e domain.CacheEntry) entryDTO {
	results := make([]resultDTO, len(e.Results))
	for i, r := range e.Results {
		results[i] = resultDTO{
			ProductName: r.ProductName,
			Price:       r.Price.String(),
			Currency:    r.Currency,
			SourceURL:   r.SourceURL,
			Vendor:      r.Vendor,
			Confidence:  r.Confidence,
		}
	}
	return entryDTO{
		QueryNormalized: e.QueryNormalized,
		QueryOriginal:   e.QueryOriginal,
		Limit:           e.LimitRequested,
		Results:         results,
		CreatedAt:       e.CreatedAt.UnixMilli(),
		UpdatedAt:       e.UpdatedAt.UnixMilli(),
		ExpiresAt:       e.ExpiresAt.UnixMilli(),
	}
}

func fromDTO(d entryDTO) (domain.CacheEntry, error) {
	results := make([]domain.VerifiedResult, len(d.Results))
	for i, r := range d.Results {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return domain.CacheEntry{}, fmt.Errorf("parse cached price %q: %w", r.Price, err)
		}
		results[i] = domain.VerifiedResult{
			ProductName: r.ProductName,
			Price:       price,
			Currency:    r.Currency,
			SourceURL:   r.SourceURL,
			Vendor:      r.Vendor,
			Confidence:  r.Confidence,
		}
	}
	return domain.CacheEntry{
		QueryNormalized: d.QueryNormalized,
		QueryOriginal:   d.QueryOriginal,
		LimitRequested:  d.Limit,
		Results:         results,
		CreatedAt:       time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:       time.UnixMilli(d.UpdatedAt).UTC(),
		ExpiresAt:       time.UnixMilli(d.ExpiresAt).UTC(),
	}, nil
}
