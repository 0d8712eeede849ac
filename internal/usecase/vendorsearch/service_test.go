package vendorsearch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/comparely/pricedex/internal/domain"
)

func TestService_SearchVendors_FanOut(t *testing.T) {
	mock := &mockSearcher{
		searchFn: func(_ context.Context, query string, _ int, vendorHint string) ([]domain.RawHit, error) {
			return []domain.RawHit{{Title: "hit for " + vendorHint, URL: "https://example.com/" + vendorHint, VendorHint: vendorHint}}, nil
		},
	}
	svc := New(mock, 5, time.Second, zap.NewNop())

	vendors := []domain.Vendor{
		{Name: "Boots", Domain: "boots.com"},
		{Name: "Tesco", Domain: "tesco.com"},
		{Name: "Superdrug", Domain: "superdrug.com"},
	}

	hits := svc.SearchVendors(context.Background(), "baby oil", vendors)

	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if mock.callCount != 3 {
		t.Errorf("expected 3 search calls, got %d", mock.callCount)
	}
	for _, q := range mock.queries() {
		if !strings.HasPrefix(q, "baby oil ") || !strings.HasSuffix(q, " product page") {
			t.Errorf("unexpected query format: %q", q)
		}
	}
}

func TestService_SearchVendors_FailureIsolation(t *testing.T) {
	mock := &mockSearcher{
		searchFn: func(_ context.Context, _ string, _ int, vendorHint string) ([]domain.RawHit, error) {
			if vendorHint == "Tesco" {
				return nil, errors.New("provider timeout")
			}
			return []domain.RawHit{{URL: "https://ok/" + vendorHint, VendorHint: vendorHint}}, nil
		},
	}
	svc := New(mock, 5, time.Second, zap.NewNop())

	vendors := []domain.Vendor{{Name: "Boots"}, {Name: "Tesco"}, {Name: "Asda"}}

	hits := svc.SearchVendors(context.Background(), "baby oil", vendors)

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits despite one vendor failing, got %d", len(hits))
	}
	for _, h := range hits {
		if h.VendorHint == "Tesco" {
			t.Error("failed vendor must not contribute hits")
		}
	}
}

func TestService_SearchVendors_Empty(t *testing.T) {
	mock := &mockSearcher{}
	svc := New(mock, 5, time.Second, zap.NewNop())

	hits := svc.SearchVendors(context.Background(), "baby oil", nil)
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
	if mock.callCount != 0 {
		t.Errorf("expected no calls, got %d", mock.callCount)
	}
}

func TestService_SearchBroad(t *testing.T) {
	mock := &mockSearcher{
		searchFn: func(_ context.Context, query string, count int, vendorHint string) ([]domain.RawHit, error) {
			if vendorHint != "" {
				t.Errorf("broad search must not carry a vendor hint, got %q", vendorHint)
			}
			if count != 20 {
				t.Errorf("expected count 20, got %d", count)
			}
			if query != "baby oil" {
				t.Errorf("broad query must stay unscoped, got %q", query)
			}
			return []domain.RawHit{{URL: "https://somewhere/p/1"}}, nil
		},
	}
	svc := New(mock, 5, time.Second, zap.NewNop())

	hits, err := svc.SearchBroad(context.Background(), "baby oil", 20)
	if err != nil {
		t.Fatalf("SearchBroad failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
}

func TestService_SearchBroad_Error(t *testing.T) {
	mock := &mockSearcher{
		searchFn: func(context.Context, string, int, string) ([]domain.RawHit, error) {
			return nil, domain.ErrSearchProviderError
		},
	}
	svc := New(mock, 5, time.Second, zap.NewNop())

	_, err := svc.SearchBroad(context.Background(), "baby oil", 20)
	if !errors.Is(err, domain.ErrSearchProviderError) {
		t.Fatalf("expected ErrSearchProviderError, got %v", err)
	}
}
