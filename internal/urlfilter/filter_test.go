package urlfilter

import "testing"

func TestIsAcceptable_ProductPages(t *testing.T) {
	f := New()

	accepted := []string{
		"https://www.boots.com/johnsons-baby-oil-300ml-10001234",
		"https://www.superdrug.com/skin/baby-oil/p/123456",
		"https://www.tesco.com/groceries/en-GB/products/254881084",
		"https://www.asda.com/product/baby-oil/1000123",
		"https://www.sainsburys.co.uk/shop/product/johnsons-baby-oil",
		"https://www.ocado.com/products/johnsons-baby-oil-300ml-12345011",
	}
	for _, u := range accepted {
		if !f.IsAcceptable(u) {
			t.Errorf("expected acceptable: %s", u)
		}
	}
}

func TestIsAcceptable_BlockedDomains(t *testing.T) {
	f := New()

	blocked := []string{
		"https://www.pricerunner.com/pl/1-123/baby-oil",
		"https://www.amazon.co.uk/dp/B00123",
		"https://www.ebay.co.uk/itm/1234",
		"https://www.hotukdeals.com/deals/baby-oil",
		"https://uk.pinterest.com/pin/1234",
		"https://www.theguardian.com/lifeandstyle/baby-products",
		"https://deals.amazon.co.uk/something", // subdomain of a blocked domain
		"https://www.comparely.co.uk/products/own-listing",
	}
	for _, u := range blocked {
		if f.IsAcceptable(u) {
			t.Errorf("expected blocked: %s", u)
		}
	}
}

func TestIsAcceptable_ListingPages(t *testing.T) {
	f := New()

	listings := []string{
		"https://www.boots.com/baby/baby-toiletries/category/baby-oil",
		"https://www.superdrug.com/search?text=baby+oil",
		"https://www.wilko.com/en-uk/categories/baby",
		"https://shop.example.co.uk/collections/baby-care",
		"https://www.savers.co.uk/shop/baby/",
		"https://www.example.co.uk/s?k=baby+oil",
		"https://www.example.co.uk/products-page?q=baby+oil",
	}
	for _, u := range listings {
		if f.IsAcceptable(u) {
			t.Errorf("expected listing rejected: %s", u)
		}
	}
}

func TestIsAcceptable_ShopProductException(t *testing.T) {
	f := New()

	// /shop/ alone is a listing; /shop/product/ is a product page.
	if f.IsAcceptable("https://www.sainsburys.co.uk/shop/baby/") {
		t.Error("bare /shop/ path should be rejected")
	}
	if !f.IsAcceptable("https://www.sainsburys.co.uk/shop/product/johnsons-baby-oil") {
		t.Error("/shop/product/ path should be accepted")
	}
}

func TestIsAcceptable_CollectionsWithProduct(t *testing.T) {
	f := New()
	// Shopify convention: /collections/<c>/products/<handle> is a product page.
	if !f.IsAcceptable("https://www.example-store.co.uk/collections/baby/products/baby-oil-300ml") {
		t.Error("collections path with /products/ should be accepted")
	}
}

func TestIsAcceptable_Garbage(t *testing.T) {
	f := New()

	for _, u := range []string{"", "not a url", "ftp://example.com/file", "javascript:alert(1)"} {
		if f.IsAcceptable(u) {
			t.Errorf("expected rejected: %q", u)
		}
	}
}

func TestNew_ExtraDomains(t *testing.T) {
	f := New("dodgy-reseller.co.uk")

	if f.IsAcceptable("https://www.dodgy-reseller.co.uk/product/123") {
		t.Error("configured extra domain should be blocked")
	}
}
