package domain

// Vendor is a retailer targeted by the priority search panel.
type Vendor struct {
	Name   string
	Domain string
}

// StorefrontDomain is the operator's own shop. Hits from it are
// rejected so the engine never "finds" its own listing.
const StorefrontDomain = "comparely.co.uk"

// DefaultPanel returns the built-in priority vendor panel.
// The returned slice is a copy; callers may append config extras freely.
func DefaultPanel() []Vendor {
	panel := make([]Vendor, len(defaultPanel))
	copy(panel, defaultPanel)
	return panel
}

var defaultPanel = []Vendor{
	{Name: "Boots", Domain: "boots.com"},
	{Name: "Superdrug", Domain: "superdrug.com"},
	{Name: "Tesco", Domain: "tesco.com"},
	{Name: "Asda", Domain: "asda.com"},
	{Name: "Sainsbury's", Domain: "sainsburys.co.uk"},
	{Name: "Morrisons", Domain: "morrisons.com"},
	{Name: "Waitrose", Domain: "waitrose.com"},
	{Name: "Ocado", Domain: "ocado.com"},
	{Name: "Iceland", Domain: "iceland.co.uk"},
	{Name: "Wilko", Domain: "wilko.com"},
	{Name: "Savers", Domain: "savers.co.uk"},
	{Name: "Bodycare", Domain: "bodycareonline.co.uk"},
	{Name: "Home Bargains", Domain: "homebargains.co.uk"},
	{Name: "B&M", Domain: "bmstores.co.uk"},
	{Name: "Poundland", Domain: "poundland.co.uk"},
	{Name: "Lloyds Pharmacy", Domain: "lloydspharmacy.com"},
	{Name: "Chemist Direct", Domain: "chemistdirect.co.uk"},
}
