package models

// RawFields are the unparsed values an adapter pulls from a product detail page.
type RawFields struct {
	Name       string
	PriceWhole string
	PriceCents string
	ImageURL   string
	// Details pairs label text with value text from the product's details list.
	Details map[string]string
}

// Detail keys shared by the adapters.
const (
	DetailBrand          = "Brand"
	DetailLiquorSize     = "Liquor Size"
	DetailAlcohol        = "Alcohol %"
	DetailStandardDrinks = "Standard Drinks"
)
