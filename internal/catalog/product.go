package catalog

// Product is an immutable catalog entry. Identity is the numeric id: two
// products with the same id are interchangeable regardless of other fields.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Category values match the provider's raw category strings.
type Category string

const (
	CategoryElectronics   Category = "electronics"
	CategoryJewelry       Category = "jewelery"
	CategoryMenClothing   Category = "men's clothing"
	CategoryWomenClothing Category = "women's clothing"
)

func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryJewelry,
		CategoryMenClothing,
		CategoryWomenClothing,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryJewelry, CategoryMenClothing, CategoryWomenClothing:
		return true
	}
	return false
}

func (c Category) DisplayName() string {
	switch c {
	case CategoryElectronics:
		return "Electronics"
	case CategoryJewelry:
		return "Jewelry"
	case CategoryMenClothing:
		return "Men"
	case CategoryWomenClothing:
		return "Women"
	}
	return string(c)
}

// FilterByCategory returns the products whose category matches c.
func FilterByCategory(products []Product, c Category) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == string(c) {
			out = append(out, p)
		}
	}
	return out
}
