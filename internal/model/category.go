package model

// Category is the fixed complaint taxonomy. Submissions carrying anything
// outside this set are rejected up front instead of stored as free text.
type Category string

const (
	CategoryElectrical Category = "ELECTRICAL"
	CategoryPlumbing   Category = "PLUMBING"
	CategoryCarpentry  Category = "CARPENTRY"
	CategoryCleaning   Category = "CLEANING"
	CategoryInternet   Category = "INTERNET"
	CategoryFurniture  Category = "FURNITURE"
	CategoryMedical    Category = "MEDICAL"
	CategoryOther      Category = "OTHER"
)

var categories = map[Category]struct{}{
	CategoryElectrical: {},
	CategoryPlumbing:   {},
	CategoryCarpentry:  {},
	CategoryCleaning:   {},
	CategoryInternet:   {},
	CategoryFurniture:  {},
	CategoryMedical:    {},
	CategoryOther:      {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}
