package model

// Category is the closed set of recipe categories.
// The zero value means "unselected".
type Category string

const (
	CategoryNone          Category = ""
	CategoryBreakfast     Category = "breakfast"
	CategoryLunch         Category = "lunch"
	CategoryDinner        Category = "dinner"
	CategoryDessert       Category = "dessert"
	CategorySide          Category = "side"
	CategoryAppetizer     Category = "appetizer"
	CategoryMiscellaneous Category = "miscellaneous"
)

var categoryLabels = map[Category]string{
	CategoryNone:          "-- select recipe category --",
	CategoryBreakfast:     "Breakfast",
	CategoryLunch:         "Lunch",
	CategoryDinner:        "Dinner",
	CategoryDessert:       "Dessert",
	CategorySide:          "Side Dish",
	CategoryAppetizer:     "Appetizer",
	CategoryMiscellaneous: "Miscellaneous",
}

// Categories returns the seven selectable categories in menu order.
func Categories() []Category {
	return []Category{
		CategoryBreakfast,
		CategoryLunch,
		CategoryDinner,
		CategoryDessert,
		CategorySide,
		CategoryAppetizer,
		CategoryMiscellaneous,
	}
}

// Options returns the selector options: the unselected sentinel followed by Categories.
func Options() []Category {
	return append([]Category{CategoryNone}, Categories()...)
}

// Label is the human-readable name shown in the selector.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the seven named categories.
func (c Category) Valid() bool {
	return c != CategoryNone && categoryLabels[c] != ""
}
