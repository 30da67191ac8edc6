package models

// MenuCategory represents the category of a menu item
type MenuCategory string

const (
	// Menu categories. Only main dishes go through the pots.
	CategoryMainDish MenuCategory = "main_dish"
	CategoryTopping  MenuCategory = "topping"
	CategorySideDish MenuCategory = "side_dish"
	CategoryBeverage MenuCategory = "beverage"
)

// MenuItem represents a dish the counter can serve
type MenuItem struct {
	Name     string
	Category MenuCategory
	Toppings []string
}

// DefaultMenu returns the udon counter's standing menu. The simulated
// order feed draws from this list.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Name: "kake udon", Category: CategoryMainDish},
		{Name: "kamatama udon", Category: CategoryMainDish, Toppings: []string{"raw egg"}},
		{Name: "zaru udon", Category: CategoryMainDish},
		{Name: "niku udon", Category: CategoryMainDish, Toppings: []string{"simmered beef"}},
		{Name: "green onion", Category: CategoryTopping},
		{Name: "tempura crumbs", Category: CategoryTopping},
		{Name: "kakiage", Category: CategorySideDish},
		{Name: "onigiri", Category: CategorySideDish},
		{Name: "green tea", Category: CategoryBeverage},
	}
}

// MainDishes filters the menu down to the cooking category.
func MainDishes(menu []MenuItem) []MenuItem {
	var out []MenuItem
	for _, m := range menu {
		if m.Category == CategoryMainDish {
			out = append(out, m)
		}
	}
	return out
}
