package domain

import "fmt"

// Category is a closed classification tag. The wire value is the display label.
type Category string

const (
	CategoryGroceries           Category = "Groceries"
	CategoryDineOut             Category = "Dine Out"
	CategoryShopping            Category = "Shopping"
	CategoryCar                 Category = "Car"
	CategoryEntertainment       Category = "Entertainment"
	CategoryMedical             Category = "Medical"
	CategoryTransportation      Category = "Transportation"
	CategoryPersonalImprovement Category = "Personal Improvement"
	CategoryHousing             Category = "Housing"
	CategoryHomeImprovement     Category = "Home Improvement"
	CategoryUtilities           Category = "Utilities"
	CategoryGift                Category = "Gift"
	CategoryTravel              Category = "Travel"
	CategoryMiscellaneous       Category = "Miscellaneous"

	CategorySalary    Category = "Salary"
	CategoryTaxReturn Category = "Tax Return"
	CategoryCashBack  Category = "Cash Back"
)

// allCategories keeps declaration order; pickers and tests rely on it.
var allCategories = []Category{
	CategoryGroceries,
	CategoryDineOut,
	CategoryShopping,
	CategoryCar,
	CategoryEntertainment,
	CategoryMedical,
	CategoryTransportation,
	CategoryPersonalImprovement,
	CategoryHousing,
	CategoryHomeImprovement,
	CategoryUtilities,
	CategoryGift,
	CategoryTravel,
	CategoryMiscellaneous,
	CategorySalary,
	CategoryTaxReturn,
	CategoryCashBack,
}

var earningCategories = map[Category]bool{
	CategorySalary:    true,
	CategoryTaxReturn: true,
	CategoryCashBack:  true,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ExpenseCategories returns the expense-producing categories.
func ExpenseCategories() []Category {
	var out []Category
	for _, c := range allCategories {
		if c.IsExpense() {
			out = append(out, c)
		}
	}
	return out
}

// EarningCategories returns the earning-producing categories.
func EarningCategories() []Category {
	var out []Category
	for _, c := range allCategories {
		if c.IsEarning() {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategory validates a wire value.
func ParseCategory(s string) (Category, error) {
	for _, c := range allCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) IsEarning() bool { return earningCategories[c] }

func (c Category) IsExpense() bool { return c.Valid() && !c.IsEarning() }

func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// DisplayName is the label shown to users and matched by search.
func (c Category) DisplayName() string { return string(c) }
