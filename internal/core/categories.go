package core

// Category is one entry of the fixed catalog. The catalog is partitioned by
// transaction type: income and expense categories are disjoint sets.
type Category struct {
	ID   string
	Name string
}

// Catalog is the ordered category set for one transaction type.
type Catalog []Category

var expenseCatalog = Catalog{
	{ID: "food", Name: "Food & Dining"},
	{ID: "transport", Name: "Transportation"},
	{ID: "housing", Name: "Housing"},
	{ID: "shopping", Name: "Shopping"},
	{ID: "entertainment", Name: "Entertainment"},
	{ID: "health", Name: "Health"},
	{ID: "travel", Name: "Travel"},
	{ID: "education", Name: "Education"},
	{ID: "bills", Name: "Bills & Utilities"},
	{ID: "other", Name: "Other"},
}

var incomeCatalog = Catalog{
	{ID: "salary", Name: "Salary"},
	{ID: "freelance", Name: "Freelance"},
	{ID: "investment", Name: "Investments"},
	{ID: "gift", Name: "Gifts"},
	{ID: "other_income", Name: "Other Income"},
}

// CatalogFor returns the catalog for the given type. An unknown type yields
// an empty catalog, so validation against it fails closed.
func CatalogFor(t TransactionType) Catalog {
	switch t {
	case Expense:
		return expenseCatalog
	case Income:
		return incomeCatalog
	}
	return nil
}

func (c Catalog) Contains(id string) bool {
	for _, cat := range c {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// NameOf resolves a category id to its display name, falling back to the id
// itself for records whose category left the catalog.
func (c Catalog) NameOf(id string) string {
	for _, cat := range c {
		if cat.ID == id {
			return cat.Name
		}
	}
	return id
}
