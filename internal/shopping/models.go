package shopping

import "time"

// ShoppingItem is one line of a shopping list. Custom items are also
// persisted in this shape inside a ListState.
type ShoppingItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  string   `json:"quantity"`
	Unit      string   `json:"unit,omitempty"`
	IsChecked bool     `json:"is_checked"`
	IsCustom  bool     `json:"is_custom"`
	Category  Category `json:"category"`
}

// CategoryItems is one category section of a ShoppingList.
type CategoryItems struct {
	Category Category       `json:"category"`
	Items    []ShoppingItem `json:"items"`
}

// ShoppingList is the assembled view for one week. Categories without items are omitted.
type ShoppingList struct {
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Categories []CategoryItems `json:"categories"`
}

// ItemCount returns the number of items across all categories.
func (l *ShoppingList) ItemCount() int {
	n := 0
	for _, c := range l.Categories {
		n += len(c.Items)
	}
	return n
}

// Find returns the item with the given id.
func (l *ShoppingList) Find(id string) (ShoppingItem, bool) {
	for _, c := range l.Categories {
		for _, it := range c.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return ShoppingItem{}, false
}

// CustomItemInput carries the user-supplied fields of a custom item.
// An empty Category is resolved by classifying Name.
type CustomItemInput struct {
	Name     string
	Quantity string
	Unit     string
	Category Category
}
