package recipe

// Ingredient is a single line of a recipe's ingredient list.
// Quantity is free text ("1/2", "200", "to taste"); Unit is empty when absent.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

// Recipe represents a named dish with an ordered ingredient list.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Servings    string       `json:"servings,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}
