package model

// Product is a catalog item as stored in the Products sheet
type Product struct {
	ID             string   `json:"id"`
	CategoryID     string   `json:"categoryId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Ingredients    string   `json:"ingredients"`
	Images         []string `json:"images"`
	IsAvailable    bool     `json:"isAvailable"`
	Price          string   `json:"price"`
	AdditionalInfo string   `json:"additionalInfo"`
}

// Category groups products
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}
