package model

// OrderStatusNew is the only status this service assigns
const OrderStatusNew = "new"

// Order is a single-product order placed from the mini-app
type Order struct {
	ID                string `json:"id"`
	CustomerID        string `json:"customerId"`
	CustomerName      string `json:"customerName"`
	CustomerContact   string `json:"customerContact"`
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	DeliveryDate      string `json:"deliveryDate"`
	Packaging         string `json:"packaging"`
	DeliveryMethod    string `json:"deliveryMethod"`
	AdditionalComment string `json:"additionalComment"`
	CreatedAt         string `json:"createdAt"`
	Status            string `json:"status"`
}

// OrderInput carries the client-supplied order fields
type OrderInput struct {
	ProductID         string     `json:"productId"`
	ProductName       string     `json:"productName"`
	CustomerID        FlexString `json:"customerId"`
	CustomerName      string     `json:"customerName"`
	CustomerContact   string     `json:"customerContact"`
	DeliveryDate      string     `json:"deliveryDate"`
	Packaging         string     `json:"packaging"`
	DeliveryMethod    string     `json:"deliveryMethod"`
	AdditionalComment string     `json:"additionalComment"`
}
