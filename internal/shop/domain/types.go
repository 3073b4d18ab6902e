package domain

// Customer is keyed by email; there is no update or delete path for
// customers in this system.
type Customer struct {
	Email   string `dynamodbav:"email"   json:"email"`
	Name    string `dynamodbav:"name"    json:"name"`
	Surname string `dynamodbav:"surname" json:"surname"`
	Address string `dynamodbav:"address,omitempty" json:"address,omitempty"`
}

// Product is keyed by its name. Re-adding an existing product adds to the
// stock and overwrites the price.
type Product struct {
	ProductName     string `dynamodbav:"product_name"     json:"product_name"`
	Price           Money  `dynamodbav:"price"            json:"price"`
	AvailableAmount int    `dynamodbav:"available_amount" json:"available_amount"`
}

// PurchaseItem is one line of a purchase.
type PurchaseItem struct {
	ProductName string `dynamodbav:"product_name" json:"product_name"`
	Amount      int    `dynamodbav:"amount"       json:"amount"`
}

// Purchase is keyed by (customer_email, purchase_id).
type Purchase struct {
	CustomerEmail string         `dynamodbav:"customer_email" json:"customer_email"`
	PurchaseID    string         `dynamodbav:"purchase_id"    json:"purchase_id"`
	Products      []PurchaseItem `dynamodbav:"products"       json:"products"`
	TotalPrice    Money          `dynamodbav:"total_price"    json:"total_price"`
}

// Client is the legacy record variant with full CRUD, keyed by a
// generated id rather than the email.
type Client struct {
	ClientID        string   `dynamodbav:"client_id"        json:"client_id"`
	Name            string   `dynamodbav:"name"             json:"name"`
	Surname         string   `dynamodbav:"surname"          json:"surname"`
	Email           string   `dynamodbav:"email"            json:"email"`
	ShippingAddress string   `dynamodbav:"shipping_address" json:"shipping_address"`
	Products        []string `dynamodbav:"products"         json:"products"`
}

// CustomerWithPurchases is a search result row: the customer plus their
// full purchase history.
type CustomerWithPurchases struct {
	Customer
	Purchases []Purchase `json:"purchases"`
}
