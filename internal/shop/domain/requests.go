package domain

import (
	"bytes"
	"errors"
	"strconv"
)

var ErrNotAnInteger = errors.New("amount must be an integer")

// IntField is an integer request field that tolerates both JSON numbers
// and numeric strings, since values forwarded from HTML forms arrive
// quoted.
type IntField int

func (f *IntField) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrNotAnInteger
	}
	*f = IntField(n)
	return nil
}

func (f IntField) Int() int { return int(f) }

type AddCustomerRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type AddProductRequest struct {
	ProductName     string    `json:"product_name"`
	Price           *Money    `json:"price"`
	AvailableAmount *IntField `json:"available_amount"`
}

type MakePurchaseRequest struct {
	CustomerEmail    string    `json:"customer_email"`
	ProductName      string    `json:"product_name"`
	AmountToPurchase *IntField `json:"amount_to_purchase"`
}

type AddClientRequest struct {
	Name            string   `json:"name"`
	Surname         string   `json:"surname"`
	Email           string   `json:"email"`
	ShippingAddress string   `json:"shipping_address"`
	Products        []string `json:"products"`
}

// UpdateClientRequest carries only the fields present in the body;
// nil means "leave unchanged".
type UpdateClientRequest struct {
	Name            *string   `json:"name"`
	Surname         *string   `json:"surname"`
	Email           *string   `json:"email"`
	ShippingAddress *string   `json:"shipping_address"`
	Products        *[]string `json:"products"`
}

// PurchaseConfirmation is the success payload of the purchase workflow.
type PurchaseConfirmation struct {
	PurchaseID  string `json:"purchase_id"`
	ProductName string `json:"product_name"`
	Amount      int    `json:"amount"`
	TotalPrice  Money  `json:"total_price"`
}
