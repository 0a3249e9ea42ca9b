package entities

import "fmt"

// Contact is a person at a partner
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Buyer is a brand or retailer placing orders
type Buyer struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Country  string    `json:"country"`
	Address  string    `json:"address"`
	Contacts []Contact `json:"contacts"`
}

// BuyingAgency sources orders on behalf of buyers
type BuyingAgency struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Contacts []Contact `json:"contacts"`
}

// Supplier sells materials; its currency and credit terms seed new POs
type Supplier struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Currency    string    `json:"currency"`
	CreditTerms string    `json:"creditTerms"`
	Contacts    []Contact `json:"contacts"`
}

// NewSupplier creates a validated Supplier
func NewSupplier(id, name, currency, creditTerms string) (*Supplier, error) {
	if id == "" {
		return nil, fmt.Errorf("supplier id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("supplier name cannot be empty")
	}
	return &Supplier{ID: id, Name: name, Currency: currency, CreditTerms: creditTerms}, nil
}
