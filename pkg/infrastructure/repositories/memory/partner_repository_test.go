package memory

import (
	"errors"
	"testing"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

func TestPartnerRepository_Suppliers(t *testing.T) {
	repo := NewPartnerRepository()
	supplier, err := entities.NewSupplier("S1", "Arvind Mills", "USD", "60 days")
	if err != nil {
		t.Fatalf("Failed to create supplier: %v", err)
	}
	if err := repo.LoadSuppliers([]*entities.Supplier{supplier}); err != nil {
		t.Fatalf("Failed to load suppliers: %v", err)
	}

	found, err := repo.GetSupplierByName("arvind mills")
	if err != nil {
		t.Fatalf("Expected case-insensitive lookup to succeed: %v", err)
	}
	if found.CreditTerms != "60 days" {
		t.Errorf("Expected credit terms '60 days', got %s", found.CreditTerms)
	}

	supplier.CreditTerms = "90 days"
	if err := repo.SaveSupplier(supplier); err != nil {
		t.Fatalf("Failed to update supplier: %v", err)
	}
	all, _ := repo.GetAllSuppliers()
	if len(all) != 1 {
		t.Fatalf("Expected update in place, got %d suppliers", len(all))
	}
	if all[0].CreditTerms != "90 days" {
		t.Errorf("Expected updated credit terms, got %s", all[0].CreditTerms)
	}

	if err := repo.DeleteSupplier("S1"); err != nil {
		t.Fatalf("Failed to delete supplier: %v", err)
	}
	if _, err := repo.GetSupplierByName("Arvind Mills"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestPartnerRepository_BuyersAndAgencies(t *testing.T) {
	repo := NewPartnerRepository()

	if err := repo.SaveBuyer(&entities.Buyer{ID: "B1", Name: "Northwind Apparel"}); err != nil {
		t.Fatalf("Failed to save buyer: %v", err)
	}
	if err := repo.SaveAgency(&entities.BuyingAgency{ID: "A1", Name: "Li & Co"}); err != nil {
		t.Fatalf("Failed to save agency: %v", err)
	}
	if err := repo.SaveBuyer(&entities.Buyer{}); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty buyer id, got %v", err)
	}

	buyer, err := repo.GetBuyer("B1")
	if err != nil {
		t.Fatalf("Failed to get buyer: %v", err)
	}
	if buyer.Name != "Northwind Apparel" {
		t.Errorf("Expected buyer name 'Northwind Apparel', got %s", buyer.Name)
	}

	agencies, _ := repo.GetAllAgencies()
	if len(agencies) != 1 {
		t.Errorf("Expected 1 agency, got %d", len(agencies))
	}
	if err := repo.DeleteAgency("A1"); err != nil {
		t.Errorf("Failed to delete agency: %v", err)
	}
	if err := repo.DeleteBuyer("B2"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
