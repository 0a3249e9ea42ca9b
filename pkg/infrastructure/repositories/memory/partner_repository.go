package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

// PartnerRepository provides in-memory storage of reference records
type PartnerRepository struct {
	mu        sync.RWMutex
	suppliers []entities.Supplier
	buyers    []entities.Buyer
	agencies  []entities.BuyingAgency
}

// NewPartnerRepository creates a new in-memory partner repository
func NewPartnerRepository() *PartnerRepository {
	return &PartnerRepository{}
}

// Verify interface compliance
var _ repositories.PartnerRepository = (*PartnerRepository)(nil)

// LoadSuppliers loads suppliers into the repository
func (r *PartnerRepository) LoadSuppliers(suppliers []*entities.Supplier) error {
	for _, s := range suppliers {
		if err := r.SaveSupplier(s); err != nil {
			return err
		}
	}
	return nil
}

// GetSupplierByName looks a supplier up by name, ignoring case
func (r *PartnerRepository) GetSupplierByName(name string) (*entities.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.suppliers {
		if strings.EqualFold(r.suppliers[i].Name, name) {
			s := r.suppliers[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("supplier %s: %w", name, shared.ErrNotFound)
}

// GetAllSuppliers returns all suppliers
func (r *PartnerRepository) GetAllSuppliers() ([]*entities.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suppliers := make([]*entities.Supplier, 0, len(r.suppliers))
	for i := range r.suppliers {
		s := r.suppliers[i]
		suppliers = append(suppliers, &s)
	}
	return suppliers, nil
}

// SaveSupplier inserts or replaces a supplier by id
func (r *PartnerRepository) SaveSupplier(supplier *entities.Supplier) error {
	if supplier == nil || supplier.ID == "" {
		return fmt.Errorf("supplier id cannot be empty: %w", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.suppliers {
		if r.suppliers[i].ID == supplier.ID {
			r.suppliers[i] = *supplier
			return nil
		}
	}
	r.suppliers = append(r.suppliers, *supplier)
	return nil
}

// DeleteSupplier removes a supplier by id
func (r *PartnerRepository) DeleteSupplier(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.suppliers {
		if r.suppliers[i].ID == id {
			r.suppliers = append(r.suppliers[:i], r.suppliers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("supplier %s: %w", id, shared.ErrNotFound)
}

// GetBuyer returns a buyer by id
func (r *PartnerRepository) GetBuyer(id string) (*entities.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.buyers {
		if r.buyers[i].ID == id {
			b := r.buyers[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("buyer %s: %w", id, shared.ErrNotFound)
}

// GetAllBuyers returns all buyers
func (r *PartnerRepository) GetAllBuyers() ([]*entities.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buyers := make([]*entities.Buyer, 0, len(r.buyers))
	for i := range r.buyers {
		b := r.buyers[i]
		buyers = append(buyers, &b)
	}
	return buyers, nil
}

// SaveBuyer inserts or replaces a buyer by id
func (r *PartnerRepository) SaveBuyer(buyer *entities.Buyer) error {
	if buyer == nil || buyer.ID == "" {
		return fmt.Errorf("buyer id cannot be empty: %w", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.buyers {
		if r.buyers[i].ID == buyer.ID {
			r.buyers[i] = *buyer
			return nil
		}
	}
	r.buyers = append(r.buyers, *buyer)
	return nil
}

// DeleteBuyer removes a buyer by id
func (r *PartnerRepository) DeleteBuyer(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.buyers {
		if r.buyers[i].ID == id {
			r.buyers = append(r.buyers[:i], r.buyers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("buyer %s: %w", id, shared.ErrNotFound)
}

// GetAllAgencies returns all buying agencies
func (r *PartnerRepository) GetAllAgencies() ([]*entities.BuyingAgency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agencies := make([]*entities.BuyingAgency, 0, len(r.agencies))
	for i := range r.agencies {
		a := r.agencies[i]
		agencies = append(agencies, &a)
	}
	return agencies, nil
}

// SaveAgency inserts or replaces a buying agency by id
func (r *PartnerRepository) SaveAgency(agency *entities.BuyingAgency) error {
	if agency == nil || agency.ID == "" {
		return fmt.Errorf("agency id cannot be empty: %w", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.agencies {
		if r.agencies[i].ID == agency.ID {
			r.agencies[i] = *agency
			return nil
		}
	}
	r.agencies = append(r.agencies, *agency)
	return nil
}

// DeleteAgency removes a buying agency by id
func (r *PartnerRepository) DeleteAgency(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.agencies {
		if r.agencies[i].ID == id {
			r.agencies = append(r.agencies[:i], r.agencies[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("agency %s: %w", id, shared.ErrNotFound)
}
