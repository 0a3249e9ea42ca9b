package repositories

import "github.com/vsinha/garmentmrp/pkg/domain/entities"

// PartnerRepository provides access to buyers, buying agencies and suppliers
type PartnerRepository interface {
	GetSupplierByName(name string) (*entities.Supplier, error)
	GetAllSuppliers() ([]*entities.Supplier, error)
	SaveSupplier(supplier *entities.Supplier) error
	DeleteSupplier(id string) error

	GetBuyer(id string) (*entities.Buyer, error)
	GetAllBuyers() ([]*entities.Buyer, error)
	SaveBuyer(buyer *entities.Buyer) error
	DeleteBuyer(id string) error

	GetAllAgencies() ([]*entities.BuyingAgency, error)
	SaveAgency(agency *entities.BuyingAgency) error
	DeleteAgency(id string) error
}
