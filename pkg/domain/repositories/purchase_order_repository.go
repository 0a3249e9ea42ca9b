package repositories

import "github.com/vsinha/garmentmrp/pkg/domain/entities"

// PurchaseOrderRepository provides access to issued purchase orders
type PurchaseOrderRepository interface {
	GetOrder(id string) (*entities.IssuedPurchaseOrder, error)
	GetOrderByNumber(poNumber string) (*entities.IssuedPurchaseOrder, error)
	GetAllOrders() ([]*entities.IssuedPurchaseOrder, error)
	SaveOrder(order *entities.IssuedPurchaseOrder) error
	// NextSequence returns the next PO serial number for the given year
	NextSequence(year int) int
}
