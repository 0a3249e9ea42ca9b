package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

// PurchaseOrderRepository provides in-memory storage of issued purchase orders
type PurchaseOrderRepository struct {
	mu        sync.RWMutex
	orders    []entities.IssuedPurchaseOrder
	ordersMap map[string]int
	sequences map[int]int
}

// NewPurchaseOrderRepository creates a new in-memory purchase order repository
func NewPurchaseOrderRepository() *PurchaseOrderRepository {
	return &PurchaseOrderRepository{
		orders:    []entities.IssuedPurchaseOrder{},
		ordersMap: make(map[string]int),
		sequences: make(map[int]int),
	}
}

// Verify interface compliance
var _ repositories.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)

// GetOrder returns a copy of an order by id
func (r *PurchaseOrderRepository) GetOrder(id string) (*entities.IssuedPurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.ordersMap[id]
	if !exists {
		return nil, fmt.Errorf("purchase order %s: %w", id, shared.ErrNotFound)
	}
	return r.orders[index].Clone(), nil
}

// GetOrderByNumber returns a copy of an order by PO number
func (r *PurchaseOrderRepository) GetOrderByNumber(poNumber string) (*entities.IssuedPurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.orders {
		if r.orders[i].PONumber == poNumber {
			return r.orders[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("purchase order %s: %w", poNumber, shared.ErrNotFound)
}

// GetAllOrders returns copies of all orders in issue order
func (r *PurchaseOrderRepository) GetAllOrders() ([]*entities.IssuedPurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*entities.IssuedPurchaseOrder, 0, len(r.orders))
	for i := range r.orders {
		orders = append(orders, r.orders[i].Clone())
	}
	return orders, nil
}

// SaveOrder inserts or replaces an order
func (r *PurchaseOrderRepository) SaveOrder(order *entities.IssuedPurchaseOrder) error {
	if order == nil || order.ID == "" {
		return fmt.Errorf("purchase order id cannot be empty: %w", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := order.Clone()
	if index, exists := r.ordersMap[order.ID]; exists {
		r.orders[index] = *stored
		return nil
	}
	r.ordersMap[order.ID] = len(r.orders)
	r.orders = append(r.orders, *stored)
	return nil
}

// NextSequence returns the next PO serial for a year, starting at 1
func (r *PurchaseOrderRepository) NextSequence(year int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sequences[year]++
	return r.sequences[year]
}
