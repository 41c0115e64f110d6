package services

import (
	"fmt"
	"sync"
)

// MinOrderQuantity is the smallest quantity accepted for any line item, in the
// selection, at checkout and on order creation alike.
const MinOrderQuantity = 10

// SelectionItem is one selected product.
type SelectionItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Selection is the ephemeral product picking state of one user. Open mirrors
// the side panel that lists the selection: it opens on the first pick and
// closes when the selection becomes empty.
type Selection struct {
	quantities map[string]int
	order      []string
	open       bool
}

// NewSelection returns an empty, closed selection.
func NewSelection() *Selection {
	return &Selection{quantities: make(map[string]int)}
}

// Toggle selects productID with the minimum quantity, or unselects it when
// already selected. It reports whether the product is selected afterwards.
func (s *Selection) Toggle(productID string) bool {
	if _, ok := s.quantities[productID]; ok {
		s.Remove(productID)
		return false
	}
	s.quantities[productID] = MinOrderQuantity
	s.order = append(s.order, productID)
	s.open = true
	return true
}

// SetQuantity updates a selected product. Quantities below MinOrderQuantity
// are rejected and leave the selection untouched.
func (s *Selection) SetQuantity(productID string, quantity int) error {
	if quantity < MinOrderQuantity {
		return newValidationError("quantity", "minimum order quantity is %d, got %d", MinOrderQuantity, quantity)
	}
	if _, ok := s.quantities[productID]; !ok {
		return fmt.Errorf("product %s is not selected: %w", productID, ErrNotFound)
	}
	s.quantities[productID] = quantity
	return nil
}

// Remove drops productID; removing the last product closes the panel.
func (s *Selection) Remove(productID string) {
	if _, ok := s.quantities[productID]; !ok {
		return
	}
	delete(s.quantities, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.quantities) == 0 {
		s.open = false
	}
}

// Clear empties the selection and closes the panel.
func (s *Selection) Clear() {
	s.quantities = make(map[string]int)
	s.order = nil
	s.open = false
}

// Quantity returns the selected quantity of productID.
func (s *Selection) Quantity(productID string) (int, bool) {
	q, ok := s.quantities[productID]
	return q, ok
}

// Items lists the selection in pick order.
func (s *Selection) Items() []SelectionItem {
	items := make([]SelectionItem, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, SelectionItem{ProductID: id, Quantity: s.quantities[id]})
	}
	return items
}

// Quantities returns a copy of the productID -> quantity map.
func (s *Selection) Quantities() map[string]int {
	out := make(map[string]int, len(s.quantities))
	for k, v := range s.quantities {
		out[k] = v
	}
	return out
}

// IsOpen reports whether the selection panel is shown.
func (s *Selection) IsOpen() bool {
	return s.open
}

// Len returns the number of selected products.
func (s *Selection) Len() int {
	return len(s.quantities)
}

// SelectionView is the serializable state of a selection.
type SelectionView struct {
	Items []SelectionItem `json:"items"`
	Open  bool            `json:"open"`
}

func (s *Selection) view() SelectionView {
	return SelectionView{Items: s.Items(), Open: s.open}
}

// ISelectionService keeps one in-memory selection per user. Selections are
// never persisted and are lost on restart.
type ISelectionService interface {
	Get(userID string) SelectionView
	Toggle(userID, productID string) (SelectionView, error)
	SetQuantity(userID, productID string, quantity int) (SelectionView, error)
	Remove(userID, productID string) SelectionView
	Clear(userID string) SelectionView
	Quantities(userID string) map[string]int
}

// ProductChecker reports whether a product exists; used to refuse picking unknown ids.
type ProductChecker func(productID string) error

// SelectionService implements ISelectionService.
type SelectionService struct {
	mu         sync.Mutex
	selections map[string]*Selection
	exists     ProductChecker
}

// NewSelectionService creates a SelectionService. exists may be nil.
func NewSelectionService(exists ProductChecker) ISelectionService {
	return &SelectionService{selections: make(map[string]*Selection), exists: exists}
}

func (s *SelectionService) selectionFor(userID string) *Selection {
	sel, ok := s.selections[userID]
	if !ok {
		sel = NewSelection()
		s.selections[userID] = sel
	}
	return sel
}

func (s *SelectionService) Get(userID string) SelectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionFor(userID).view()
}

func (s *SelectionService) Toggle(userID, productID string) (SelectionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selectionFor(userID)
	if _, selected := sel.Quantity(productID); !selected && s.exists != nil {
		if err := s.exists(productID); err != nil {
			return sel.view(), err
		}
	}
	sel.Toggle(productID)
	return sel.view(), nil
}

func (s *SelectionService) SetQuantity(userID, productID string, quantity int) (SelectionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selectionFor(userID)
	err := sel.SetQuantity(productID, quantity)
	return sel.view(), err
}

func (s *SelectionService) Remove(userID, productID string) SelectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selectionFor(userID)
	sel.Remove(productID)
	return sel.view()
}

func (s *SelectionService) Clear(userID string) SelectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selectionFor(userID)
	sel.Clear()
	return sel.view()
}

func (s *SelectionService) Quantities(userID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionFor(userID).Quantities()
}
