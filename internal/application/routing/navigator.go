package routing

import (
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// Navigator recorre la ruta de un producto paso a paso. Todas las consultas
// operan sobre la ruta ordenada por Seq ascendente; un código ausente de la
// ruta devuelve nil, nunca error.
type Navigator struct {
	routingRepo repository.RoutingRepository
}

// NewNavigator construye el navegador.
func NewNavigator(routingRepo repository.RoutingRepository) *Navigator {
	return &Navigator{routingRepo: routingRepo}
}

// Next devuelve el paso con el menor Seq estrictamente mayor que el de
// fromCode, o nil si fromCode no está en la ruta o es el último paso.
func (n *Navigator) Next(productID, fromCode string) (*entity.RoutingEntry, error) {
	entries, current, err := n.locate(productID, fromCode)
	if err != nil || current < 0 {
		return nil, err
	}
	if current+1 >= len(entries) {
		return nil, nil
	}
	return entries[current+1], nil
}

// Previous devuelve el paso con el mayor Seq estrictamente menor que el de
// fromCode, o nil si fromCode no está en la ruta o es el primer paso.
func (n *Navigator) Previous(productID, fromCode string) (*entity.RoutingEntry, error) {
	entries, current, err := n.locate(productID, fromCode)
	if err != nil || current <= 0 {
		return nil, err
	}
	return entries[current-1], nil
}

// First devuelve el paso de menor Seq, o nil para una ruta vacía.
func (n *Navigator) First(productID string) (*entity.RoutingEntry, error) {
	entries, err := n.routingRepo.ListByProduct(productID)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

// Last devuelve el paso de mayor Seq, o nil para una ruta vacía.
func (n *Navigator) Last(productID string) (*entity.RoutingEntry, error) {
	entries, err := n.routingRepo.ListByProduct(productID)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[len(entries)-1], nil
}

// Contains indica si el proceso pertenece a la ruta del producto.
func (n *Navigator) Contains(productID, code string) (bool, error) {
	_, current, err := n.locate(productID, code)
	if err != nil {
		return false, err
	}
	return current >= 0, nil
}

// SeqOf devuelve el Seq del proceso en la ruta, o nil si no pertenece.
func (n *Navigator) SeqOf(productID, code string) (*int, error) {
	entries, current, err := n.locate(productID, code)
	if err != nil || current < 0 {
		return nil, err
	}
	seq := entries[current].Seq
	return &seq, nil
}

// locate devuelve la ruta ordenada y la posición del código en ella (-1 si no está).
func (n *Navigator) locate(productID, code string) ([]*entity.RoutingEntry, int, error) {
	entries, err := n.routingRepo.ListByProduct(productID)
	if err != nil {
		return nil, -1, err
	}
	normalized := domain.NormalizeCode(code)
	for i, e := range entries {
		if e.ProcessCode == normalized {
			return entries, i, nil
		}
	}
	return entries, -1, nil
}
