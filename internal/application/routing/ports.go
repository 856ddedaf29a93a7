package routing

import (
	"context"

	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de rutas atado a esa tx. Las operaciones de reemplazo
// (SetRouting, SetRoutingFromPattern, CopyRouting) son pares borrar-e-insertar
// que deben ejecutarse en una sola transacción para que ningún observador vea
// una ruta vacía a mitad de la actualización.
type TxRunner interface {
	RunRouting(ctx context.Context, fn func(routingRepo repository.RoutingRepository) error) error
}
