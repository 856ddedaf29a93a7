package entity

import "time"

// RoutingEntry representa la pertenencia de un proceso a la ruta de fabricación
// de un producto. (ProductID, ProcessCode) es único; el orden lo determina
// exclusivamente Seq ascendente, nunca el orden de inserción.
// Por convención los Seq son múltiplos de 10 para permitir inserciones posteriores.
type RoutingEntry struct {
	ID          string
	ProductID   string
	ProcessCode string // siempre en mayúsculas, referencia un Process activo
	Seq         int
	IsRequired  bool
	CreatedAt   time.Time
}
