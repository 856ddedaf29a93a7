package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios de stock atados a esa tx. Garantiza atomicidad para cada
// deducción, consumo o rollback.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(
		lotRepo repository.StockLotRepository,
		consumptionRepo repository.LotConsumptionRepository,
	) error) error
	RunCarryOver(ctx context.Context, fn func(carryOverRepo repository.CarryOverRepository) error) error
}

// MaterialRequirement un material requerido por el BOM, ya escalado por la
// cantidad a producir.
type MaterialRequirement struct {
	MaterialID   string
	MaterialCode string
	MaterialName string
	RequiredQty  decimal.Decimal
}

// BOMResolver colaborador externo que resuelve la lista de materiales
// requeridos para producir qty unidades de un producto en un proceso.
// Se asume determinista y sin efectos secundarios.
type BOMResolver interface {
	CalculateRequiredMaterials(ctx context.Context, productID, processCode string, qty decimal.Decimal) ([]MaterialRequirement, error)
}

// ScannedLot resultado de decodificar un código de barras de material ya
// ligado a un lote concreto. Un escaneo inválido llega con IsValid en false
// y se trata como material/lote desconocido, nunca como excepción.
type ScannedLot struct {
	MaterialCode string
	LotNumber    string
	Quantity     decimal.Decimal
	IsValid      bool
}

// BarcodeDecoder colaborador externo que interpreta una cadena de escaneo
// opaca. El núcleo solo consume el resultado estructurado.
type BarcodeDecoder interface {
	DecodeMaterialLabel(scan string) ScannedLot
}
