package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type ledgerFixture struct {
	ledger      *stock.StockLedgerUseCase
	lotRepo     *memory.StockLotRepo
	consumption *memory.LotConsumptionRepo
}

func newLedgerFixture() *ledgerFixture {
	lotRepo := memory.NewStockLotRepository()
	consumptionRepo := memory.NewLotConsumptionRepository()
	txRunner := memory.NewTxRunner(memory.NewRoutingRepository(), lotRepo, consumptionRepo, memory.NewCarryOverRepository())
	return &ledgerFixture{
		ledger:      stock.NewStockLedgerUseCase(txRunner, lotRepo, consumptionRepo),
		lotRepo:     lotRepo,
		consumption: consumptionRepo,
	}
}

// addLot crea un lote directamente en el repositorio con ReceivedAt controlado,
// para fijar el orden FIFO de forma determinista.
func (f *ledgerFixture) addLot(t *testing.T, materialID, lotNumber string, qty float64, receivedAt time.Time) {
	t.Helper()
	now := time.Now()
	err := f.lotRepo.Create(&entity.StockLot{
		ID:         uuid.New().String(),
		MaterialID: materialID,
		LotNumber:  lotNumber,
		Quantity:   decimal.NewFromFloat(qty),
		UsedQty:    decimal.Zero,
		ReceivedAt: receivedAt,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
}

func (f *ledgerFixture) usedOf(t *testing.T, materialID, lotNumber string) decimal.Decimal {
	t.Helper()
	lot, err := f.lotRepo.GetByMaterialAndLot(materialID, lotNumber)
	require.NoError(t, err)
	require.NotNil(t, lot)
	return lot.UsedQty
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

var (
	day1 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	day3 = time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
)

// ──────────────────────────────────────────────────────────────────────────────
// Recepción de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_NormalizaYCrea(t *testing.T) {
	f := newLedgerFixture()

	lot, err := f.ledger.Receive("MAT-1", "  lot-a ", d(10), "A-01")
	require.NoError(t, err)

	assert.Equal(t, "LOT-A", lot.LotNumber, "el número de lote debe normalizarse a mayúsculas")
	assert.True(t, lot.UsedQty.IsZero())
	assert.True(t, lot.AvailableQty().Equal(d(10)))
}

func TestReceive_DuplicadoPorMaterialYLote(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.ledger.Receive("MAT-1", "LOT-A", d(10), "")
	require.NoError(t, err)

	_, err = f.ledger.Receive("MAT-1", "lot-a", d(5), "")
	assert.ErrorIs(t, err, domain.ErrDuplicate,
		"el mismo lote del mismo material no puede recibirse dos veces")

	// El mismo número de lote en otro material sí es válido.
	_, err = f.ledger.Receive("MAT-2", "LOT-A", d(5), "")
	assert.NoError(t, err)
}

func TestReceive_EntradaInvalida(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.ledger.Receive("", "LOT-A", d(10), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.Receive("MAT-1", "LOT-A", d(0), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero no es una recepción")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo FIFO y tolerancia a negativo
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad central del ledger: L1(5, día 1) y L2(3, día 2); consumir 6 agota
// L1 y toma 1 de L2; consumir 5 más sin negativo falla sin mutar; la misma
// llamada con negativo deja el disponible total en -3.
func TestConsumeFIFO_PropiedadFIFOYNegativo(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	f.addLot(t, "MAT-1", "L1", 5, day1)
	f.addLot(t, "MAT-1", "L2", 3, day2)

	// Fase 1: consumo 6 sin negativo — L1 completo, L2 parcial.
	usages, err := f.ledger.ConsumeFIFO(ctx, "MAT-1", d(6), "", false)
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, "L1", usages[0].LotNumber)
	assert.True(t, usages[0].UsedQty.Equal(d(5)), "L1 debe agotarse primero")
	assert.Equal(t, "L2", usages[1].LotNumber)
	assert.True(t, usages[1].UsedQty.Equal(d(1)))
	assert.True(t, f.usedOf(t, "MAT-1", "L1").Equal(d(5)))
	assert.True(t, f.usedOf(t, "MAT-1", "L2").Equal(d(1)))

	// Fase 2: consumo 5 sin negativo — insuficiente, todo-o-nada.
	_, err = f.ledger.ConsumeFIFO(ctx, "MAT-1", d(5), "", false)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.usedOf(t, "MAT-1", "L1").Equal(d(5)), "la insuficiencia no debe mutar L1")
	assert.True(t, f.usedOf(t, "MAT-1", "L2").Equal(d(1)), "la insuficiencia no debe mutar L2")

	// Fase 3: el mismo consumo con negativo — el remanente recae en L2 (más reciente).
	usages, err = f.ledger.ConsumeFIFO(ctx, "MAT-1", d(5), "", true)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, "L2", usages[0].LotNumber, "el remanente forzado recae en el lote más reciente")
	assert.True(t, usages[0].UsedQty.Equal(d(5)))
	assert.True(t, usages[0].WentNegative)

	total, err := f.ledger.AvailableQty("MAT-1")
	require.NoError(t, err)
	assert.True(t, total.Equal(d(-3)), "(5+3) - (6+5) = -3, obtenido %s", total)
}

func TestConsumeFIFO_SinLotesFallaAunConNegativo(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.ledger.ConsumeFIFO(context.Background(), "MAT-X", d(1), "", true)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"sin ningún lote no hay dónde registrar el negativo")
}

func TestConsumeFIFO_RegistraFilasPuente(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L1", 5, day1)
	f.addLot(t, "MAT-1", "L2", 3, day2)

	_, err := f.ledger.ConsumeFIFO(context.Background(), "MAT-1", d(6), "PL-100", false)
	require.NoError(t, err)

	rows, err := f.consumption.ListByProductionLot("PL-100")
	require.NoError(t, err)
	require.Len(t, rows, 2, "cada lote tocado deja su fila puente")
	assert.True(t, rows[0].Quantity.Equal(d(5)))
	assert.True(t, rows[1].Quantity.Equal(d(1)))
}

func TestConsumeFIFO_SinLoteProduccionNoRegistraPuente(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L1", 5, day1)

	_, err := f.ledger.ConsumeFIFO(context.Background(), "MAT-1", d(2), "", false)
	require.NoError(t, err)

	count, err := f.consumption.CountByMaterialAndLot("MAT-1", "L1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestListLots_OrdenFIFO(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L3", 1, day3)
	f.addLot(t, "MAT-1", "L1", 1, day1)
	f.addLot(t, "MAT-1", "L2", 1, day2)

	lots, err := f.ledger.ListLots("MAT-1")
	require.NoError(t, err)
	require.Len(t, lots, 3)
	assert.Equal(t, "L1", lots[0].LotNumber)
	assert.Equal(t, "L2", lots[1].LotNumber)
	assert.Equal(t, "L3", lots[2].LotNumber)
}

func TestSummaryByMaterial(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L1", 5, day1)
	f.addLot(t, "MAT-1", "L2", 3, day2)
	f.addLot(t, "MAT-2", "L1", 7, day1)

	_, err := f.ledger.ConsumeFIFO(context.Background(), "MAT-1", d(4), "", false)
	require.NoError(t, err)

	summaries, err := f.ledger.SummaryByMaterial()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byMaterial := make(map[string]int)
	for i, s := range summaries {
		byMaterial[s.MaterialID] = i
	}
	s1 := summaries[byMaterial["MAT-1"]]
	assert.Equal(t, 2, s1.LotCount)
	assert.True(t, s1.TotalQuantity.Equal(d(8)))
	assert.True(t, s1.TotalUsed.Equal(d(4)))
	assert.True(t, s1.TotalAvailable.Equal(d(4)))
}

func TestLowStock_UmbralDeSeguridad(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L1", 2, day1)
	f.addLot(t, "MAT-2", "L1", 50, day1)

	low, err := f.ledger.LowStock(d(10))
	require.NoError(t, err)
	require.Len(t, low, 1, "solo MAT-1 está por debajo del umbral")
	assert.Equal(t, "MAT-1", low[0].MaterialID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteLot_RechazadoConConsumos(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L1", 5, day1)

	_, err := f.ledger.ConsumeFIFO(context.Background(), "MAT-1", d(2), "PL-1", false)
	require.NoError(t, err)

	lots, err := f.ledger.ListLots("MAT-1")
	require.NoError(t, err)
	require.Len(t, lots, 1)

	err = f.ledger.DeleteLot(lots[0].ID)
	assert.ErrorIs(t, err, domain.ErrLotInUse,
		"un lote con filas puente no puede eliminarse")
}

func TestDeleteLot_SinConsumos(t *testing.T) {
	f := newLedgerFixture()
	f.addLot(t, "MAT-1", "L1", 5, day1)

	lots, err := f.ledger.ListLots("MAT-1")
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteLot(lots[0].ID))

	remaining, err := f.ledger.ListLots("MAT-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, f.ledger.DeleteLot(lots[0].ID), domain.ErrNotFound)
}
