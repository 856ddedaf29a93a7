package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubBOMResolver devuelve requerimientos fijos por unidad, escalados por qty.
type stubBOMResolver struct {
	perUnit map[string]decimal.Decimal // materialID -> cantidad por unidad
}

func (s *stubBOMResolver) CalculateRequiredMaterials(_ context.Context, _, _ string, qty decimal.Decimal) ([]stock.MaterialRequirement, error) {
	var out []stock.MaterialRequirement
	// Orden determinista para los asserts.
	for _, id := range []string{"WIRE", "TERM", "TUBE"} {
		per, ok := s.perUnit[id]
		if !ok {
			continue
		}
		out = append(out, stock.MaterialRequirement{
			MaterialID:   id,
			MaterialCode: id + "-CODE",
			RequiredQty:  per.Mul(qty),
		})
	}
	return out, nil
}

type deductionFixture struct {
	*ledgerFixture
	deduction *stock.BOMDeductionUseCase
}

func newDeductionFixture(perUnit map[string]decimal.Decimal) *deductionFixture {
	lf := newLedgerFixture()
	processRepo := memory.NewProcessRepositoryWithDefaults()
	txRunner := memory.NewTxRunner(memory.NewRoutingRepository(), lf.lotRepo, lf.consumption, memory.NewCarryOverRepository())
	return &deductionFixture{
		ledgerFixture: lf,
		deduction:     stock.NewBOMDeductionUseCase(txRunner, processRepo, lf.lotRepo, &stubBOMResolver{perUnit: perUnit}),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Deducción por BOM
// ──────────────────────────────────────────────────────────────────────────────

func TestDeduct_FIFOBasico(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(2), "TERM": d(4)})
	f.addLot(t, "WIRE", "W1", 15, day1)
	f.addLot(t, "WIRE", "W2", 10, day2)
	f.addLot(t, "TERM", "T1", 50, day1)

	result, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:       "PROD-1",
		ProcessCode:     "ca", // minúsculas: debe normalizarse
		ProductionLotID: "PL-1",
		ProductionQty:   d(10),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Items, 2)

	wire := result.Items[0]
	assert.Equal(t, "WIRE", wire.MaterialID)
	assert.True(t, wire.RequiredQty.Equal(d(20)), "2 por unidad x 10 unidades")
	assert.True(t, wire.DeductedQty.Equal(d(20)))
	assert.True(t, wire.RemainingQty.IsZero())
	assert.True(t, wire.Success)
	require.Len(t, wire.Lots, 2, "W1 se agota y W2 cubre el resto")
	assert.Equal(t, "W1", wire.Lots[0].LotNumber)
	assert.True(t, wire.Lots[0].UsedQty.Equal(d(15)))
	assert.Equal(t, "W2", wire.Lots[1].LotNumber)
	assert.True(t, wire.Lots[1].UsedQty.Equal(d(5)))

	term := result.Items[1]
	assert.True(t, term.DeductedQty.Equal(d(40)))

	// Las filas puente quedan ligadas al lote de producción.
	rows, err := f.consumption.ListByProductionLot("PL-1")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestDeduct_HintsPrimeroLuegoFIFO(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1)})
	f.addLot(t, "WIRE", "W1", 10, day1)
	f.addLot(t, "WIRE", "W2", 10, day2)

	// El operario escaneó W2: se consume primero aunque sea el más reciente.
	result, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:       "PROD-1",
		ProcessCode:     "CA",
		ProductionLotID: "PL-1",
		ProductionQty:   d(12),
		LotHints:        []stock.LotHint{{MaterialID: "WIRE", LotNumber: "w2", Quantity: d(10)}},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.True(t, item.Success)
	require.Len(t, item.Lots, 2)
	assert.Equal(t, "W2", item.Lots[0].LotNumber, "el lote escaneado va primero")
	assert.True(t, item.Lots[0].UsedQty.Equal(d(10)))
	assert.Equal(t, "W1", item.Lots[1].LotNumber, "el resto cae al FIFO")
	assert.True(t, item.Lots[1].UsedQty.Equal(d(2)))
}

func TestDeduct_HintDesconocidoCaeAlFIFO(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1)})
	f.addLot(t, "WIRE", "W1", 10, day1)

	// Escaneo inválido: el lote no existe; la cantidad completa cae al FIFO.
	result, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:     "PROD-1",
		ProcessCode:   "CA",
		ProductionQty: d(5),
		LotHints:      []stock.LotHint{{MaterialID: "WIRE", LotNumber: "NO-EXISTE", Quantity: d(5)}},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	require.Len(t, result.Items[0].Lots, 1)
	assert.Equal(t, "W1", result.Items[0].Lots[0].LotNumber)
	assert.True(t, result.Items[0].Success)
}

func TestDeduct_FaltanteSinNegativoNoRevierteOtrosMateriales(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1), "TERM": d(10)})
	f.addLot(t, "WIRE", "W1", 100, day1)
	f.addLot(t, "TERM", "T1", 5, day1) // muy por debajo de lo requerido

	result, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:       "PROD-1",
		ProcessCode:     "CA",
		ProductionLotID: "PL-1",
		ProductionQty:   d(10),
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1, "solo TERM reporta faltante")
	assert.Contains(t, result.Errors[0], "TERM")

	wire, term := result.Items[0], result.Items[1]
	assert.True(t, wire.Success, "WIRE se dedujo completo")
	assert.True(t, f.usedOf(t, "WIRE", "W1").Equal(d(10)),
		"el faltante de TERM no revierte lo ya deducido de WIRE")
	assert.False(t, term.Success)
	assert.True(t, term.DeductedQty.IsZero(), "el FIFO de TERM es todo-o-nada")
	assert.True(t, term.RemainingQty.Equal(d(100)))
	assert.NotEmpty(t, term.Message)
}

func TestDeduct_NegativoForzadoSiempreDeduceCompleto(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"TERM": d(10)})
	f.addLot(t, "TERM", "T1", 5, day1)

	result, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:     "PROD-1",
		ProcessCode:   "CA",
		ProductionQty: d(10),
		AllowNegative: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Success, "con negativo la deducción nunca falla por faltante")
	assert.Empty(t, result.Errors)
	item := result.Items[0]
	assert.True(t, item.Success)
	assert.True(t, item.DeductedQty.Equal(d(100)))
	assert.True(t, item.AllowedNegative)
	assert.True(t, f.usedOf(t, "TERM", "T1").Equal(d(100)))
}

func TestDeduct_ProcesoSinEntradaDeMaterial(t *testing.T) {
	// TW (torcido) no consume materiales: deducción trivialmente exitosa.
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1)})

	result, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:     "PROD-1",
		ProcessCode:   "TW",
		ProductionQty: d(10),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Items)
}

func TestDeduct_ProcesoDesconocido(t *testing.T) {
	f := newDeductionFixture(nil)

	_, err := f.deduction.Deduct(context.Background(), stock.DeductionInput{
		ProductID:     "PROD-1",
		ProcessCode:   "XX",
		ProductionQty: d(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProcessCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollback
// ──────────────────────────────────────────────────────────────────────────────

func TestRollback_InversoDeLaDeduccion(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(2), "TERM": d(4)})
	f.addLot(t, "WIRE", "W1", 15, day1)
	f.addLot(t, "WIRE", "W2", 10, day2)
	f.addLot(t, "TERM", "T1", 50, day1)
	ctx := context.Background()

	_, err := f.deduction.Deduct(ctx, stock.DeductionInput{
		ProductID:       "PROD-1",
		ProcessCode:     "CA",
		ProductionLotID: "PL-1",
		ProductionQty:   d(10),
	})
	require.NoError(t, err)

	restored, err := f.deduction.Rollback(ctx, "PL-1")
	require.NoError(t, err)
	assert.Equal(t, 3, restored, "W1, W2 y T1 fueron tocados")

	// Todos los UsedQty vuelven a su valor previo.
	assert.True(t, f.usedOf(t, "WIRE", "W1").IsZero())
	assert.True(t, f.usedOf(t, "WIRE", "W2").IsZero())
	assert.True(t, f.usedOf(t, "TERM", "T1").IsZero())

	rows, err := f.consumption.ListByProductionLot("PL-1")
	require.NoError(t, err)
	assert.Empty(t, rows, "las filas puente desaparecen con el rollback")
}

func TestRollback_Idempotente(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1)})
	f.addLot(t, "WIRE", "W1", 10, day1)
	ctx := context.Background()

	_, err := f.deduction.Deduct(ctx, stock.DeductionInput{
		ProductID:       "PROD-1",
		ProcessCode:     "CA",
		ProductionLotID: "PL-1",
		ProductionQty:   d(4),
	})
	require.NoError(t, err)

	restored, err := f.deduction.Rollback(ctx, "PL-1")
	require.NoError(t, err)
	assert.Equal(t, 1, restored)

	restored, err = f.deduction.Rollback(ctx, "PL-1")
	require.NoError(t, err)
	assert.Zero(t, restored, "el segundo rollback no encuentra nada que restaurar")
	assert.True(t, f.usedOf(t, "WIRE", "W1").IsZero(), "el estado no cambia")
}

func TestRollback_NoDejaUsadoNegativo(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1)})
	f.addLot(t, "WIRE", "W1", 10, day1)
	ctx := context.Background()

	_, err := f.deduction.Deduct(ctx, stock.DeductionInput{
		ProductID:       "PROD-1",
		ProcessCode:     "CA",
		ProductionLotID: "PL-1",
		ProductionQty:   d(4),
	})
	require.NoError(t, err)

	// Alguien ajustó el lote por fuera: el rollback no debe dejar UsedQty < 0.
	lot, err := f.lotRepo.GetByMaterialAndLot("WIRE", "W1")
	require.NoError(t, err)
	lot.UsedQty = d(1)
	require.NoError(t, f.lotRepo.Update(lot))

	_, err = f.deduction.Rollback(ctx, "PL-1")
	require.NoError(t, err)
	assert.True(t, f.usedOf(t, "WIRE", "W1").IsZero(), "el piso del rollback es cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación previa
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability_ReportaFaltanteSinMutar(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(2), "TERM": d(4)})
	f.addLot(t, "WIRE", "W1", 30, day1)
	f.addLot(t, "TERM", "T1", 10, day1)

	result, err := f.deduction.CheckAvailability(context.Background(), "PROD-1", "CA", d(10))
	require.NoError(t, err)

	assert.False(t, result.Available)
	require.Len(t, result.Items, 2)

	wire := result.Items[0]
	assert.True(t, wire.ShortageQty.IsZero(), "WIRE alcanza")
	term := result.Items[1]
	assert.True(t, term.RequiredQty.Equal(d(40)))
	assert.True(t, term.AvailableQty.Equal(d(10)))
	assert.True(t, term.ShortageQty.Equal(d(30)))

	// Dry-run: nada se consumió.
	assert.True(t, f.usedOf(t, "WIRE", "W1").IsZero())
	assert.True(t, f.usedOf(t, "TERM", "T1").IsZero())
}

func TestCheckAvailability_TodoDisponible(t *testing.T) {
	f := newDeductionFixture(map[string]decimal.Decimal{"WIRE": d(1)})
	f.addLot(t, "WIRE", "W1", 100, day1)

	result, err := f.deduction.CheckAvailability(context.Background(), "PROD-1", "CA", d(10))
	require.NoError(t, err)
	assert.True(t, result.Available)
}
