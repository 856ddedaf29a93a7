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

type carryOverFixture struct {
	uc   *stock.CarryOverUseCase
	repo *memory.CarryOverRepo
}

func newCarryOverFixture() *carryOverFixture {
	repo := memory.NewCarryOverRepository()
	txRunner := memory.NewTxRunner(memory.NewRoutingRepository(),
		memory.NewStockLotRepository(), memory.NewLotConsumptionRepository(), repo)
	return &carryOverFixture{uc: stock.NewCarryOverUseCase(txRunner, repo), repo: repo}
}

// addCarryOver inserta un arrastre con CreatedAt controlado para fijar el orden FIFO.
func (f *carryOverFixture) addCarryOver(t *testing.T, lineID, materialID, lotNumber string, qty float64, createdAt time.Time) *entity.CarryOver {
	t.Helper()
	c := &entity.CarryOver{
		ID:         uuid.New().String(),
		LineID:     lineID,
		MaterialID: materialID,
		LotNumber:  lotNumber,
		Quantity:   d(qty),
		UsedQty:    decimal.Zero,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, f.repo.Create(c))
	return c
}

func (f *carryOverFixture) usedOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	c, err := f.repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.UsedQty
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestCarryOverRegister_NormalizaYArrancaEnCero(t *testing.T) {
	f := newCarryOverFixture()

	c, err := f.uc.Register("LINEA-1", "WIRE", "lote-a", d(20))
	require.NoError(t, err)
	assert.Equal(t, "LOTE-A", c.LotNumber)
	assert.True(t, c.UsedQty.IsZero())

	avail, err := f.uc.Available("LINEA-1", "WIRE")
	require.NoError(t, err)
	assert.True(t, avail.Equal(d(20)))
}

func TestCarryOverRegister_EntradaInvalida(t *testing.T) {
	f := newCarryOverFixture()

	_, err := f.uc.Register("", "WIRE", "L1", d(5))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Register("LINEA-1", "WIRE", "L1", d(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCarryOverAvailable_SoloDeLaLineaYMaterial(t *testing.T) {
	f := newCarryOverFixture()
	f.addCarryOver(t, "LINEA-1", "WIRE", "A", 10, day1)
	f.addCarryOver(t, "LINEA-1", "TERM", "B", 99, day1)
	f.addCarryOver(t, "LINEA-2", "WIRE", "C", 99, day1)

	avail, err := f.uc.Available("LINEA-1", "WIRE")
	require.NoError(t, err)
	assert.True(t, avail.Equal(d(10)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestCarryOverConsume_FIFOPorCreatedAt(t *testing.T) {
	f := newCarryOverFixture()
	viejo := f.addCarryOver(t, "LINEA-1", "WIRE", "A", 5, day1)
	nuevo := f.addCarryOver(t, "LINEA-1", "WIRE", "B", 5, day2)

	usages, err := f.uc.Consume(context.Background(), "LINEA-1", "WIRE", d(7), false)
	require.NoError(t, err)

	require.Len(t, usages, 2)
	assert.Equal(t, "A", usages[0].LotNumber, "el arrastre más viejo se agota primero")
	assert.True(t, usages[0].UsedQty.Equal(d(5)))
	assert.Equal(t, "B", usages[1].LotNumber)
	assert.True(t, usages[1].UsedQty.Equal(d(2)))
	assert.True(t, f.usedOf(t, viejo.ID).Equal(d(5)))
	assert.True(t, f.usedOf(t, nuevo.ID).Equal(d(2)))
}

func TestCarryOverConsume_InsuficienteSinNegativo(t *testing.T) {
	f := newCarryOverFixture()
	c := f.addCarryOver(t, "LINEA-1", "WIRE", "A", 5, day1)

	_, err := f.uc.Consume(context.Background(), "LINEA-1", "WIRE", d(8), false)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.usedOf(t, c.ID).IsZero(), "el fallo no muta nada")
}

func TestCarryOverConsume_SinArrastresFallaAunConNegativo(t *testing.T) {
	f := newCarryOverFixture()

	_, err := f.uc.Consume(context.Background(), "LINEA-1", "WIRE", d(1), true)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCarryOverConsume_NegativoSobreElMasReciente(t *testing.T) {
	f := newCarryOverFixture()
	viejo := f.addCarryOver(t, "LINEA-1", "WIRE", "A", 5, day1)
	nuevo := f.addCarryOver(t, "LINEA-1", "WIRE", "B", 3, day2)

	usages, err := f.uc.Consume(context.Background(), "LINEA-1", "WIRE", d(11), true)
	require.NoError(t, err)

	require.Len(t, usages, 2)
	assert.True(t, usages[0].UsedQty.Equal(d(5)))
	assert.False(t, usages[0].WentNegative)
	assert.Equal(t, "B", usages[1].LotNumber, "el remanente recae en el más reciente")
	assert.True(t, usages[1].UsedQty.Equal(d(6)))
	assert.True(t, usages[1].WentNegative)

	assert.True(t, f.usedOf(t, viejo.ID).Equal(d(5)))
	assert.True(t, f.usedOf(t, nuevo.ID).Equal(d(6)))

	avail, err := f.uc.Available("LINEA-1", "WIRE")
	require.NoError(t, err)
	assert.True(t, avail.Equal(d(-3)), "(5+3)-11 = -3")
}

func TestCarryOverConsume_CantidadInvalida(t *testing.T) {
	f := newCarryOverFixture()

	_, err := f.uc.Consume(context.Background(), "LINEA-1", "WIRE", d(0), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
