package routing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mes-api/internal/application/routing"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type routingFixture struct {
	uc        *routing.RoutingUseCase
	navigator *routing.Navigator
	validator *routing.Validator
	repo      *memory.RoutingRepo
}

func newRoutingFixture() *routingFixture {
	routingRepo := memory.NewRoutingRepository()
	processRepo := memory.NewProcessRepositoryWithDefaults()
	txRunner := memory.NewTxRunner(routingRepo, memory.NewStockLotRepository(),
		memory.NewLotConsumptionRepository(), memory.NewCarryOverRepository())
	return &routingFixture{
		uc:        routing.NewRoutingUseCase(txRunner, routingRepo, processRepo),
		navigator: routing.NewNavigator(routingRepo),
		validator: routing.NewValidator(routingRepo, processRepo),
		repo:      routingRepo,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reemplazo de ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestSetRouting_IdaYVuelta(t *testing.T) {
	f := newRoutingFixture()
	ctx := context.Background()

	created, err := f.uc.SetRouting(ctx, "PROD-1", []string{"ca", "sp", "ci"})
	require.NoError(t, err)
	require.Len(t, created, 3)

	entries, err := f.uc.GetRouting("PROD-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Los códigos vuelven normalizados, en el orden de entrada, con Seq 10, 20, 30.
	for i, want := range []string{"CA", "SP", "CI"} {
		assert.Equal(t, want, entries[i].ProcessCode)
		assert.Equal(t, (i+1)*10, entries[i].Seq)
		assert.True(t, entries[i].IsRequired)
	}
}

func TestSetRouting_ReemplazoIdempotente(t *testing.T) {
	f := newRoutingFixture()
	ctx := context.Background()

	_, err := f.uc.SetRouting(ctx, "PROD-1", []string{"CA", "MC", "SP", "CI"})
	require.NoError(t, err)
	_, err = f.uc.SetRouting(ctx, "PROD-1", []string{"CA", "PA", "VI"})
	require.NoError(t, err)

	// El reemplazo borra todo lo anterior: el conteo es el de la última llamada.
	count, err := f.uc.CountRoutings("PROD-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	entries, err := f.uc.GetRouting("PROD-1")
	require.NoError(t, err)
	assert.Equal(t, "PA", entries[1].ProcessCode, "los pasos obsoletos desaparecieron")
}

func TestSetRouting_RutaVacia(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.SetRouting(context.Background(), "PROD-1", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyRouting)
}

func TestSetRouting_CodigoDesconocido(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.SetRouting(context.Background(), "PROD-1", []string{"CA", "XX"})
	assert.ErrorIs(t, err, domain.ErrInvalidProcessCode)

	// El fallo de validación es previo a cualquier escritura.
	count, err := f.uc.CountRoutings("PROD-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSetRouting_CodigoRepetido(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.SetRouting(context.Background(), "PROD-1", []string{"CA", "ca"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSetRoutingFromPattern_FidelidadDelPatron(t *testing.T) {
	f := newRoutingFixture()
	ctx := context.Background()

	cases := []struct {
		pattern string
		codes   []string
	}{
		{"simple", []string{"CA", "SP", "PA", "CI", "VI"}},
		{"medium", []string{"CA", "MC", "SP", "TW", "PA", "AS", "CI", "VI"}},
		{"complex", []string{"CA", "MC", "SP", "TW", "HS", "PA", "AS", "TE", "CI", "VI"}},
	}
	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			_, err := f.uc.SetRoutingFromPattern(ctx, "PROD-"+tc.pattern, tc.pattern)
			require.NoError(t, err)

			entries, err := f.uc.GetRouting("PROD-" + tc.pattern)
			require.NoError(t, err)
			require.Len(t, entries, len(tc.codes))
			for i, want := range tc.codes {
				assert.Equal(t, want, entries[i].ProcessCode)
				assert.Equal(t, (i+1)*10, entries[i].Seq)
			}
		})
	}
}

func TestSetRoutingFromPattern_PatronDesconocido(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.SetRoutingFromPattern(context.Background(), "PROD-1", "deluxe")
	assert.ErrorIs(t, err, domain.ErrUnknownPattern)
}

// ──────────────────────────────────────────────────────────────────────────────
// Copia y limpieza
// ──────────────────────────────────────────────────────────────────────────────

func TestCopyRouting_DuplicaPasos(t *testing.T) {
	f := newRoutingFixture()
	ctx := context.Background()

	_, err := f.uc.SetRouting(ctx, "ORIGEN", []string{"CA", "SP", "CI"})
	require.NoError(t, err)
	// El destino tenía una ruta previa que debe desaparecer.
	_, err = f.uc.SetRouting(ctx, "DESTINO", []string{"MC", "VI"})
	require.NoError(t, err)

	copies, err := f.uc.CopyRouting(ctx, "ORIGEN", "DESTINO")
	require.NoError(t, err)
	require.Len(t, copies, 3)

	entries, err := f.uc.GetRouting("DESTINO")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	source, err := f.uc.GetRouting("ORIGEN")
	require.NoError(t, err)
	for i := range entries {
		assert.Equal(t, source[i].ProcessCode, entries[i].ProcessCode)
		assert.Equal(t, source[i].Seq, entries[i].Seq)
		assert.NotEqual(t, source[i].ID, entries[i].ID, "son filas nuevas, no referencias")
		assert.Equal(t, "DESTINO", entries[i].ProductID)
	}
}

func TestCopyRouting_OrigenVacio(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.CopyRouting(context.Background(), "ORIGEN", "DESTINO")
	assert.ErrorIs(t, err, domain.ErrNothingToCopy)
}

func TestCopyRouting_MismoProducto(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.CopyRouting(context.Background(), "PROD-1", "PROD-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClearRouting_DevuelveCuantosHabia(t *testing.T) {
	f := newRoutingFixture()
	ctx := context.Background()

	_, err := f.uc.SetRouting(ctx, "PROD-1", []string{"CA", "SP", "CI"})
	require.NoError(t, err)

	removed, err := f.uc.ClearRouting(ctx, "PROD-1")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	removed, err = f.uc.ClearRouting(ctx, "PROD-1")
	require.NoError(t, err)
	assert.Zero(t, removed, "limpiar una ruta vacía no es error")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pasos sueltos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateEntry_InsertaEnPosicion(t *testing.T) {
	f := newRoutingFixture()
	ctx := context.Background()

	_, err := f.uc.SetRouting(ctx, "PROD-1", []string{"CA", "CI"})
	require.NoError(t, err)

	// Seq 15 cae entre CA (10) y CI (20).
	_, err = f.uc.CreateEntry(routing.CreateEntryInput{
		ProductID: "PROD-1", ProcessCode: "sp", Seq: 15, IsRequired: false,
	})
	require.NoError(t, err)

	entries, err := f.uc.GetRouting("PROD-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "SP", entries[1].ProcessCode)
	assert.False(t, entries[1].IsRequired)
}

func TestCreateEntry_ProcesoYaEnRuta(t *testing.T) {
	f := newRoutingFixture()

	_, err := f.uc.SetRouting(context.Background(), "PROD-1", []string{"CA", "CI"})
	require.NoError(t, err)

	_, err = f.uc.CreateEntry(routing.CreateEntryInput{
		ProductID: "PROD-1", ProcessCode: "CA", Seq: 99, IsRequired: true,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateEntry_CambiaSeqYRequerido(t *testing.T) {
	f := newRoutingFixture()

	created, err := f.uc.SetRouting(context.Background(), "PROD-1", []string{"CA", "CI"})
	require.NoError(t, err)

	seq := 35
	req := false
	updated, err := f.uc.UpdateEntry(created[0].ID, &seq, &req)
	require.NoError(t, err)
	assert.Equal(t, 35, updated.Seq)
	assert.False(t, updated.IsRequired)

	// Con Seq 35, CA pasó a ser el último paso.
	entries, err := f.uc.GetRouting("PROD-1")
	require.NoError(t, err)
	assert.Equal(t, "CA", entries[1].ProcessCode)
}

func TestUpdateEntry_NoExiste(t *testing.T) {
	f := newRoutingFixture()

	seq := 10
	_, err := f.uc.UpdateEntry("no-existe", &seq, nil)
	assert.ErrorIs(t, err, domain.ErrRoutingEntryNotFound)
}

func TestDeleteEntry(t *testing.T) {
	f := newRoutingFixture()

	created, err := f.uc.SetRouting(context.Background(), "PROD-1", []string{"CA", "SP", "CI"})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteEntry(created[1].ID))

	count, err := f.uc.CountRoutings("PROD-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = f.uc.DeleteEntry(created[1].ID)
	assert.ErrorIs(t, err, domain.ErrRoutingEntryNotFound)
}
