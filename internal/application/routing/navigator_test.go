package routing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ruta de referencia: CA(10) → MC(20) → PA(30) → CI(40) → VI(50).
func newNavigatorFixture(t *testing.T) *routingFixture {
	t.Helper()
	f := newRoutingFixture()
	_, err := f.uc.SetRouting(context.Background(), "PROD-1", []string{"CA", "MC", "PA", "CI", "VI"})
	require.NoError(t, err)
	return f
}

func TestNavigatorNext(t *testing.T) {
	f := newNavigatorFixture(t)

	next, err := f.navigator.Next("PROD-1", "PA")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "CI", next.ProcessCode)
	assert.Equal(t, 40, next.Seq)

	// La búsqueda es insensible a mayúsculas.
	next, err = f.navigator.Next("PROD-1", "ca")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "MC", next.ProcessCode)
}

func TestNavigatorNext_UltimoPaso(t *testing.T) {
	f := newNavigatorFixture(t)

	next, err := f.navigator.Next("PROD-1", "VI")
	require.NoError(t, err)
	assert.Nil(t, next, "después del último paso no hay siguiente")
}

func TestNavigatorPrevious(t *testing.T) {
	f := newNavigatorFixture(t)

	prev, err := f.navigator.Previous("PROD-1", "CI")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "PA", prev.ProcessCode)
}

func TestNavigatorPrevious_PrimerPaso(t *testing.T) {
	f := newNavigatorFixture(t)

	prev, err := f.navigator.Previous("PROD-1", "CA")
	require.NoError(t, err)
	assert.Nil(t, prev, "antes del primer paso no hay anterior")
}

func TestNavigator_CodigoFueraDeLaRuta(t *testing.T) {
	f := newNavigatorFixture(t)

	// Un código ausente devuelve nil en ambas direcciones, nunca error.
	next, err := f.navigator.Next("PROD-1", "HS")
	require.NoError(t, err)
	assert.Nil(t, next)
	prev, err := f.navigator.Previous("PROD-1", "HS")
	require.NoError(t, err)
	assert.Nil(t, prev)
}

func TestNavigatorFirstYLast(t *testing.T) {
	f := newNavigatorFixture(t)

	first, err := f.navigator.First("PROD-1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "CA", first.ProcessCode)

	last, err := f.navigator.Last("PROD-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "VI", last.ProcessCode)
}

func TestNavigator_RutaVacia(t *testing.T) {
	f := newRoutingFixture()

	first, err := f.navigator.First("SIN-RUTA")
	require.NoError(t, err)
	assert.Nil(t, first)
	last, err := f.navigator.Last("SIN-RUTA")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestNavigatorContainsYSeqOf(t *testing.T) {
	f := newNavigatorFixture(t)

	ok, err := f.navigator.Contains("PROD-1", "pa")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.navigator.Contains("PROD-1", "HS")
	require.NoError(t, err)
	assert.False(t, ok)

	seq, err := f.navigator.SeqOf("PROD-1", "PA")
	require.NoError(t, err)
	require.NotNil(t, seq)
	assert.Equal(t, 30, *seq)

	seq, err = f.navigator.SeqOf("PROD-1", "HS")
	require.NoError(t, err)
	assert.Nil(t, seq)
}
