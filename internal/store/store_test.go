//go:build cgo

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-gta-reader/internal/gta"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "archive", "gta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(numero string, qtd int) gta.DocumentRecord {
	vaca := "Vaca"
	return gta.DocumentRecord{
		NumeroGTA: &numero,
		Categorias: []gta.CategoryLine{
			{Grupo: "Bovídeos", Especie: "Bovinos", Faixa: "13 a 24 meses", Sexo: "Fêmea", Quantidade: qtd},
			{Grupo: "Bovídeos", Especie: "Bovinos", Categoria: &vaca, Faixa: "Acima de 36 meses", Sexo: "Fêmea", Quantidade: 2},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := record("123456", 10)
	id, err := s.Save(ctx, "/gtas/123456.pdf", rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.Get(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "/gtas/123456.pdf", got.SourcePath)
	assert.Equal(t, rec, got.Data)
	assert.NotEmpty(t, got.ContentHash)
}

func TestSave_SameContentIsUpdated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "/a.pdf", record("123456", 10))
	require.NoError(t, err)
	second, err := s.Save(ctx, "/b.pdf", record("123456", 10))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := s.Get(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, "/b.pdf", got.SourcePath)

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 12, totals[0].Quantidade)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "000000")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, n := range []string{"111111", "222222", "333333"} {
		_, err := s.Save(ctx, n+".pdf", record(n, i+1))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "sem-numero.pdf", gta.DocumentRecord{Categorias: []gta.CategoryLine{}})
	require.NoError(t, err)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "", all[0].NumeroGTA)
	assert.Equal(t, "333333", all[1].NumeroGTA)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "a.pdf", record("111111", 10))
	require.NoError(t, err)
	_, err = s.Save(ctx, "b.pdf", record("222222", 5))
	require.NoError(t, err)

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CategoryTotal{{Especie: "Bovinos", Sexo: "Fêmea", Quantidade: 19}}, totals)
}
