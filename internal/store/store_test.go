package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

func sampleTable() *table.Table {
	t := table.New([]table.Column{
		{Name: "FILE_NAME", Kind: table.KindString},
		{Name: "id", Kind: table.KindInt},
		{Name: "score", Kind: table.KindFloat},
		{Name: "ok", Kind: table.KindBool},
		{Name: "empty", Kind: table.KindNull},
	})
	_ = t.Append([]table.Value{table.String("run"), table.Int(1), table.Float(2), table.Bool(true), table.Null})
	_ = t.Append([]table.Value{table.String(`a "quoted" name`), table.Null, table.Float(-0.5), table.Null, table.Null})
	return t
}

type backendCase struct {
	name string
	open func(t *testing.T) Backend
}

func backends() []backendCase {
	cases := []backendCase{
		{name: "fs", open: func(t *testing.T) Backend {
			b, err := OpenFS(filepath.Join(t.TempDir(), "saved"))
			require.NoError(t, err)
			return b
		}},
		{name: "bolt", open: func(t *testing.T) Backend {
			b, err := OpenBolt(filepath.Join(t.TempDir(), "tables.db"))
			require.NoError(t, err)
			return b
		}},
		{name: "sqlite", open: func(t *testing.T) Backend {
			b, err := OpenSQLite(filepath.Join(t.TempDir(), "tables.sqlite"))
			require.NoError(t, err)
			return b
		}},
	}
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		cases = append(cases, backendCase{name: "postgres", open: func(t *testing.T) Backend {
			b, err := OpenPostgres(context.Background(), url, 2)
			require.NoError(t, err)
			for _, k := range mustKeys(t, b) {
				require.NoError(t, b.Delete(context.Background(), k))
			}
			return b
		}})
	}
	return cases
}

func mustKeys(t *testing.T, b Backend) []string {
	keys, err := b.Keys(context.Background())
	require.NoError(t, err)
	return keys
}

func TestStoreRoundTrip(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			s := New(bc.open(t))
			defer s.Close()

			want := sampleTable()
			require.True(t, s.Save(ctx, "sales", want))

			got := s.Load(ctx, "sales")
			require.NotNil(t, got)
			assert.Equal(t, want.Columns, got.Columns)
			assert.True(t, table.Equal(want, got), "loaded table differs: %+v", got)
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			s := New(bc.open(t))
			defer s.Close()

			require.True(t, s.Save(ctx, "t", sampleTable()))

			smaller := table.New([]table.Column{{Name: "x", Kind: table.KindInt}})
			_ = smaller.Append([]table.Value{table.Int(7)})
			require.True(t, s.Save(ctx, "t", smaller))

			got := s.Load(ctx, "t")
			require.NotNil(t, got)
			assert.True(t, table.Equal(smaller, got))
			assert.Equal(t, []string{"t"}, s.Names(ctx))
		})
	}
}

func TestStoreMissingAndDelete(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			ctx := context.Background()
			s := New(bc.open(t))
			defer s.Close()

			assert.Nil(t, s.Load(ctx, "nope"))
			assert.False(t, s.Delete(ctx, "nope"))

			require.True(t, s.Save(ctx, "a", sampleTable()))
			require.True(t, s.Save(ctx, "b", sampleTable()))
			assert.ElementsMatch(t, []string{"a", "b"}, s.Names(ctx))

			assert.True(t, s.Delete(ctx, "a"))
			assert.Nil(t, s.Load(ctx, "a"))
			assert.Equal(t, []string{"b"}, s.Names(ctx))

			_, err := s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	b, err := OpenFS(t.TempDir())
	require.NoError(t, err)
	s := New(b)

	assert.False(t, s.Save(ctx, "", sampleTable()))
	assert.False(t, s.Save(ctx, "x", nil))
	assert.False(t, s.Save(ctx, "../escape", sampleTable()))
	assert.False(t, s.Save(ctx, `dir\name`, sampleTable()))

	bad := table.New([]table.Column{{Name: "a", Kind: table.KindInt}})
	bad.Rows = append(bad.Rows, []table.Value{table.String("not an int")})
	assert.False(t, s.Save(ctx, "bad", bad))

	assert.Empty(t, s.Names(ctx))
}

func TestCheckName(t *testing.T) {
	for _, name := range []string{"sales", "q1 2024", "a.b", "..x"} {
		assert.NoError(t, CheckName(name), name)
	}
	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "a\x00b"} {
		assert.ErrorIs(t, CheckName(name), ErrInvalidName, name)
	}
}

func TestFSBackendIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenFS(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".save-123"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))
	require.NoError(t, b.Put(context.Background(), "real", []byte("{}")))

	assert.Equal(t, []string{"real"}, mustKeys(t, b))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), OpenConfig{Backend: "redis", DataPath: t.TempDir()})
	assert.Error(t, err)
}

func TestOpenFileBackends(t *testing.T) {
	for _, name := range []string{BackendFS, BackendBolt, BackendSQLite} {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "data")
			s, err := Open(context.Background(), OpenConfig{Backend: name, DataPath: dir})
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, name, s.Backend())
			assert.DirExists(t, dir)
		})
	}
}
