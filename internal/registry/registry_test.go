package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsense/domain/table"
	apperrors "sheetsense/internal/errors"
)

func tableNamed(name string) *table.TableInfo {
	return &table.TableInfo{
		Name:  name,
		Table: &table.NormalizedTable{Columns: []string{"a"}},
	}
}

func TestRegistry_AddAndGet(t *testing.T) {
	reg := New(nil)

	reg.Add(tableNamed("report_Sheet1"))
	reg.Add(tableNamed("report_Sheet2"))

	assert.Equal(t, 2, reg.Count())

	info, err := reg.GetByName("report_Sheet1")
	require.NoError(t, err)
	assert.Equal(t, "report_Sheet1", info.Name)

	_, err = reg.GetByName("missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestRegistry_AddReplacesSameName(t *testing.T) {
	reg := New(nil)

	first := tableNamed("report_Sheet1")
	second := tableNamed("report_Sheet1")
	second.Table = &table.NormalizedTable{Columns: []string{"b"}}

	reg.Add(first)
	reg.Add(second)

	assert.Equal(t, 1, reg.Count())
	info, err := reg.GetByName("report_Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, info.Table.Columns)
}

func TestRegistry_ListPreservesInsertionOrder(t *testing.T) {
	reg := New(nil)
	for i := 0; i < 5; i++ {
		reg.Add(tableNamed(fmt.Sprintf("t%d", i)))
	}

	listed := reg.List()
	require.Len(t, listed, 5)
	for i, info := range listed {
		assert.Equal(t, fmt.Sprintf("t%d", i), info.Name)
	}
}

func TestRegistry_Clear(t *testing.T) {
	dir := t.TempDir()
	storage := NewUploadStorage(dir)

	_, err := storage.Store(context.Background(), strings.NewReader("data"), "book.xlsx")
	require.NoError(t, err)

	reg := New(storage)
	reg.Add(tableNamed("t1"))

	require.NoError(t, reg.Clear(context.Background()))
	assert.Zero(t, reg.Count())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reg.Add(tableNamed(fmt.Sprintf("t%d", i)))
			reg.List()
			reg.Count()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, reg.Count())
}

func TestUploadStorage_StoreUsesUniqueNames(t *testing.T) {
	storage := NewUploadStorage(t.TempDir())

	first, err := storage.Store(context.Background(), strings.NewReader("a"), "book.xlsx")
	require.NoError(t, err)
	second, err := storage.Store(context.Background(), strings.NewReader("b"), "book.xlsx")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, ".xlsx", filepath.Ext(first))
	assert.True(t, strings.HasPrefix(filepath.Base(first), "book_"))

	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
}

func TestUploadStorage_ClearMissingDirectory(t *testing.T) {
	storage := NewUploadStorage(filepath.Join(t.TempDir(), "never-created"))
	assert.NoError(t, storage.Clear(context.Background()))
}
