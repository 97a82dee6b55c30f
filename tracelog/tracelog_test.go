package tracelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCreatesDailyFileWithHeader(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir)
	require.NoError(t, err)
	defer l.Close()

	when := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	require.NoError(t, l.Record(when, []int64{1, -2, 3}))

	body, err := os.ReadFile(filepath.Join(dir, "2026-03-05.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "utctime,count,items")
	assert.Contains(t, string(body), "3,1 -2 3")
}

func TestRecordRotatesOnDateChange(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Record(time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC), []int64{1}))
	require.NoError(t, l.Record(time.Date(2026, 3, 6, 0, 1, 0, 0, time.UTC), []int64{2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpenRejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Open(file)
	assert.Error(t, err)
}
