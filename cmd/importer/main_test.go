package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hk-explorer-be/internal/pkg/serverutils"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadBatchShapes(t *testing.T) {
	record := `{"title":"Star Ferry","type":"sightseeing","difficulty":"easy","location":[114.168,22.293],"duration":0.5}`

	bare, err := readBatch(writeFile(t, "["+record+"]"))
	require.NoError(t, err)
	require.Len(t, bare.Challenges, 1)
	assert.Equal(t, "Star Ferry", bare.Challenges[0].Title)

	wrapped, err := readBatch(writeFile(t, `{"challenges":[`+record+`,`+record+`]}`))
	require.NoError(t, err)
	assert.Len(t, wrapped.Challenges, 2)
}

func TestReadBatchRejectsInvalid(t *testing.T) {
	_, err := readBatch(writeFile(t, `[{"type":"hiking","location":[114.1]}]`))
	assert.ErrorIs(t, err, serverutils.ErrValidation)

	_, err = readBatch(writeFile(t, `not json`))
	assert.Error(t, err)

	_, err = readBatch(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
