package index

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStore(t *testing.T) {
	var buf bytes.Buffer
	store, err := NewCSVStore(&buf, []string{"StudyInstanceUID", "PatientName"})
	require.NoError(t, err)

	require.NoError(t, store.Begin())
	require.NoError(t, store.Write(Entry{
		Path:   "/data/a.dcm",
		Fields: Row{"StudyInstanceUID": "1.2.3", "PatientName": "DOE^JANE"},
	}))
	require.NoError(t, store.Write(Entry{
		Path:   "/data/b.dcm",
		Fields: Row{"StudyInstanceUID": "1.2.4"},
	}))
	require.NoError(t, store.Commit())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"StudyInstanceUID", "PatientName", "filepath"}, records[0])
	assert.Equal(t, []string{"1.2.3", "DOE^JANE", "/data/a.dcm"}, records[1])
	// Absent fields are written as "undefined".
	assert.Equal(t, []string{"1.2.4", "undefined", "/data/b.dcm"}, records[2])
}
