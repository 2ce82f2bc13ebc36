package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

// writeTestFile drops a small Part 10 file into dir.
func writeTestFile(t *testing.T, dir, name string, fields map[tag.Tag]string) string {
	t.Helper()
	ds := dicom.NewDataset()
	for tg, value := range fields {
		info := tag.Lookup(tg)
		v := info.VR
		if v == "" {
			v = vr.UN
		}
		require.NoError(t, ds.Add(&dicom.Attribute{Tag: tg, VR: v, Value: value}))
	}
	path := filepath.Join(dir, name)
	_, err := dicom.WriteFile(path, ds)
	require.NoError(t, err)
	return path
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)
	return cfg
}

func TestScanIntoSQLStore(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	writeTestFile(t, root, "a.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "1.2.3",
		tag.SeriesInstanceUID: "1.2.3.1",
		tag.SOPInstanceUID:    "1.2.3.1.1",
		tag.PatientName:       "DOE^JANE",
		tag.Modality:          "CT",
	})
	writeTestFile(t, sub, "b.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "1.2.4",
		tag.SeriesInstanceUID: "1.2.4.1",
		tag.SOPInstanceUID:    "1.2.4.1.1",
		tag.PatientName:       "ROE^RICHARD",
		tag.Modality:          "MR",
	})
	// A non-DICOM file is skipped silently.
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("not dicom"), 0o644))

	cfg := testConfig(t)
	store, err := OpenSQLStore(filepath.Join(t.TempDir(), "index.db"), cfg)
	require.NoError(t, err)
	defer store.Close()

	scanner := &Scanner{Config: cfg, Store: store, Workers: 2}
	stats, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Files)
	assert.Equal(t, int64(2), stats.Indexed)
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Zero(t, stats.Failed)

	var count int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM "studies"`).Scan(&count))
	assert.Equal(t, 2, count)

	var name string
	require.NoError(t, store.DB().QueryRow(
		`SELECT "PatientName" FROM "studies" WHERE "StudyInstanceUID" = ?`, "1.2.3").Scan(&name))
	assert.Equal(t, "DOE^JANE", name)

	var study string
	require.NoError(t, store.DB().QueryRow(
		`SELECT "StudyInstanceUID" FROM "series" WHERE "SeriesInstanceUID" = ?`, "1.2.4.1").Scan(&study))
	assert.Equal(t, "1.2.4", study)
}

func TestScanUpsertsByUID(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "a.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "1.2.3",
		tag.SeriesInstanceUID: "1.2.3.1",
		tag.SOPInstanceUID:    "1.2.3.1.1",
		tag.PatientName:       "FIRST",
	})

	cfg := testConfig(t)
	store, err := OpenSQLStore(filepath.Join(t.TempDir(), "index.db"), cfg)
	require.NoError(t, err)
	defer store.Close()

	scanner := &Scanner{Config: cfg, Store: store, Workers: 1}
	_, err = scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	// Rewrite the same instance with a new name; a rescan overwrites.
	writeTestFile(t, root, "a.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "1.2.3",
		tag.SeriesInstanceUID: "1.2.3.1",
		tag.SOPInstanceUID:    "1.2.3.1.1",
		tag.PatientName:       "SECOND",
	})
	_, err = scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	var count int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM "studies"`).Scan(&count))
	assert.Equal(t, 1, count)
	var name string
	require.NoError(t, store.DB().QueryRow(`SELECT "PatientName" FROM "studies"`).Scan(&name))
	assert.Equal(t, "SECOND", name)
}

func TestScanSurvivesCorruptFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "good.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "1.2.3",
		tag.SeriesInstanceUID: "1.2.3.1",
		tag.SOPInstanceUID:    "1.2.3.1.1",
	})
	// Valid magic, garbage dataset: logged, counted, scan continues.
	corrupt := append(make([]byte, 128), "DICM"...)
	corrupt = append(corrupt, 0x08, 0x00, 0x60, 0x00, 'C', 'S', 0xFF, 0x7F)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.dcm"), corrupt, 0o644))

	cfg := testConfig(t)
	store, err := OpenSQLStore(filepath.Join(t.TempDir(), "index.db"), cfg)
	require.NoError(t, err)
	defer store.Close()

	scanner := &Scanner{Config: cfg, Store: store, Workers: 2}
	stats, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Indexed)
	assert.Equal(t, int64(1), stats.Failed)
}
