package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
	"github.com/jdmichaud/rdicom/pkg/dicomweb"
	"github.com/jdmichaud/rdicom/pkg/index"
)

const serverConfig = `
indexing:
  fields:
    studies: [ StudyInstanceUID, PatientName ]
    series: [ SeriesInstanceUID, Modality ]
    instances: [ SOPInstanceUID ]
table_name: dicom_index
`

func writeServerFile(t *testing.T, dir, name string, fields map[tag.Tag]string) {
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
	_, err := dicom.WriteFile(filepath.Join(dir, name), ds)
	require.NoError(t, err)
}

// newTestServer scans two studies into a fresh index and serves it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	writeServerFile(t, root, "a.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "1.2.3",
		tag.SeriesInstanceUID: "1.2.3.1",
		tag.SOPInstanceUID:    "1.2.3.1.1",
		tag.PatientName:       "DOE^JANE",
		tag.Modality:          "CT",
		tag.StudyDescription:  "CHEST CT",
	})
	writeServerFile(t, root, "b.dcm", map[tag.Tag]string{
		tag.StudyInstanceUID:  "4.5.6",
		tag.SeriesInstanceUID: "4.5.6.1",
		tag.SOPInstanceUID:    "4.5.6.1.1",
		tag.PatientName:       "ROE^RICHARD",
		tag.Modality:          "MR",
		tag.StudyDescription:  "BRAIN MR",
	})

	cfg, err := index.ParseConfig([]byte(serverConfig))
	require.NoError(t, err)
	store, err := index.OpenSQLStore(filepath.Join(t.TempDir(), "index.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	scanner := &index.Scanner{Config: cfg, Store: store, Workers: 2}
	_, err = scanner.Scan(context.Background(), root)
	require.NoError(t, err)

	srv := httptest.NewServer(New(store.DB(), cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (*http.Response, []dicomweb.JSONDataset) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}
	var objects []dicomweb.JSONDataset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&objects))
	return resp, objects
}

func TestSearchStudiesFuzzyWildcard(t *testing.T) {
	srv := newTestServer(t)

	resp, objects := getJSON(t, srv.URL+"/studies?PatientName=doe*&fuzzymatching=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeDICOMJSON, resp.Header.Get("Content-Type"))
	require.Len(t, objects, 1)

	name := objects[0]["00100010"]
	require.Len(t, name.Value, 1)
	alpha, _ := name.Value[0].(map[string]interface{})
	assert.Equal(t, "DOE^JANE", alpha["Alphabetic"])
}

func TestSearchStudiesExactMatchIsCaseSensitive(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := getJSON(t, srv.URL+"/studies?PatientName=doe^jane")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSearchStudiesWildcardWithoutFuzzyIsCaseSensitive(t *testing.T) {
	srv := newTestServer(t)
	// Without fuzzymatching the indexed wildcard path behaves like the
	// lazy post-filter: case matters.
	resp, _ := getJSON(t, srv.URL+"/studies?PatientName=doe*")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, objects := getJSON(t, srv.URL+"/studies?PatientName=DOE*")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, objects, 1)
}

func TestNonIndexedWildcardMatchesIndexedBehaviour(t *testing.T) {
	srv := newTestServer(t)
	// Modality is post-filtered on studies; same case rules as SQL.
	resp, _ := getJSON(t, srv.URL+"/studies?Modality=c*")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, objects := getJSON(t, srv.URL+"/studies?Modality=c*&fuzzymatching=true")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, objects, 1)
}

func TestSearchByHexAttributeID(t *testing.T) {
	srv := newTestServer(t)
	resp, objects := getJSON(t, srv.URL+"/studies?00100010=DOE^JANE")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, objects, 1)
}

func TestSearchSeriesUnderStudy(t *testing.T) {
	srv := newTestServer(t)
	resp, objects := getJSON(t, srv.URL+"/studies/1.2.3/series")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, objects, 1)
	assert.Equal(t, []interface{}{"1.2.3.1"}, []interface{}(objects[0]["0020000E"].Value))
}

func TestSearchInstancesUnderSeries(t *testing.T) {
	srv := newTestServer(t)
	resp, objects := getJSON(t, srv.URL+"/studies/1.2.3/series/1.2.3.1/instances")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, objects, 1)
	assert.Equal(t, "1.2.3.1.1", objects[0]["00080018"].Value[0])
}

func TestNonIndexedFilterReopensFile(t *testing.T) {
	srv := newTestServer(t)
	// Modality is not a studies column; survivors are re-checked from disk.
	resp, objects := getJSON(t, srv.URL+"/studies?Modality=CT")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, objects, 1)
	assert.Equal(t, "1.2.3", objects[0]["0020000D"].Value[0])
}

func TestIncludeFieldLazyResolution(t *testing.T) {
	srv := newTestServer(t)
	resp, objects := getJSON(t, srv.URL+"/studies?PatientName=DOE^JANE&includefield=StudyDescription")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, objects, 1)
	desc := objects[0]["00081030"]
	require.Len(t, desc.Value, 1)
	assert.Equal(t, "CHEST CT", desc.Value[0])
}

func TestIncludeFieldCommaAndRepeated(t *testing.T) {
	srv := newTestServer(t)
	// Both forms are accepted, per the standard.
	for _, query := range []string{
		"includefield=StudyDescription,Modality",
		"includefield=StudyDescription&includefield=Modality",
	} {
		resp, objects := getJSON(t, srv.URL+"/studies?PatientName=DOE^JANE&"+query)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, objects, 1)
		assert.Contains(t, objects[0], "00081030", "query %s", query)
		assert.Contains(t, objects[0], "00080060", "query %s", query)
	}
}

func TestLimitTruncationReturns206(t *testing.T) {
	srv := newTestServer(t)
	resp, objects := getJSON(t, srv.URL+"/studies?limit=1")
	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Len(t, objects, 1)

	// Offset past the truncation reaches the second study.
	resp, objects = getJSON(t, srv.URL+"/studies?limit=1&offset=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, objects, 1)
	assert.Equal(t, "4.5.6", objects[0]["0020000D"].Value[0])
}

func TestUnknownAttributeIs400(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/studies?NotAKeyword=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBadUIDPathSegmentIs400(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/studies/1.2.3%3Bdrop/series")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStorageEndpointsReturn501(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/studies", contentTypeDICOMJSON, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/studies", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestCapabilities(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/capabilities")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "rdicom", doc["name"])
}

func TestMetadataEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, objects := getJSON(t, srv.URL+"/studies/1.2.3/metadata")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, objects, 1)
	// Metadata carries fields the index never stored.
	desc := objects[0]["00081030"]
	require.Len(t, desc.Value, 1)
	assert.Equal(t, "CHEST CT", desc.Value[0])
}

func TestMetadataUnknownStudyIs404(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/studies/9.9.9/metadata")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParseSearchParamsIncludeAll(t *testing.T) {
	p, err := parseSearchParams(map[string][]string{"includefield": {"all"}})
	require.NoError(t, err)
	assert.True(t, p.includeAll)
}

func TestWildcardToLike(t *testing.T) {
	assert.Equal(t, "DOE%", wildcardToLike("DOE*"))
	assert.Equal(t, "D_E", wildcardToLike("D?E"))
	assert.Equal(t, `100\%`, wildcardToLike("100%"))
}

func TestWildcardToGlob(t *testing.T) {
	assert.Equal(t, "DOE*", wildcardToGlob("DOE*"))
	assert.Equal(t, "D?E", wildcardToGlob("D?E"))
	assert.Equal(t, "[[]a]*", wildcardToGlob("[a]*"))
}

func TestMatchValue(t *testing.T) {
	assert.True(t, matchValue("DOE*", "DOE^JANE", false))
	assert.False(t, matchValue("doe*", "DOE^JANE", false))
	assert.True(t, matchValue("doe*", "DOE^JANE", true))
	assert.True(t, matchValue("D?E^JANE", "DOE^JANE", false))
	assert.False(t, matchValue("DOE", "DOE^JANE", false))
}
