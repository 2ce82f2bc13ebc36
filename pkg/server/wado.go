package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/julienschmidt/httprouter"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicomweb"
	"github.com/jdmichaud/rdicom/pkg/index"
)

// metadata builds the WADO-RS metadata handler for one level: the full
// DICOM-JSON of every instance under the addressed study/series/instance,
// produced by re-opening the files through the decoder.
func (s *Server) metadata(level index.Level) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		filters := map[string]string{}
		for param, keyword := range map[string]string{
			"study":    "StudyInstanceUID",
			"series":   "SeriesInstanceUID",
			"instance": "SOPInstanceUID",
		} {
			uid := ps.ByName(param)
			if uid == "" {
				continue
			}
			if !validUID(uid) {
				s.mapError(w, fmt.Errorf("%w: %q is not a unique identifier", errBadRequest, uid))
				return
			}
			filters[keyword] = uid
		}

		release, err := s.acquire(r.Context())
		if err != nil {
			s.mapError(w, err)
			return
		}
		// Metadata always resolves through the instances table: whatever
		// the addressed level, the response is one object per instance.
		rows, err := s.queryLevel(r, index.Instances, filters, false)
		release()
		if err != nil {
			s.mapError(w, err)
			return
		}
		if len(rows) == 0 {
			s.mapError(w, fmt.Errorf("%w: no matching instances", errNotFound))
			return
		}

		objects := make([]dicomweb.JSONDataset, 0, len(rows))
		var models []*dicom.Dataset
		var modelRows []map[string]string
		for _, row := range rows {
			path, ok := row["filepath"]
			if !ok {
				continue
			}
			ds, err := dicom.ReadFile(path)
			if err != nil {
				s.log.Warn("metadata read failed", "path", path, "error", err)
				continue
			}
			if wantsXML(r) {
				models = append(models, ds)
				modelRows = append(modelRows, row)
				continue
			}
			obj, err := dicomweb.EncodeJSON(ds, s.bulkOptions(row))
			if err != nil {
				s.mapError(w, err)
				return
			}
			objects = append(objects, obj)
		}

		if wantsXML(r) {
			s.writeXMLModels(w, modelRows, models)
			return
		}
		s.writeSearchResponse(w, r, objects, false)
	}
}

// bulkOptions points bulk values at the instance's bulkdata URI instead
// of inlining megabytes of pixel data into metadata.
func (s *Server) bulkOptions(row map[string]string) dicomweb.Options {
	study := row["StudyInstanceUID"]
	series := row["SeriesInstanceUID"]
	instance := row["SOPInstanceUID"]
	return dicomweb.Options{
		BulkDataURI: func(t tag.Tag) string {
			return fmt.Sprintf("/studies/%s/series/%s/instances/%s/bulkdata/%s",
				study, series, instance, t)
		},
	}
}

// writeXMLParts emits one application/dicom+xml part per object in a
// multipart/related body.
func (s *Server) writeXMLParts(w http.ResponseWriter, status int, objects []dicomweb.JSONDataset) {
	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type",
		fmt.Sprintf(`multipart/related; type="%s"; boundary=%s`, contentTypeDICOMXML, mw.Boundary()))
	w.WriteHeader(status)
	for _, obj := range objects {
		ds, err := dicomweb.DecodeJSON(obj)
		if err != nil {
			continue
		}
		body, err := dicomweb.MarshalXML(ds, dicomweb.Options{})
		if err != nil {
			continue
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {contentTypeDICOMXML}})
		if err != nil {
			return
		}
		part.Write(body)
	}
	mw.Close()
}

// writeXMLModels is writeXMLParts for datasets decoded straight from
// disk; rows[i] is the index row models[i] was read from.
func (s *Server) writeXMLModels(w http.ResponseWriter, rows []map[string]string, models []*dicom.Dataset) {
	if len(models) == 0 {
		s.respondError(w, http.StatusNotFound, errNotFound)
		return
	}
	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type",
		fmt.Sprintf(`multipart/related; type="%s"; boundary=%s`, contentTypeDICOMXML, mw.Boundary()))
	w.WriteHeader(http.StatusOK)
	for i, ds := range models {
		body, err := dicomweb.MarshalXML(ds, s.bulkOptions(rows[i]))
		if err != nil {
			continue
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {contentTypeDICOMXML}})
		if err != nil {
			return
		}
		part.Write(body)
	}
	mw.Close()
}
