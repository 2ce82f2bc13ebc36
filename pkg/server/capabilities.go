package server

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// capabilities is the static conformance document. The lists name what
// this server actually answers, not the full DICOMweb surface.
var capabilities = map[string]interface{}{
	"name":        "rdicom",
	"description": "DICOMweb subset over a scanned file index",
	"searchTransactions": []string{
		"/studies",
		"/series",
		"/instances",
		"/studies/{study}/series",
		"/studies/{study}/series/{series}/instances",
	},
	"retrieveTransactions": []string{
		"/studies/{study}/metadata",
		"/studies/{study}/series/{series}/metadata",
		"/studies/{study}/series/{series}/instances/{instance}/metadata",
	},
	"queryParameters": []string{
		"{attributeID}={value}",
		"includefield",
		"fuzzymatching",
		"limit",
		"offset",
	},
	"mediaTypes": []string{
		contentTypeDICOMJSON,
		contentTypeJSON,
		contentTypeDICOMXML,
	},
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", contentTypeJSON)
	json.NewEncoder(w).Encode(capabilities)
}
