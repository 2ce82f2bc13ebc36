package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
	"github.com/jdmichaud/rdicom/pkg/dicomweb"
	"github.com/jdmichaud/rdicom/pkg/index"
)

// pathFilters maps route parameter names to the keyword they constrain.
type pathFilters map[string]string

// searchParams is the parsed QIDO-RS query string.
type searchParams struct {
	filters    map[string]string
	include    []string
	includeAll bool
	fuzzy      bool
	limit      int
	offset     int
}

// parseSearchParams canonicalises the query string: attribute IDs (keyword
// or eight-hex form) become dictionary keywords, includefield accepts both
// repeated parameters and comma-separated lists.
func parseSearchParams(values url.Values) (*searchParams, error) {
	p := &searchParams{filters: map[string]string{}}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		switch key {
		case "includefield":
			for _, v := range vals {
				for _, field := range strings.Split(v, ",") {
					field = strings.TrimSpace(field)
					if field == "" {
						continue
					}
					if strings.EqualFold(field, "all") {
						p.includeAll = true
						continue
					}
					info, err := tag.Find(field)
					if err != nil {
						return nil, err
					}
					p.include = append(p.include, info.Keyword)
				}
			}
		case "fuzzymatching":
			b, err := strconv.ParseBool(vals[0])
			if err != nil {
				return nil, fmt.Errorf("%w: fuzzymatching=%q", errBadRequest, vals[0])
			}
			p.fuzzy = b
		case "limit":
			n, err := strconv.Atoi(vals[0])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: limit=%q", errBadRequest, vals[0])
			}
			p.limit = n
		case "offset":
			n, err := strconv.Atoi(vals[0])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: offset=%q", errBadRequest, vals[0])
			}
			p.offset = n
		default:
			info, err := tag.Find(key)
			if err != nil {
				return nil, err
			}
			p.filters[info.Keyword] = vals[0]
		}
	}
	return p, nil
}

// search builds the QIDO-RS handler for one level.
func (s *Server) search(level index.Level, pf pathFilters) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		params, err := parseSearchParams(r.URL.Query())
		if err != nil {
			s.mapError(w, err)
			return
		}
		for param, keyword := range pf {
			uid := ps.ByName(param)
			if !validUID(uid) {
				s.mapError(w, fmt.Errorf("%w: %q is not a unique identifier", errBadRequest, uid))
				return
			}
			params.filters[keyword] = uid
		}

		objects, partial, err := s.runSearch(r, level, params)
		if err != nil {
			s.mapError(w, err)
			return
		}
		s.writeSearchResponse(w, r, objects, partial)
	}
}

// runSearch executes the translated query and assembles one DICOM-JSON
// object per row.
func (s *Server) runSearch(r *http.Request, level index.Level, params *searchParams) ([]dicomweb.JSONDataset, bool, error) {
	indexed := map[string]string{}
	var post []string
	for keyword, value := range params.filters {
		if s.cfg.IsIndexed(level, keyword) {
			indexed[keyword] = value
		} else {
			post = append(post, keyword)
		}
	}

	release, err := s.acquire(r.Context())
	if err != nil {
		return nil, false, err
	}
	rows, err := s.queryLevel(r, level, indexed, params.fuzzy)
	release()
	if err != nil {
		return nil, false, err
	}

	// Filters outside the schema reduce the candidate set by re-opening
	// each survivor's file.
	if len(post) > 0 {
		kept := rows[:0]
		for _, row := range rows {
			ok, err := s.postFilter(row, post, params)
			if err != nil {
				s.log.Warn("post-filter failed", "path", row["filepath"], "error", err)
				continue
			}
			if ok {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	total := len(rows)
	if params.offset > 0 {
		if params.offset >= total {
			rows = nil
		} else {
			rows = rows[params.offset:]
		}
	}
	partial := false
	if params.limit > 0 && len(rows) > params.limit {
		rows = rows[:params.limit]
		partial = true
	}

	objects := make([]dicomweb.JSONDataset, 0, len(rows))
	for _, row := range rows {
		obj, err := s.composeObject(level, row, params)
		if err != nil {
			return nil, false, err
		}
		objects = append(objects, obj)
	}
	return objects, partial, nil
}

// queryLevel translates indexed filters into a WHERE clause and returns
// the matching rows ordered by their UID path.
func (s *Server) queryLevel(r *http.Request, level index.Level, filters map[string]string, fuzzy bool) ([]map[string]string, error) {
	fields := s.cfg.FieldsFor(level)
	cols := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, quoteIdent(f))
	}
	cols = append(cols, `"filepath"`)

	var where []string
	var args []interface{}
	for keyword, value := range filters {
		col := quoteIdent(keyword)
		switch {
		case strings.ContainsAny(value, "*?"):
			// Non-fuzzy wildcards must stay case-sensitive, matching the
			// lazy post-filter; sqlite LIKE is ASCII case-insensitive, so
			// the case-sensitive form goes through GLOB.
			if fuzzy {
				where = append(where, "LOWER("+col+") LIKE LOWER(?) ESCAPE '\\'")
				args = append(args, wildcardToLike(value))
			} else {
				where = append(where, col+" GLOB ?")
				args = append(args, wildcardToGlob(value))
			}
		case fuzzy:
			where = append(where, "LOWER("+col+") = LOWER(?)")
			args = append(args, value)
		default:
			where = append(where, col+" = ?")
			args = append(args, value)
		}
	}

	stmt := "SELECT " + strings.Join(cols, ", ") + " FROM " + quoteIdent(string(level))
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY " + orderClause(level)

	dbRows, err := s.db.QueryContext(r.Context(), stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}
	defer dbRows.Close()

	names := append(append([]string{}, fields...), "filepath")
	var out []map[string]string
	for dbRows.Next() {
		scan := make([]sql.NullString, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range scan {
			ptrs[i] = &scan[i]
		}
		if err := dbRows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]string, len(names))
		for i, name := range names {
			if scan[i].Valid {
				row[name] = scan[i].String
			}
		}
		out = append(out, row)
	}
	return out, dbRows.Err()
}

// orderClause orders results by the UID triple, ascending, as far as the
// level's table carries it.
func orderClause(level index.Level) string {
	switch level {
	case index.Studies:
		return `"StudyInstanceUID"`
	case index.Series:
		return `"StudyInstanceUID", "SeriesInstanceUID"`
	default:
		return `"StudyInstanceUID", "SeriesInstanceUID", "SOPInstanceUID"`
	}
}

// wildcardToLike converts QIDO wildcards to LIKE syntax, escaping the
// characters LIKE treats specially.
func wildcardToLike(pattern string) string {
	var sb strings.Builder
	for _, c := range pattern {
		switch c {
		case '*':
			sb.WriteByte('%')
		case '?':
			sb.WriteByte('_')
		case '%', '_', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// wildcardToGlob converts QIDO wildcards to GLOB syntax, which shares
// `*`/`?` and only needs its character classes neutralised.
func wildcardToGlob(pattern string) string {
	return strings.ReplaceAll(pattern, "[", "[[]")
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// matchValue applies QIDO matching semantics outside the index.
func matchValue(pattern, value string, fuzzy bool) bool {
	if strings.ContainsAny(pattern, "*?") {
		var re strings.Builder
		re.WriteString("^")
		for _, c := range pattern {
			switch c {
			case '*':
				re.WriteString(".*")
			case '?':
				re.WriteString(".")
			default:
				re.WriteString(regexp.QuoteMeta(string(c)))
			}
		}
		re.WriteString("$")
		expr := re.String()
		if fuzzy {
			expr = "(?i)" + expr
		}
		matched, err := regexp.MatchString(expr, value)
		return err == nil && matched
	}
	if fuzzy {
		return strings.EqualFold(pattern, value)
	}
	return pattern == value
}

// postFilter re-opens the row's file and applies the filters the index
// cannot answer.
func (s *Server) postFilter(row map[string]string, keywords []string, params *searchParams) (bool, error) {
	path, ok := row["filepath"]
	if !ok {
		return false, nil
	}
	inst, err := dicom.Open(path)
	if err != nil {
		return false, err
	}
	for _, keyword := range keywords {
		info, err := tag.Find(keyword)
		if err != nil {
			return false, err
		}
		value, err := inst.GetString(info.Tag)
		if err != nil {
			return false, err
		}
		if !matchValue(params.filters[keyword], value, params.fuzzy) {
			return false, nil
		}
	}
	return true, nil
}

// composeObject builds the DICOM-JSON object for one row: the indexed
// columns, then any includefields resolved lazily from the file.
func (s *Server) composeObject(level index.Level, row map[string]string, params *searchParams) (dicomweb.JSONDataset, error) {
	obj := dicomweb.JSONDataset{}
	for keyword, value := range row {
		if keyword == "filepath" {
			continue
		}
		info, err := tag.Find(keyword)
		if err != nil {
			continue
		}
		obj[info.Tag.String()] = jsonAttributeForString(info, value)
	}

	var missing []string
	for _, keyword := range params.include {
		info, err := tag.Find(keyword)
		if err != nil {
			return nil, err
		}
		if _, ok := obj[info.Tag.String()]; !ok {
			missing = append(missing, keyword)
		}
	}
	if len(missing) == 0 && !params.includeAll {
		return obj, nil
	}

	// Includefields outside the schema reuse the indexer's lookup path:
	// re-open the original file and extract on demand.
	path, ok := row["filepath"]
	if !ok {
		return obj, nil
	}
	inst, err := dicom.Open(path)
	if err != nil {
		s.log.Warn("includefield resolution failed", "path", path, "error", err)
		return obj, nil
	}
	if params.includeAll {
		ds, err := inst.Dataset()
		if err != nil {
			return nil, err
		}
		full, err := dicomweb.EncodeJSON(ds, dicomweb.Options{})
		if err != nil {
			return nil, err
		}
		for key, attr := range full {
			if key == tag.PixelData.String() {
				continue
			}
			if _, exists := obj[key]; !exists {
				obj[key] = attr
			}
		}
		return obj, nil
	}
	for _, keyword := range missing {
		info, _ := tag.Find(keyword)
		a, err := inst.Get(info.Tag)
		if err != nil {
			if dicom.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		ja, err := dicomweb.EncodeJSONAttribute(a, dicomweb.Options{})
		if err != nil {
			return nil, err
		}
		obj[info.Tag.String()] = ja
	}
	return obj, nil
}

// jsonAttributeForString rebuilds a typed DICOM-JSON attribute from the
// TEXT column the index stores.
func jsonAttributeForString(info tag.Info, value string) dicomweb.JSONAttribute {
	ja := dicomweb.JSONAttribute{VR: string(info.VR)}
	if info.VR == "" {
		ja.VR = string(vr.UN)
	}
	if value == "" {
		return ja
	}
	for _, part := range strings.Split(value, "\\") {
		switch {
		case info.VR == vr.PN:
			ja.Value = append(ja.Value, map[string]string{"Alphabetic": part})
		case info.VR == vr.US || info.VR == vr.UL || info.VR == vr.SS || info.VR == vr.SL:
			if n, err := strconv.ParseInt(part, 10, 64); err == nil {
				ja.Value = append(ja.Value, n)
			} else {
				ja.Value = append(ja.Value, part)
			}
		case info.VR == vr.FL || info.VR == vr.FD:
			if f, err := strconv.ParseFloat(part, 64); err == nil {
				ja.Value = append(ja.Value, f)
			} else {
				ja.Value = append(ja.Value, part)
			}
		default:
			ja.Value = append(ja.Value, part)
		}
	}
	return ja
}

// writeSearchResponse negotiates the representation and the partial
// status. An exhausted-but-truncated result is a 206.
func (s *Server) writeSearchResponse(w http.ResponseWriter, r *http.Request, objects []dicomweb.JSONDataset, partial bool) {
	if len(objects) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
	}
	if wantsXML(r) {
		s.writeXMLParts(w, status, objects)
		return
	}
	contentType := contentTypeDICOMJSON
	if accept := r.Header.Get("Accept"); strings.Contains(accept, contentTypeJSON) &&
		!strings.Contains(accept, contentTypeDICOMJSON) {
		contentType = contentTypeJSON
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(objects)
}
