// Command dicttool regenerates pkg/dicom/tag/dict.go from the standard
// data dictionary CSV, columns (tag, keyword, vr, vm, description).
// Rows whose tag contains a wildcard ('x') denote repeating groups and are
// skipped so they never surface as constants.
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

func main() {
	in := flag.String("in", "data/dicom-standard.csv", "dictionary CSV path")
	out := flag.String("out", "dict.go", "generated file path")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by \"go run ./gen/dicttool -in %s\"; DO NOT EDIT.\n\n", *in)
	buf.WriteString("package tag\n\nimport \"github.com/jdmichaud/rdicom/pkg/dicom/vr\"\n\n")
	buf.WriteString("// dict is the standard data dictionary. Rows whose tag contains a wildcard\n")
	buf.WriteString("// in the standard (repeating groups) are skipped by the generator.\n")
	buf.WriteString("var dict = []Info{\n")

	r := csv.NewReader(f)
	r.FieldsPerRecord = 5
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		t, keyword, vrCode, vm, desc := rec[0], rec[1], rec[2], rec[3], rec[4]
		t = strings.Trim(t, "()")
		t = strings.ReplaceAll(t, ",", "")
		if strings.ContainsAny(strings.ToLower(t), "x") || keyword == "" {
			continue
		}
		group, err := strconv.ParseUint(t[:4], 16, 16)
		if err != nil {
			log.Fatalf("bad tag %q: %v", rec[0], err)
		}
		element, err := strconv.ParseUint(t[4:], 16, 16)
		if err != nil {
			log.Fatalf("bad tag %q: %v", rec[0], err)
		}
		vmin, vmax := parseVM(vm)
		vrExpr := "\"\""
		if vrCode != "" {
			// "US or SS" style ambiguity: the standard permits either, the
			// dictionary carries the first.
			vrExpr = "vr." + strings.Fields(vrCode)[0]
		}
		fmt.Fprintf(&buf, "\t{Tag{0x%04X, 0x%04X}, %q, %s, %d, %d, %q},\n",
			group, element, keyword, vrExpr, vmin, vmax, desc)
	}
	buf.WriteString("}\n")

	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
}

// parseVM maps "1", "1-n", "2-2n", "3" to a (min, max) pair, max 0 meaning
// unbounded.
func parseVM(vm string) (uint16, uint16) {
	if vm == "" {
		return 1, 1
	}
	lo, hi, ok := strings.Cut(vm, "-")
	min, err := strconv.ParseUint(lo, 10, 16)
	if err != nil {
		return 1, 1
	}
	if !ok {
		return uint16(min), uint16(min)
	}
	if strings.HasSuffix(hi, "n") {
		return uint16(min), 0
	}
	max, err := strconv.ParseUint(hi, 10, 16)
	if err != nil {
		return uint16(min), 0
	}
	return uint16(min), uint16(max)
}
