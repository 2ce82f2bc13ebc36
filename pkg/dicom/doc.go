// Package dicom reads and writes DICOM Part 10 files.
//
// The decoder is a transfer-syntax-aware state machine over an in-memory
// buffer. Typical use:
//
//	ds, err := dicom.ReadFile("/path/to/file.dcm")
//	if err != nil {
//		log.Fatal(err)
//	}
//	name := ds.GetString(tag.PatientName)
//
// For selective access without decoding the whole file, Instance decodes
// lazily and caches what it has walked:
//
//	inst, err := dicom.Open("/path/to/file.dcm")
//	uid, err := inst.GetString(tag.StudyInstanceUID)
package dicom
