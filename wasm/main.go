//go:build tinygo.wasm

// A WebAssembly embedding of the decoder. The host hands in a buffer by
// linear-memory offset and gets back an opaque instance handle; values
// are copied out in per-VR layouts:
//
//	character VRs     NUL-terminated UTF-8
//	multi-valued      [u32 count][u32 len_i, bytes_i]*
//	numeric VRs       IEEE-754 double
//	binary            [u32 len][u32 data_ptr]
//
// The module is built with tinygo, which provides the exported
// __heap_base and the allocator shims the host expects.
package main

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/jdmichaud/rdicom/pkg/dicom"
	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
	"github.com/jdmichaud/rdicom/pkg/dicom/vr"
)

//go:wasmimport env addString
func addString(ptr unsafe.Pointer, size uint32)

//go:wasmimport env printString
func printString()

//go:wasmimport env printError
func printError()

func consoleError(s string) {
	b := []byte(s)
	addString(unsafe.Pointer(unsafe.SliceData(b)), uint32(len(b)))
	printError()
}

// instances is the process-wide handle table. Handles are 1-based so 0
// can mean failure.
var instances []*dicom.Instance

// retained pins buffers whose offsets have been handed to the host; the
// host-side allocator never frees, neither do we.
var retained [][]byte

func retain(b []byte) uint32 {
	retained = append(retained, b)
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}

//export instance_from_ptr
func instanceFromPtr(ptr uint32, size uint32) int32 {
	src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size)
	buf := make([]byte, size)
	copy(buf, src)
	inst, err := dicom.NewInstance(buf)
	if err != nil {
		consoleError("instance_from_ptr: " + err.Error())
		return 0
	}
	instances = append(instances, inst)
	return int32(len(instances))
}

//export get_value_from_ptr
func getValueFromPtr(handle int32, tagid uint32) uint32 {
	if handle <= 0 || int(handle) > len(instances) {
		return 0
	}
	inst := instances[handle-1]
	a, err := inst.Get(tag.FromUint32(tagid))
	if err != nil {
		if !dicom.IsNotFound(err) {
			consoleError("get_value_from_ptr: " + err.Error())
		}
		return 0
	}
	return marshalValue(a)
}

func marshalValue(a *dicom.Attribute) uint32 {
	if a.VR.IsString() {
		values := a.Strings()
		if len(values) <= 1 {
			s := ""
			if len(values) == 1 {
				s = values[0]
			}
			return retain(append([]byte(s), 0))
		}
		out := binary.LittleEndian.AppendUint32(nil, uint32(len(values)))
		for _, v := range values {
			out = binary.LittleEndian.AppendUint32(out, uint32(len(v)))
			out = append(out, v...)
		}
		return retain(out)
	}
	switch a.VR {
	case vr.US, vr.SS, vr.UL, vr.SL, vr.FL, vr.FD:
		f, ok := a.Float()
		if !ok {
			return 0
		}
		return retain(binary.LittleEndian.AppendUint64(nil, math.Float64bits(f)))
	default:
		raw, ok := a.Value.([]byte)
		if !ok {
			return 0
		}
		data := retain(raw)
		out := binary.LittleEndian.AppendUint32(nil, uint32(len(raw)))
		out = binary.LittleEndian.AppendUint32(out, data)
		return retain(out)
	}
}

func main() {}
