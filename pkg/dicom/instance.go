package dicom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jdmichaud/rdicom/pkg/dicom/tag"
)

// Instance is a dataset together with its backing bytes. Attributes are
// decoded lazily: a lookup walks the stream only as far as needed, and
// everything walked so far lands in a cache that is filled on first access
// and never invalidated (datasets are immutable).
type Instance struct {
	Path string

	mu     sync.RWMutex
	reader *Reader
	cache  map[tag.Tag]*Attribute
	order  []tag.Tag
	done   bool
	err    error
}

// NewInstance wraps a buffer already in memory.
func NewInstance(buf []byte) (*Instance, error) {
	r, err := NewReader(buf)
	if err != nil {
		return nil, err
	}
	return &Instance{reader: r, cache: make(map[tag.Tag]*Attribute)}, nil
}

// Open reads a file into memory and wraps it. The file handle is released
// before Open returns; the instance owns the buffer.
func Open(path string) (*Instance, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	inst, err := NewInstance(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	inst.Path = path
	return inst, nil
}

// Get returns the attribute for a tag, decoding forward through the
// stream on a cache miss. ErrTagNotFound is returned once the stream is
// exhausted.
func (inst *Instance) Get(t tag.Tag) (*Attribute, error) {
	inst.mu.RLock()
	if a, ok := inst.cache[t]; ok {
		inst.mu.RUnlock()
		return a, nil
	}
	done, err := inst.done, inst.err
	inst.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if done {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, t)
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	// Another goroutine may have advanced the reader meanwhile.
	if a, ok := inst.cache[t]; ok {
		return a, nil
	}
	for !inst.done {
		a, err := inst.reader.Next()
		if err == io.EOF {
			inst.done = true
			break
		}
		if err != nil {
			inst.err = err
			return nil, err
		}
		if _, ok := inst.cache[a.Tag]; ok {
			inst.err = fmt.Errorf("%w: %s", ErrDuplicateTag, a.Tag)
			return nil, inst.err
		}
		inst.cache[a.Tag] = a
		inst.order = append(inst.order, a.Tag)
		if a.Tag == t {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTagNotFound, t)
}

// GetString returns the display form of a tag's value, empty when the
// tag is absent.
func (inst *Instance) GetString(t tag.Tag) (string, error) {
	a, err := inst.Get(t)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return a.StringValue(), nil
}

// Dataset drains the stream and returns the complete ordered dataset.
func (inst *Instance) Dataset() (*Dataset, error) {
	// Forces a full walk; PixelData is a known terminal tag but an
	// arbitrary private tag past the end works just as well.
	if _, err := inst.Get(tag.Tag{Group: 0xFFFF, Element: 0xFFFF}); err != nil && !IsNotFound(err) {
		return nil, err
	}
	inst.mu.RLock()
	defer inst.mu.RUnlock()
	ds := NewDataset()
	ds.TransferSyntax = inst.reader.TransferSyntax()
	ds.Raw = inst.reader.Raw()
	ds.OpaquePixelData = inst.reader.OpaquePixelData()
	for _, t := range inst.order {
		if err := ds.Add(inst.cache[t]); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// IsNotFound reports whether err is an absent-tag lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTagNotFound)
}
