package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/Replica/internal/storage"
)

// DefaultPrefix namespaces archive keys in a shared store.
const DefaultPrefix = "replica:rec:"

const indexKey = "index"

// KV stores entries in a key/value Storage. Documents are buffered in
// memory and written on Close. An index key tracks entry names so List
// works on backends without key scans.
type KV struct {
	Store     storage.Storage
	Prefix    string
	Retention time.Duration // 0 keeps entries forever

	mu sync.Mutex // serializes index updates from this process
}

// NewKV returns a key/value archive using DefaultPrefix when prefix is empty.
func NewKV(store storage.Storage, prefix string, retention time.Duration) *KV {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KV{Store: store, Prefix: prefix, Retention: retention}
}

func (a *KV) key(name string) string {
	return a.Prefix + "doc:" + name
}

func (a *KV) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &kvWriter{ctx: ctx, archive: a, name: name}, nil
}

func (a *KV) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	val, err := a.Store.Get(ctx, a.key(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if val == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(val)), nil
}

func (a *KV) List(ctx context.Context) ([]string, error) {
	names, err := a.index(ctx)
	if err != nil {
		return nil, err
	}

	live := names[:0]
	for _, n := range names {
		val, err := a.Store.Get(ctx, a.key(n))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", n, err)
		}
		if val != nil {
			live = append(live, n)
		}
	}
	return live, nil
}

func (a *KV) index(ctx context.Context) ([]string, error) {
	raw, err := a.Store.Get(ctx, a.Prefix+indexKey)
	if err != nil {
		return nil, fmt.Errorf("reading archive index: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return strings.Split(string(raw), "\n"), nil
}

func (a *KV) put(ctx context.Context, name string, doc []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.Store.Set(ctx, a.key(name), doc, a.Retention); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	names, err := a.index(ctx)
	if err != nil {
		return err
	}
	i := sort.SearchStrings(names, name)
	if i < len(names) && names[i] == name {
		return nil
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	if err := a.Store.Set(ctx, a.Prefix+indexKey, []byte(strings.Join(names, "\n")), 0); err != nil {
		return fmt.Errorf("writing archive index: %w", err)
	}
	return nil
}

type kvWriter struct {
	ctx     context.Context
	archive *KV
	name    string
	buf     bytes.Buffer
	closed  bool
}

func (w *kvWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("archive: write to closed entry %s", w.name)
	}
	return w.buf.Write(p)
}

func (w *kvWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.archive.put(w.ctx, w.name, w.buf.Bytes())
}
