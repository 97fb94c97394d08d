package mmdbreader

import (
	"iter"
	"os"

	"github.com/netradar/mmdbreader/internal/mmdberrors"
)

const dataSectionSeparatorSize = 16

// defaultMaxDepth is the recursion depth internal/decoder falls back to
// when a Database is opened with no Option changing it.
const defaultMaxDepth = 512

// Option configures a Database at Open/OpenBytes time.
type Option func(*openConfig)

type openConfig struct {
	maxDepth int
}

// WithMaxDepth overrides the maximum nesting depth a decoded value may
// reach before decoding fails with ErrDepthExceeded. The default is 512,
// matching libmaxminddb.
func WithMaxDepth(depth int) Option {
	return func(c *openConfig) {
		c.maxDepth = depth
	}
}

// Database is an opened MaxMind DB file. A Database is safe for concurrent
// use by multiple goroutines: Lookup, Metadata, and Networks only read the
// memory-mapped buffer.
type Database struct {
	file   *os.File
	buffer []byte

	meta   Metadata
	trie   *trieWalker
	vd     valueDecoder
}

// Open memory-maps file and opens it as a Database.
func Open(file string, opts ...Option) (*Database, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	buf, err := mmap(int(f.Fd()), int(stat.Size()))
	if err != nil {
		f.Close()
		return nil, err
	}

	db, err := newDatabase(buf, opts...)
	if err != nil {
		munmap(buf)
		f.Close()
		return nil, err
	}
	db.file = f
	return db, nil
}

// OpenBytes opens a Database backed by buf directly, without memory-mapping
// a file. buf must not be modified while the Database is in use. Close is
// a no-op for a Database opened this way.
func OpenBytes(buf []byte, opts ...Option) (*Database, error) {
	return newDatabase(buf, opts...)
}

func newDatabase(buf []byte, opts ...Option) (*Database, error) {
	cfg := openConfig{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	meta, metadataStart, err := locateMetadata(buf)
	if err != nil {
		return nil, err
	}
	if err := validateMetadata(meta); err != nil {
		return nil, err
	}

	searchTreeSize := meta.NodeCount * meta.RecordSize / 4
	dataSectionStart := searchTreeSize + dataSectionSeparatorSize
	if dataSectionStart > metadataStart {
		return nil, mmdberrors.New(mmdberrors.KindOutOfBounds, "search tree size exceeds the file's metadata offset")
	}

	return &Database{
		buffer: buf,
		meta:   meta,
		trie:   newTrieWalker(buf, meta.NodeCount, meta.RecordSize, meta.IPVersion),
		vd:     newValueDecoder(buf, dataSectionStart, cfg.maxDepth),
	}, nil
}

// Metadata returns the database's metadata section.
func (db *Database) Metadata() Metadata {
	return db.meta
}

// Lookup parses addr as an IPv4 or IPv6 address (via ParseIPv4/ParseIPv6)
// and returns the record the database associates with it, if any.
func (db *Database) Lookup(addr string) Result {
	raw, err := parseAddress(addr)
	if err != nil {
		return Result{err: err}
	}
	return db.LookupBytes(raw)
}

// LookupBytes looks up a raw 4-byte (IPv4) or 16-byte (IPv6) address in
// network order, bypassing string parsing.
func (db *Database) LookupBytes(addr []byte) Result {
	offset, found, err := db.trie.lookup(addr)
	if err != nil {
		return Result{err: err}
	}
	if !found {
		return Result{found: false}
	}

	val, _, err := db.vd.decode(offset)
	if err != nil {
		return Result{err: err}
	}
	return Result{found: true, value: val}
}

// parseAddress dispatches to ParseIPv4 or ParseIPv6 based on whether addr
// contains a colon, the same heuristic net.ParseIP uses.
func parseAddress(addr string) ([]byte, error) {
	for _, c := range addr {
		if c == ':' {
			return ParseIPv6(addr)
		}
	}
	return ParseIPv4(addr)
}

// Network is one prefix-to-record association produced by Networks. Err is
// set, and iteration stops, if decoding the record or walking the tree
// fails partway through.
type Network struct {
	IP        []byte
	PrefixLen int
	Value     Value
	Err       error
}

// Networks enumerates every network the database assigns a record to, in
// depth-first search-tree order. It is an ambient convenience beyond plain
// Lookup, useful for exporting or auditing a database's full contents.
func (db *Database) Networks() iter.Seq[Network] {
	return func(yield func(Network) bool) {
		err := db.trie.walkAll(func(e networkEntry) bool {
			val, _, err := db.vd.decode(e.offset)
			if err != nil {
				yield(Network{Err: err})
				return false
			}
			return yield(Network{IP: e.addr, PrefixLen: e.prefixLen, Value: val})
		})
		if err != nil {
			yield(Network{Err: err})
		}
	}
}

// Close releases the Database's memory mapping and closes its underlying
// file. Close is a no-op for a Database created with OpenBytes.
func (db *Database) Close() error {
	if db.file == nil {
		return nil
	}
	if err := munmap(db.buffer); err != nil {
		return err
	}
	return db.file.Close()
}
