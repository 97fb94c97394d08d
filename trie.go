package mmdbreader

import "github.com/netradar/mmdbreader/internal/mmdberrors"

// trieWalker walks the binary search tree that occupies the front of an
// MMDB file, one bit of an address at a time.
type trieWalker struct {
	buffer     []byte
	nodeCount  uint
	recordSize uint
	ipVersion  uint
}

func newTrieWalker(buffer []byte, nodeCount, recordSize, ipVersion uint) *trieWalker {
	return &trieWalker{buffer: buffer, nodeCount: nodeCount, recordSize: recordSize, ipVersion: ipVersion}
}

// lookup walks addr (4 or 16 bytes, network order) through the tree and
// returns the absolute offset of the matching data value. found is false
// when the tree has no record for addr (not an error).
func (t *trieWalker) lookup(addr []byte) (offset uint, found bool, err error) {
	if len(addr) == 4 && t.ipVersion == 6 {
		addr = mapToIPv4In6(addr)
	}
	if len(addr) == 16 && t.ipVersion == 4 {
		return 0, false, mmdberrors.New(
			mmdberrors.KindUnsupportedAddressFamily,
			"cannot look up an IPv6 address in an IPv4-only database",
		)
	}

	bitCount := uint(len(addr) * 8)
	node := uint(0)

	for i := uint(0); i < bitCount && node < t.nodeCount; i++ {
		bit := (addr[i>>3] >> (7 - (i % 8))) & 1
		node, err = t.readNode(node, uint(bit))
		if err != nil {
			return 0, false, err
		}
	}

	if node == t.nodeCount {
		return 0, false, nil
	}
	if node > t.nodeCount {
		return t.dataOffset(node), true, nil
	}
	// The address bits ran out before a data pointer or the sentinel was
	// reached: the tree holds no record for addr.
	return 0, false, nil
}

// dataOffset converts a node value greater than nodeCount (a data pointer)
// into the absolute file offset of the data it references. The node value
// encodes nodeCount+16+relativeOffset; the dataSectionSeparatorSize (16)
// cancels against the search tree's own trailing separator, leaving
// node - nodeCount + searchTreeSize.
func (t *trieWalker) dataOffset(node uint) uint {
	searchTreeSize := t.recordSize * t.nodeCount / 4
	return node - t.nodeCount + searchTreeSize
}

// readNode reads child index (0 or 1) of the node at nodeNumber.
func (t *trieWalker) readNode(nodeNumber, index uint) (uint, error) {
	baseOffset := nodeNumber * t.recordSize / 4

	switch t.recordSize {
	case 24:
		offset := baseOffset + index*3
		if offset+3 > uint(len(t.buffer)) {
			return 0, mmdberrors.NewOutOfBounds()
		}
		return bigEndianUint(t.buffer[offset : offset+3]), nil
	case 28:
		if baseOffset+4 > uint(len(t.buffer)) {
			return 0, mmdberrors.NewOutOfBounds()
		}
		middle := t.buffer[baseOffset+3]
		if index == 0 {
			middle = (middle & 0xF0) >> 4
		} else {
			middle &= 0x0F
		}
		offset := baseOffset + index*4
		if offset+3 > uint(len(t.buffer)) {
			return 0, mmdberrors.NewOutOfBounds()
		}
		return uint(middle)<<24 | bigEndianUint(t.buffer[offset:offset+3]), nil
	case 32:
		offset := baseOffset + index*4
		if offset+4 > uint(len(t.buffer)) {
			return 0, mmdberrors.NewOutOfBounds()
		}
		return bigEndianUint(t.buffer[offset : offset+4]), nil
	default:
		return 0, mmdberrors.New(mmdberrors.KindInvalidNodeSize, "unsupported record size %d", t.recordSize)
	}
}

func bigEndianUint(b []byte) uint {
	var v uint
	for _, x := range b {
		v = (v << 8) | uint(x)
	}
	return v
}

// networkEntry is one (prefix, data offset) pair produced while
// enumerating every network a database assigns a record to.
type networkEntry struct {
	addr      []byte
	prefixLen int
	offset    uint
}

// walkAll depth-first walks the entire tree and reports every occupied
// leaf along with the address prefix that reaches it. It is the building
// block for the reader's ambient Networks enumeration.
func (t *trieWalker) walkAll(yield func(networkEntry) bool) error {
	addrLen := 4
	if t.ipVersion == 6 {
		addrLen = 16
	}

	type frame struct {
		node      uint
		addr      []byte
		prefixLen int
	}
	stack := []frame{{node: 0, addr: make([]byte, addrLen), prefixLen: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == t.nodeCount {
			continue
		}
		if f.node > t.nodeCount {
			entry := networkEntry{addr: f.addr, prefixLen: f.prefixLen, offset: t.dataOffset(f.node)}
			if !yield(entry) {
				return nil
			}
			continue
		}

		for _, bit := range []uint{1, 0} {
			child, err := t.readNode(f.node, bit)
			if err != nil {
				return err
			}
			childAddr := make([]byte, len(f.addr))
			copy(childAddr, f.addr)
			if bit == 1 {
				childAddr[f.prefixLen>>3] |= 1 << (7 - uint(f.prefixLen%8))
			}
			stack = append(stack, frame{node: child, addr: childAddr, prefixLen: f.prefixLen + 1})
		}
	}
	return nil
}
