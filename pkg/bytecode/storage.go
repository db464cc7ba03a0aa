package bytecode

// storageStart is the first usable storage address. The leading 5 bytes of
// the binary are reserved for the Jump instruction and its u32 target.
const storageStart = 5

// StorageItem is one literal text blob and its assigned byte address within
// the final binary.
type StorageItem struct {
	Value   string
	Address int
}

// RegisterStorage interns a literal text blob and returns its address.
// Identical text maps to one address: the table is deduplicated by value.
// Addresses are assigned incrementally; each entry occupies 2+len(text)
// bytes (u16 length prefix, then the raw bytes).
func (p *Program) RegisterStorage(text string) int {
	if address, ok := p.storageMap[text]; ok {
		return address
	}
	if p.storageIndex == 0 {
		p.storageIndex = storageStart
	}
	address := p.storageIndex
	p.storage = append(p.storage, StorageItem{Value: text, Address: address})
	p.storageMap[text] = address
	p.storageIndex += 2 + len(text)
	return address
}

// FindStorage returns the literal whose entry begins exactly at the given
// address, or "!unknown" if no entry starts there.
func (p *Program) FindStorage(address int) string {
	i := storageStart
	for _, item := range p.storage {
		if i == address {
			return item.Value
		}
		i += 2 + len(item.Value)
	}
	return "!unknown"
}

// StorageCount returns the number of interned literals.
func (p *Program) StorageCount() int {
	return len(p.storage)
}
