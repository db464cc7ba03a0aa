package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// cborEncMode uses canonical options for deterministic encoding, so two
// sidecars for the same program are byte-identical.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// SubroutineInfo describes one subroutine in the debug sidecar.
type SubroutineInfo struct {
	Name      string      `cbor:"name"`
	Kind      uint8       `cbor:"kind"`
	Index     int         `cbor:"index"`
	Address   int         `cbor:"address"`
	Length    int         `cbor:"length"`
	Pos       int         `cbor:"pos"`
	SourceMap map[int]int `cbor:"sourceMap,omitempty"`
}

// DebugInfo is the sidecar written next to a built binary. It carries
// everything a debugger needs to map byte offsets back to source positions:
// the subroutine table with final addresses and the per-buffer source maps.
type DebugInfo struct {
	ProgramID     string           `cbor:"programId"`
	Subroutines   []SubroutineInfo `cbor:"subroutines,omitempty"`
	MainSourceMap map[int]int      `cbor:"mainSourceMap,omitempty"`
}

// NewDebugInfo captures the debug view of a program. Call it after Build so
// subroutine addresses are final.
func NewDebugInfo(p *Program) *DebugInfo {
	info := &DebugInfo{
		ProgramID:     uuid.NewString(),
		MainSourceMap: p.SourceMap,
	}
	for _, sub := range p.Subroutines {
		info.Subroutines = append(info.Subroutines, SubroutineInfo{
			Name:      sub.Name,
			Kind:      uint8(sub.Kind),
			Index:     sub.Index,
			Address:   sub.Address,
			Length:    len(sub.Ops),
			Pos:       sub.Pos,
			SourceMap: sub.SourceMap,
		})
	}
	return info
}

// Marshal serializes the debug info to canonical CBOR.
func (d *DebugInfo) Marshal() ([]byte, error) {
	return cborEncMode.Marshal(d)
}

// UnmarshalDebugInfo deserializes a debug sidecar.
func UnmarshalDebugInfo(data []byte) (*DebugInfo, error) {
	var d DebugInfo
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding debug info: %w", err)
	}
	return &d, nil
}
