package ir

import "fmt"

// Opcode identifies an instruction kind. Metadata lives in static tables below.
type Opcode uint8

const (
	OpNop Opcode = iota
	OpSequencePoint
	OpStartScope
	OpEndScope

	OpJump
	OpBranch
	OpReturn

	OpLoad
	OpStore
	OpLoadStatic
	OpStoreStatic
	OpLoadField
	OpStoreField
	OpLoadElement
	OpStoreElement
	OpAddressOf

	OpCall
	OpMemberCall
	OpNewObject
	OpNewArray
	OpNewDelegate
	OpArrayLength

	OpBox
	OpUnbox

	OpUnary
	OpBinary

	numOpcodes
)

var opNames = [numOpcodes]string{
	OpNop:           "nop",
	OpSequencePoint: "sequencepoint",
	OpStartScope:    "startscope",
	OpEndScope:      "endscope",
	OpJump:          "jump",
	OpBranch:        "branch",
	OpReturn:        "return",
	OpLoad:          "load",
	OpStore:         "store",
	OpLoadStatic:    "loadstatic",
	OpStoreStatic:   "storestatic",
	OpLoadField:     "loadfield",
	OpStoreField:    "storefield",
	OpLoadElement:   "loadelement",
	OpStoreElement:  "storeelement",
	OpAddressOf:     "addressof",
	OpCall:          "call",
	OpMemberCall:    "membercall",
	OpNewObject:     "newobject",
	OpNewArray:      "newarray",
	OpNewDelegate:   "newdelegate",
	OpArrayLength:   "arraylength",
	OpBox:           "box",
	OpUnbox:         "unbox",
	OpUnary:         "unary",
	OpBinary:        "binary",
}

// opFlags holds per-opcode properties.
type opFlags uint8

const (
	flagTerminator opFlags = 1 << iota
	flagHasTarget
	flagMarker // no runtime effect, only debug or scope metadata
)

var opInfo = [numOpcodes]opFlags{
	OpNop:           flagMarker,
	OpSequencePoint: flagMarker,
	OpStartScope:    flagMarker,
	OpEndScope:      flagMarker,
	OpJump:          flagTerminator,
	OpBranch:        flagTerminator,
	OpReturn:        flagTerminator,
	OpLoad:          flagHasTarget,
	OpStore:         0,
	OpLoadStatic:    flagHasTarget,
	OpStoreStatic:   0,
	OpLoadField:     flagHasTarget,
	OpStoreField:    0,
	OpLoadElement:   flagHasTarget,
	OpStoreElement:  0,
	OpAddressOf:     flagHasTarget,
	OpCall:          flagHasTarget,
	OpMemberCall:    flagHasTarget,
	OpNewObject:     flagHasTarget,
	OpNewArray:      flagHasTarget,
	OpNewDelegate:   flagHasTarget,
	OpArrayLength:   flagHasTarget,
	OpBox:           flagHasTarget,
	OpUnbox:         flagHasTarget,
	OpUnary:         flagHasTarget,
	OpBinary:        flagHasTarget,
}

func (op Opcode) String() string {
	if op < numOpcodes {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// IsTerminator reports whether op ends a basic block.
func (op Opcode) IsTerminator() bool {
	return op < numOpcodes && opInfo[op]&flagTerminator != 0
}

// HasTarget reports whether op writes a result register.
func (op Opcode) HasTarget() bool {
	return op < numOpcodes && opInfo[op]&flagHasTarget != 0
}

// IsMarker reports whether op only carries debug or scope metadata.
func (op Opcode) IsMarker() bool {
	return op < numOpcodes && opInfo[op]&flagMarker != 0
}
