package token

import "encoding/binary"

// Record layouts for the binary program token format. Every record's
// first byte packs Kind in the low 4 bits and, for non-terminal,
// non-constant kinds, a length nibble in the high 4 bits; constant records
// instead pack the value type there, and terminal records pack the
// terminal index there.
const (
	hdrKindMask = 0x0F

	recLenResWord = 2 // RESW, non-block
	recLenResWordBlk = 4 // RESW, block command (carries ToTokenStep)
	recLenConstant = 5 // CONST
	recLenBuiltin = 2 // INTFN
	recLenUserFunc = 2 // EXTFN
	recLenVariable = 4 // VAR
	recLenTerminal = 1 // TERM
)

// Buffer is the fixed-size (in spirit; Go backs it with a growable slice
// capped by Interpreter configuration) program token buffer: a linear
// sequence of variable-length token records.
type Buffer struct {
	bytes []byte
	cap int
}

// NewBuffer creates an empty Buffer that refuses to grow past capBytes,
// surfacing the interpreter's "memory-full" fatal condition.
func NewBuffer(capBytes int) *Buffer {
	return &Buffer{cap: capBytes}
}

func (b *Buffer) Len() int { return len(b.bytes) }

func (b *Buffer) Reset() { b.bytes = b.bytes[:0] }

func (b *Buffer) Bytes() []byte { return b.bytes }

func (b *Buffer) wouldOverflow(n int) bool {
	return b.cap > 0 && len(b.bytes)+n > b.cap
}

// ErrBufferFull is returned by Append* methods when the configured capacity
// would be exceeded — the interpreter's fatal "memory-full" condition.
var ErrBufferFull = NewParseError(CodeMemProgramFull, "program memory full")

// AppendResWord appends a reserved-word record. For block commands (those
// with BlockKind != BlockNone) the record reserves two extra bytes for the
// forward/backward ToTokenStep link, initially zero, patched later via
// PatchStep once the matching block token's position is known.
func (b *Buffer) AppendResWord(code ResWordCode, isBlock bool) (pos int, err error) {
	n := recLenResWord
	if isBlock {
 n = recLenResWordBlk
	}
	if b.wouldOverflow(n) {
 return 0, ErrBufferFull
	}
	pos = len(b.bytes)
	hdr := byte(KindReservedWord) | byte(n)<<4
	rec := make([]byte, n)
	rec[0] = hdr
	rec[1] = byte(code)
	b.bytes = append(b.bytes, rec...)
	return pos, nil
}

// PatchStep writes a ToTokenStep link at the block-command record starting
// at pos (must have been created with isBlock=true) so it points at target.
func (b *Buffer) PatchStep(pos int, target int) {
	binary.LittleEndian.PutUint16(b.bytes[pos+2:pos+4], uint16(target))
}

// ReadStep reads back the ToTokenStep link previously written at pos.
func (b *Buffer) ReadStep(pos int) int {
	return int(binary.LittleEndian.Uint16(b.bytes[pos+2 : pos+4]))
}

// AppendTerminal appends a one-byte terminal record: kind and index packed
// together.
func (b *Buffer) AppendTerminal(groupKind Kind, index byte) (pos int, err error) {
	if b.wouldOverflow(recLenTerminal) {
 return 0, ErrBufferFull
	}
	pos = len(b.bytes)
	b.bytes = append(b.bytes, byte(groupKind)|index<<4)
	return pos, nil
}

// AppendBuiltin appends a built-in function call record.
func (b *Buffer) AppendBuiltin(index byte) (pos int, err error) {
	if b.wouldOverflow(recLenBuiltin) {
 return 0, ErrBufferFull
	}
	pos = len(b.bytes)
	b.bytes = append(b.bytes, byte(KindBuiltinFunc)|byte(recLenBuiltin)<<4, index)
	return pos, nil
}

// AppendUserFunc appends a user-function call/definition-name record.
func (b *Buffer) AppendUserFunc(nameIndex byte) (pos int, err error) {
	if b.wouldOverflow(recLenUserFunc) {
 return 0, ErrBufferFull
	}
	pos = len(b.bytes)
	b.bytes = append(b.bytes, byte(KindUserFunc)|byte(recLenUserFunc)<<4, nameIndex)
	return pos, nil
}

// AppendVariable appends a variable reference record.
func (b *Buffer) AppendVariable(identInfo TypeByte, nameIndex, valueIndex byte) (pos int, err error) {
	if b.wouldOverflow(recLenVariable) {
 return 0, ErrBufferFull
	}
	pos = len(b.bytes)
	b.bytes = append(b.bytes, byte(KindVariable)|byte(recLenVariable)<<4, byte(identInfo), nameIndex, valueIndex)
	return pos, nil
}

// AppendConstant appends a parsed-constant record. payload must be exactly
// 4 bytes (little-endian int32 bit pattern, float32 bit pattern, or a
// string-table index).
func (b *Buffer) AppendConstant(vt ValueType, payload [4]byte) (pos int, err error) {
	if b.wouldOverflow(recLenConstant) {
 return 0, ErrBufferFull
	}
	pos = len(b.bytes)
	hdr := byte(KindConstant) | byte(vt)<<4
	rec := append([]byte{hdr}, payload[:]...)
	b.bytes = append(b.bytes, rec...)
	return pos, nil
}

// Reader walks a Buffer one record at a time, decoding headers as it goes;
// this is the mechanism the execution engine uses to drive evaluation
// directly from the token stream.
type Reader struct {
	buf *Buffer
	pos int
}

func NewReader(buf *Buffer, start int) *Reader {
	return &Reader{buf: buf, pos: start}
}

func (r *Reader) Pos() int { return r.pos }
func (r *Reader) SeekTo(p int) { r.pos = p }
func (r *Reader) AtEnd() bool { return r.pos >= len(r.buf.bytes) }

// Kind returns the kind of the record at the reader's current position
// without consuming it.
func (r *Reader) Kind() Kind {
	return Kind(r.buf.bytes[r.pos] & hdrKindMask)
}

// ReadResWord decodes a reserved-word record, advancing past it.
func (r *Reader) ReadResWord() (code ResWordCode, stepPos int, isBlock bool) {
	hdr := r.buf.bytes[r.pos]
	n := int(hdr >> 4)
	code = ResWordCode(r.buf.bytes[r.pos+1])
	isBlock = n == recLenResWordBlk
	stepPos = r.pos
	r.pos += n
	return
}

// ReadTerminal decodes a terminal record, advancing past it.
func (r *Reader) ReadTerminal() (group Kind, index byte) {
	b := r.buf.bytes[r.pos]
	group = Kind(b & hdrKindMask)
	index = b >> 4
	r.pos++
	return
}

// ReadBuiltin decodes a built-in-function-call record, advancing past it.
func (r *Reader) ReadBuiltin() (index byte) {
	index = r.buf.bytes[r.pos+1]
	r.pos += recLenBuiltin
	return
}

// ReadUserFunc decodes a user-function record, advancing past it.
func (r *Reader) ReadUserFunc() (nameIndex byte) {
	nameIndex = r.buf.bytes[r.pos+1]
	r.pos += recLenUserFunc
	return
}

// ReadVariable decodes a variable record, advancing past it.
func (r *Reader) ReadVariable() (identInfo TypeByte, nameIndex, valueIndex byte) {
	identInfo = TypeByte(r.buf.bytes[r.pos+1])
	nameIndex = r.buf.bytes[r.pos+2]
	valueIndex = r.buf.bytes[r.pos+3]
	r.pos += recLenVariable
	return
}

// ReadConstant decodes a constant record, advancing past it.
func (r *Reader) ReadConstant() (vt ValueType, payload [4]byte) {
	hdr := r.buf.bytes[r.pos]
	vt = ValueType(hdr >> 4)
	copy(payload[:], r.buf.bytes[r.pos+1:r.pos+5])
	r.pos += recLenConstant
	return
}
