package lua

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	glua "github.com/yuin/gopher-lua"
)

// Format letters understood by bin.pack and bin.unpack. An optional decimal
// count follows each letter. '<' and '>' switch to little and big endian;
// '=' restores the default, little endian.
//
//	c int8     b uint8
//	h int16    s uint16
//	i int32    I uint32
//	l int64    L uint64
//	f float32  d float64
//	A raw string (unpack: count bytes, default the rest)
//	z zero-terminated string
//	p string prefixed with a length byte
//	H hex string (pack: hex digits in, bytes out; unpack: count bytes as hex)
func newBinModule(L *glua.LState) *glua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]glua.LGFunction{
		"pack":   binPack,
		"unpack": binUnpack,
	})
}

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

type binOp struct {
	code     byte
	count    int
	hasCount bool
}

// parseFormat splits a format string into ops. Endianness markers are
// returned as ops with no count.
func parseFormat(format string) ([]binOp, bool) {
	var ops []binOp
	for i := 0; i < len(format); {
		c := format[i]
		i++
		if c == ' ' {
			continue
		}
		if !strings.ContainsRune("<>=cbhsiIlLfdAzpH", rune(c)) {
			return nil, false
		}
		op := binOp{code: c, count: 1}
		if i < len(format) && isDigit(format[i]) {
			op.count = 0
			op.hasCount = true
			for i < len(format) && isDigit(format[i]) {
				op.count = op.count*10 + int(format[i]-'0')
				i++
			}
		}
		ops = append(ops, op)
	}
	return ops, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func numSize(code byte) int {
	switch code {
	case 'c', 'b':
		return 1
	case 'h', 's':
		return 2
	case 'i', 'I', 'f':
		return 4
	case 'l', 'L', 'd':
		return 8
	}
	return 0
}

func binPack(L *glua.LState) int {
	ops, ok := parseFormat(L.CheckString(1))
	if !ok {
		L.ArgError(1, "invalid format")
		return 0
	}

	var order byteOrder = binary.LittleEndian
	var buf []byte
	arg := 2

	for _, op := range ops {
		switch op.code {
		case '<', '=':
			order = binary.LittleEndian
		case '>':
			order = binary.BigEndian
		case 'A':
			buf = append(buf, L.CheckString(arg)...)
			arg++
		case 'z':
			buf = append(buf, L.CheckString(arg)...)
			buf = append(buf, 0)
			arg++
		case 'p':
			s := L.CheckString(arg)
			if len(s) > 255 {
				L.ArgError(arg, "string too long for 'p'")
				return 0
			}
			buf = append(buf, byte(len(s)))
			buf = append(buf, s...)
			arg++
		case 'H':
			raw, err := hex.DecodeString(L.CheckString(arg))
			if err != nil {
				L.ArgError(arg, "invalid hex string")
				return 0
			}
			buf = append(buf, raw...)
			arg++
		default:
			for range op.count {
				buf = appendNumber(buf, order, op.code, float64(L.CheckNumber(arg)))
				arg++
			}
		}
	}

	L.Push(glua.LString(buf))
	return 1
}

func appendNumber(buf []byte, order byteOrder, code byte, n float64) []byte {
	switch code {
	case 'c', 'b':
		return append(buf, byte(int64(n)))
	case 'h', 's':
		return order.AppendUint16(buf, uint16(int64(n)))
	case 'i', 'I':
		return order.AppendUint32(buf, uint32(int64(n)))
	case 'l', 'L':
		return order.AppendUint64(buf, uint64(int64(n)))
	case 'f':
		return order.AppendUint32(buf, math.Float32bits(float32(n)))
	case 'd':
		return order.AppendUint64(buf, math.Float64bits(n))
	}
	return buf
}

// binUnpack returns the 1-based position after the last consumed byte,
// followed by the decoded values. Decoding stops early when data runs out.
func binUnpack(L *glua.LState) int {
	ops, ok := parseFormat(L.CheckString(1))
	if !ok {
		L.ArgError(1, "invalid format")
		return 0
	}
	data := L.CheckString(2)
	pos := L.OptInt(3, 1) - 1
	if pos < 0 || pos > len(data) {
		pos = len(data)
	}

	var order byteOrder = binary.LittleEndian
	var values []glua.LValue

decode:
	for _, op := range ops {
		switch op.code {
		case '<', '=':
			order = binary.LittleEndian
		case '>':
			order = binary.BigEndian
		case 'A', 'H':
			n := len(data) - pos
			if op.hasCount {
				n = op.count
			}
			if pos+n > len(data) {
				break decode
			}
			chunk := data[pos : pos+n]
			pos += n
			if op.code == 'H' {
				values = append(values, glua.LString(strings.ToUpper(hex.EncodeToString([]byte(chunk)))))
			} else {
				values = append(values, glua.LString(chunk))
			}
		case 'z':
			end := strings.IndexByte(data[pos:], 0)
			if end < 0 {
				break decode
			}
			values = append(values, glua.LString(data[pos:pos+end]))
			pos += end + 1
		case 'p':
			if pos >= len(data) {
				break decode
			}
			n := int(data[pos])
			if pos+1+n > len(data) {
				break decode
			}
			values = append(values, glua.LString(data[pos+1:pos+1+n]))
			pos += 1 + n
		default:
			size := numSize(op.code)
			for range op.count {
				if pos+size > len(data) {
					break decode
				}
				values = append(values, glua.LNumber(readNumber([]byte(data[pos:pos+size]), order, op.code)))
				pos += size
			}
		}
	}

	L.Push(glua.LNumber(pos + 1))
	for _, v := range values {
		L.Push(v)
	}
	return len(values) + 1
}

func readNumber(b []byte, order byteOrder, code byte) float64 {
	switch code {
	case 'c':
		return float64(int8(b[0]))
	case 'b':
		return float64(b[0])
	case 'h':
		return float64(int16(order.Uint16(b)))
	case 's':
		return float64(order.Uint16(b))
	case 'i':
		return float64(int32(order.Uint32(b)))
	case 'I':
		return float64(order.Uint32(b))
	case 'l':
		return float64(int64(order.Uint64(b)))
	case 'L':
		return float64(order.Uint64(b))
	case 'f':
		return float64(math.Float32frombits(order.Uint32(b)))
	case 'd':
		return math.Float64frombits(order.Uint64(b))
	}
	return 0
}
