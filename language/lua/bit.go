package lua

import (
	"fmt"
	"math"
	"math/bits"

	glua "github.com/yuin/gopher-lua"
)

// newBitModule builds the bit table. Operands are normalised to 32 bits and
// results are returned as signed 32-bit numbers.
func newBitModule(L *glua.LState) *glua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]glua.LGFunction{
		"tobit":   bitToBit,
		"bnot":    bitNot,
		"band":    bitFold(func(a, b uint32) uint32 { return a & b }),
		"bor":     bitFold(func(a, b uint32) uint32 { return a | b }),
		"bxor":    bitFold(func(a, b uint32) uint32 { return a ^ b }),
		"lshift":  bitShift(func(x uint32, n uint) uint32 { return x << n }),
		"rshift":  bitShift(func(x uint32, n uint) uint32 { return x >> n }),
		"arshift": bitShift(func(x uint32, n uint) uint32 { return uint32(int32(x) >> n) }),
		"rol":     bitShift(func(x uint32, n uint) uint32 { return bits.RotateLeft32(x, int(n)) }),
		"ror":     bitShift(func(x uint32, n uint) uint32 { return bits.RotateLeft32(x, -int(n)) }),
		"tohex":   bitToHex,
	})
}

func toBit(n glua.LNumber) uint32 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Mod(math.Trunc(f), 1<<32)))
}

func pushBit(L *glua.LState, x uint32) int {
	L.Push(glua.LNumber(int32(x)))
	return 1
}

func bitToBit(L *glua.LState) int {
	return pushBit(L, toBit(L.CheckNumber(1)))
}

func bitNot(L *glua.LState) int {
	return pushBit(L, ^toBit(L.CheckNumber(1)))
}

func bitFold(op func(a, b uint32) uint32) glua.LGFunction {
	return func(L *glua.LState) int {
		x := toBit(L.CheckNumber(1))
		for i := 2; i <= L.GetTop(); i++ {
			x = op(x, toBit(L.CheckNumber(i)))
		}
		return pushBit(L, x)
	}
}

func bitShift(op func(x uint32, n uint) uint32) glua.LGFunction {
	return func(L *glua.LState) int {
		x := toBit(L.CheckNumber(1))
		n := uint(toBit(L.CheckNumber(2)) & 31)
		return pushBit(L, op(x, n))
	}
}

// bitToHex formats x with n hex digits, 8 by default. A negative n selects
// upper case.
func bitToHex(L *glua.LState) int {
	x := toBit(L.CheckNumber(1))
	n := L.OptInt(2, 8)
	verb := "%0*x"
	if n < 0 {
		verb = "%0*X"
		n = -n
	}
	if n > 8 {
		n = 8
	}
	if n < 8 {
		x &= 1<<(4*uint(n)) - 1
	}
	L.Push(glua.LString(fmt.Sprintf(verb, n, x)))
	return 1
}
