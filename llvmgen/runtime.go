package llvmgen

import (
	"tinygo.org/x/go-llvm"

	"github.com/thiremani/irgen/contract"
)

// Runtime helpers the emitted code links against. They are declared the first
// time an instruction needs them.
const (
	rtAlloc        = "irgen_alloc"         // ptr (i64 size)
	rtArrayNew     = "irgen_array_new"     // ptr (i64 elemSize, i32 rank, i64 dims...)
	rtArrayElement = "irgen_array_element" // ptr (ptr array, i32 rank, i64 indices...)
	rtArrayLength  = "irgen_array_length"  // i64 (ptr array)
	rtDelegateNew  = "irgen_delegate_new"  // ptr (ptr fn, ptr receiver)
)

func (e *emitter) runtimeSignature(name string) llvm.Type {
	ptr, i32, i64 := e.types.ptr(), e.ctx.Int32Type(), e.ctx.Int64Type()
	switch name {
	case rtAlloc:
		return llvm.FunctionType(ptr, []llvm.Type{i64}, false)
	case rtArrayNew:
		return llvm.FunctionType(ptr, []llvm.Type{i64, i32}, true)
	case rtArrayElement:
		return llvm.FunctionType(ptr, []llvm.Type{ptr, i32}, true)
	case rtArrayLength:
		return llvm.FunctionType(i64, []llvm.Type{ptr}, false)
	case rtDelegateNew:
		return llvm.FunctionType(ptr, []llvm.Type{ptr, ptr}, false)
	}
	contract.Failf("unknown runtime helper %s", name)
	return llvm.Type{}
}

func (e *emitter) runtimeFunc(name string) *function {
	if fn, ok := e.runtime[name]; ok {
		return fn
	}
	typ := e.runtimeSignature(name)
	fn := &function{value: llvm.AddFunction(e.module, name, typ), typ: typ}
	e.runtime[name] = fn
	return fn
}
