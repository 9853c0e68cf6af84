package syscall

import "fmt"

// X86 is the 32-bit flavour. It checks the WOW64 transition pointer at
// fs:[0C0h]: native 32-bit kernels take int 2Eh, WOW64 processes call
// through the transition gate. Both paths leave the caller's arguments in
// place and point edx at them.
//
// The token is x86_64 for compatibility with existing build scripts.
type X86 struct{}

func (X86) variant() {}

func (X86) Name() string { return "x86_64" }

func (X86) Preamble() string {
	return ".MODEL FLAT, C\n.CODE\n\nASSUME FS:NOTHING\n\nEXTERN " + ResolverSymbol + ": PROC\n\n"
}

const x86Stub = `%[1]s PROC
	push %[2]s
	call %[3]s  ; Resolve function hash into syscall number.
	add esp, 4
	mov ecx, fs:[0c0h]
	test ecx, ecx
	jne _wow64
	lea edx, [esp+4h]
	INT 02eh
	ret
	_wow64:
	xor ecx, ecx
	lea edx, [esp+4h]
	call dword ptr fs:[0c0h]
	ret
%[1]s ENDP
`

func (X86) Stub(name string, hash uint32) string {
	return fmt.Sprintf(x86Stub, name, hashLiteral(hash), ResolverSymbol)
}

func (X86) Trailer() string { return "END" }
