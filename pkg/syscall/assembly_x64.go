package syscall

import "fmt"

// X64 spills the argument registers to the shadow space, resolves the hash
// and issues syscall with the number in eax.
type X64 struct{}

func (X64) variant() {}

func (X64) Name() string { return "x64" }

func (X64) Preamble() string {
	return ".CODE\n\nEXTERN " + ResolverSymbol + ": PROC\n\n"
}

const x64Stub = `%[1]s PROC
	mov [rsp +8], rcx          ; Save registers.
	mov [rsp+16], rdx
	mov [rsp+24], r8
	mov [rsp+32], r9
	sub rsp, 28h
	mov ecx, %[2]s        ; Load function hash into ECX.
	call %[3]s  ; Resolve function hash into syscall number.
	add rsp, 28h
	mov rcx, [rsp +8]          ; Restore registers.
	mov rdx, [rsp+16]
	mov r8, [rsp+24]
	mov r9, [rsp+32]
	mov r10, rcx
	syscall                    ; Invoke system call.
	ret
%[1]s ENDP
`

func (X64) Stub(name string, hash uint32) string {
	return fmt.Sprintf(x64Stub, name, hashLiteral(hash), ResolverSymbol)
}

func (X64) Trailer() string { return "END" }
