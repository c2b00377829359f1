// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

// The hypercall instructions are x86-only; on ARM every exchange goes
// through the trapped-instruction equivalent of the port read.
const hypercallSupported = false

// ESXi on ARM traps a read of the debug status register and interprets it
// as an x86 I/O instruction described by register 7: the I/O magic in the
// high word plus direction, operand-size and addressing flags. The frame
// registers keep the x86 layout, so the exchange is shaped exactly like
// the port read.
const (
	ioMagic      = uint64(0x86) << 32
	ioW7With     = uint64(1) << 3
	ioW7Dir      = uint64(1) << 2
	ioW7SizeLong = uint64(2) << 0

	ioExchangeWord = ioMagic | ioW7With | ioW7Dir | ioW7SizeLong
)

// bdoorInOut is implemented in bdoor_arm64.s.
func bdoorInOut(ax, bx, cx, dx, si, di uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64)

// Unreachable while hypercallSupported is false; present so the hypercall
// channels compile.

func bdoorVmcall(_, _, _, _, _, _ uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64) {
	return 0, 0, 0, 0, 0, 0
}

func bdoorVmmcall(_, _, _, _, _, _ uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64) {
	return 0, 0, 0, 0, 0, 0
}
