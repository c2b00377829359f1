// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

import "fmt"

const (
	backdoorPort = uint16(0x5658)
	magic        = uint32(0x564D5868)
)

// Low-bandwidth hypercall flags, placed in DX when dispatching through
// VMCALL or VMMCALL instead of the port read.
const (
	flagLowBandwidth uint32 = 0x2
	flagRead         uint32 = 0x4

	flagsLowBWRead = flagLowBandwidth | flagRead
)

// Frame models the registers sent to and received from the hypervisor
// during one exchange. It exists only for the duration of a single call.
type Frame struct {
	AX, BX, CX, DX, SI, DI UInt64
}

// String renders the frame, useful for debugging.
func (f *Frame) String() string {
	return fmt.Sprintf("ax=%8x bx=%8x cx=%8x dx=%8x si=%8x di=%8x",
		f.AX.Value(), f.BX.Value(), f.CX.Value(), f.DX.Value(), f.SI.Value(), f.DI.Value())
}

// channel issues one protocol exchange through a specific hardware
// mechanism. All register packing that is mechanism-specific (the magic
// value, the port number, the hypercall flags) happens here and nowhere
// else.
type channel interface {
	exchange(f *Frame)
}

// ioChannel dispatches through a read of the legacy backdoor I/O port.
type ioChannel struct{}

func (ioChannel) exchange(f *Frame) {
	f.DX.AsUInt32().Low = backdoorPort
	f.AX.AsUInt32().SetValue(magic)

	f.set(bdoorInOut(f.AX.Value(), f.BX.Value(), f.CX.Value(), f.DX.Value(), f.SI.Value(), f.DI.Value()))
}

// vmcallChannel dispatches through the Intel hypercall instruction.
type vmcallChannel struct{}

func (vmcallChannel) exchange(f *Frame) {
	f.DX.AsUInt32().SetValue(flagsLowBWRead)
	f.AX.AsUInt32().SetValue(magic)

	f.set(bdoorVmcall(f.AX.Value(), f.BX.Value(), f.CX.Value(), f.DX.Value(), f.SI.Value(), f.DI.Value()))
}

// vmmcallChannel dispatches through the AMD hypercall instruction.
type vmmcallChannel struct{}

func (vmmcallChannel) exchange(f *Frame) {
	f.DX.AsUInt32().SetValue(flagsLowBWRead)
	f.AX.AsUInt32().SetValue(magic)

	f.set(bdoorVmmcall(f.AX.Value(), f.BX.Value(), f.CX.Value(), f.DX.Value(), f.SI.Value(), f.DI.Value()))
}

func (f *Frame) set(ax, bx, cx, dx, si, di uint64) {
	f.AX.SetValue(ax)
	f.BX.SetValue(bx)
	f.CX.SetValue(cx)
	f.DX.SetValue(dx)
	f.SI.SetValue(si)
	f.DI.SetValue(di)
}

// activeChannel returns the channel for the resolved interface. Tests
// substitute a simulated hypervisor here.
var activeChannel = func() channel {
	switch Resolve() {
	case InterfaceVmcall:
		return vmcallChannel{}
	case InterfaceVmmcall:
		return vmmcallChannel{}
	default:
		return ioChannel{}
	}
}
