// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

// this file contains the detection commands issued over the backdoor

import (
	"errors"
	"fmt"
)

const (
	noVersion uint32 = 0xffffffff
)

// Commands occupy the low 16 bits of CX; an optional sub-command occupies
// the high 16 bits.
const (
	commandGetMHz         uint16 = 0x01
	commandGetVersion     uint16 = 0x0a
	commandGetVCPUInfo    uint16 = 0x44
	commandNestingControl uint16 = 0x4c
	commandGetBuildNumber uint16 = 0x5b
)

// nestingQuery is the sub-command asking the outer hypervisor whether it
// supports running nested VMs.
const nestingQuery uint16 = 0x02

// Bits of the GetVCPUInfo result.
const (
	// VCPUSyncVTSCs reports that the VCPUs' TSCs are synchronized.
	VCPUSyncVTSCs = 1
	// vcpuReserved reads as set when GetVCPUInfo itself is unimplemented,
	// in which case no other bit of the result can be trusted.
	vcpuReserved = 31
)

var (
	magicMismatchStr = fmt.Sprintf("returned magic does not match, expected 0x%08x", magic)
	// ErrMagicMismatch indicates that the magic received does not match.
	ErrMagicMismatch = errors.New(magicMismatchStr)
)

func call(cmd, sub uint16) *Frame {
	f := &Frame{}
	f.CX.AsUInt32().Low = cmd
	f.CX.AsUInt32().High = sub

	activeChannel().exchange(f)

	return f
}

// TouchBackdoor probes for the backdoor. On a hypercall interface presence
// is already implied by interface selection, so it reports true without an
// exchange. On the I/O interface it issues GetVersion with BX poisoned to
// the magic's complement: inside a VM the hypervisor replaces BX with the
// magic; on physical hardware the port read raises #GP, or on systems that
// swallow the fault BX comes back unchanged and the probe reports false.
//
// This is the only command safe to issue before presence is established,
// and even then only under an external fault boundary on unknown hardware.
func TouchBackdoor() bool {
	switch Resolve() {
	case InterfaceVmcall, InterfaceVmmcall:
		return true
	default:
	}

	f := &Frame{}
	f.CX.AsUInt32().Low = commandGetVersion
	f.BX.AsUInt32().SetValue(^magic)

	activeChannel().exchange(f)

	return f.BX.AsUInt32().Word() == magic
}

// Version fetches the version of the hypervisor. Returns the version and
// the product type.
func Version() (uint32, uint32, error) {
	f := call(commandGetVersion, 0)

	version := f.AX.AsUInt32().Word()
	product := f.CX.AsUInt32().Word()

	if f.BX.AsUInt32().Word() != magic {
		return version, product, ErrMagicMismatch
	}

	return version, product, nil
}

// IsVirtual reports whether a VMware hypervisor answers the backdoor.
// Beware that on physical hardware this may involve a faulting
// instruction; establish presence via TouchBackdoor or the CPUID presence
// bit first.
func IsVirtual() bool {
	version, _, err := Version()
	if err != nil {
		return false
	}

	return version != noVersion
}

// NestingSupported reports whether the outer hypervisor supports running
// nested VMs. The result register is valid only when it is at least the
// query sub-command and not the all-ones sentinel.
func NestingSupported() bool {
	result := call(commandNestingControl, nestingQuery).AX.AsUInt32().Word()

	return result >= uint32(nestingQuery) && result != ^uint32(0)
}

// VCPUInfo reports whether the VCPU feature identified by bit is
// supported. The caller must pass a bit index within the range documented
// by the hypervisor contract; only the reserved-bit convention is checked
// here.
func VCPUInfo(bit uint) bool {
	result := call(commandGetVCPUInfo, 0).AX.AsUInt32().Word()

	// If the reserved bit is set, the command wasn't implemented.
	return result&(1<<vcpuReserved) == 0 && result&(1<<bit) != 0
}

// SynchronizedVTSCs reports whether the VCPUs' TSCs are synchronized.
func SynchronizedVTSCs() bool {
	return VCPUInfo(VCPUSyncVTSCs)
}

// NestedBuildNumber returns the build number of the outer hypervisor. No
// sentinel filtering is applied: all-ones and zero are legitimate values
// under this contract.
func NestedBuildNumber() uint32 {
	return call(commandGetBuildNumber, 0).AX.AsUInt32().Word()
}

// ProcessorMHz returns the speed of the CPU clock as reported by the
// hypervisor.
func ProcessorMHz() uint32 {
	return call(commandGetMHz, 0).AX.AsUInt32().Word()
}
