// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/siderolabs/hvinfo/pkg/cpuid"
)

// Interface identifies the mechanism used to reach the hypervisor.
type Interface uint32

const (
	// InterfaceUnresolved means no mechanism has been chosen yet.
	InterfaceUnresolved Interface = iota
	// InterfaceVmcall is the Intel hypercall instruction.
	InterfaceVmcall
	// InterfaceVmmcall is the AMD hypercall instruction.
	InterfaceVmmcall
	// InterfaceIO is the legacy backdoor I/O port.
	InterfaceIO
)

// String returns the interface name.
func (i Interface) String() string {
	switch i {
	case InterfaceVmcall:
		return "vmcall"
	case InterfaceVmmcall:
		return "vmmcall"
	case InterfaceIO:
		return "io-port"
	}

	return "unresolved"
}

// leafVMwareFeatures is the VMware feature leaf; its ECX advertises
// hypercall support. Reachable only when the vendor leaf reports at least
// this much.
const leafVMwareFeatures = uint32(0x40000010)

const (
	featureVmcall  = uint32(1) << 0
	featureVmmcall = uint32(1) << 1
)

// Seams into the prober, substituted by tests.
var (
	hypervisorPresent = cpuid.HypervisorPresent
	queryLeaf         = cpuid.Query
)

// resolved memoizes the interface. The stored value is a pure function of
// hardware capability, so concurrent first-time resolution is a benign
// race: all writers store the identical value. A single 32-bit word keeps
// the write naturally atomic.
var resolved atomic.Uint32

// Resolve picks the mechanism used for all protocol exchanges: VMCALL when
// the VMware feature leaf advertises it, VMMCALL as second choice, and the
// legacy I/O port otherwise. The choice is made once per process and never
// reverted.
func Resolve() Interface {
	if i := Interface(resolved.Load()); i != InterfaceUnresolved {
		return i
	}

	i := resolveInterface()
	resolved.Store(uint32(i))

	return i
}

func resolveInterface() Interface {
	if !hypercallSupported || !hypervisorPresent() {
		return InterfaceIO
	}

	if !vendorIsVMware() {
		return InterfaceIO
	}

	if queryLeaf(cpuid.LeafHypervisorInfo).EAX < leafVMwareFeatures {
		return InterfaceIO
	}

	features := queryLeaf(leafVMwareFeatures).ECX

	// VMCALL wins over VMMCALL, always.
	switch {
	case features&featureVmcall != 0:
		return InterfaceVmcall
	case features&featureVmmcall != 0:
		return InterfaceVmmcall
	}

	return InterfaceIO
}

func vendorIsVMware() bool {
	regs := queryLeaf(cpuid.LeafHypervisorInfo)

	var sig [cpuid.VendorSignatureSize]byte

	binary.LittleEndian.PutUint32(sig[0:], regs.EBX)
	binary.LittleEndian.PutUint32(sig[4:], regs.ECX)
	binary.LittleEndian.PutUint32(sig[8:], regs.EDX)

	return string(sig[:]) == cpuid.VendorVMware
}
