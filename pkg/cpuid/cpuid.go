// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package cpuid

import "sync/atomic"

// Hypervisor-related identification leaves. Leaves between
// LeafHypervisorInfo and LeafHypervisorMax are reserved for the hypervisor
// and are only meaningful when the presence bit of LeafFeatureInfo is set.
const (
	// LeafFeatureInfo returns the basic feature bits, including the
	// hypervisor-presence bit in ECX.
	LeafFeatureInfo uint32 = 0x1
	// LeafHypervisorInfo returns the maximum hypervisor leaf in EAX and the
	// vendor signature in EBX/ECX/EDX.
	LeafHypervisorInfo uint32 = 0x40000000
	// LeafInterfaceSig returns the hypervisor interface signature in EAX.
	LeafInterfaceSig uint32 = 0x40000001
	// LeafHypervisorMax is the highest hypervisor leaf ever consulted,
	// regardless of what LeafHypervisorInfo reports.
	LeafHypervisorMax uint32 = 0x400000FF
)

// hypervisorBit is bit 31 of LeafFeatureInfo's ECX. Both Intel and AMD
// guarantee it reads as zero on physical hardware.
const hypervisorBit = uint32(1) << 31

// Regs holds the four output registers of one identification leaf.
type Regs struct {
	EAX, EBX, ECX, EDX uint32
}

// queryLeaf is the single seam through which this package touches the
// hardware. Tests substitute a simulated CPU here.
var queryLeaf = nativeQuery

// Query issues the identification instruction for the given leaf and
// returns the raw registers. It is unprivileged and cannot fault.
func Query(leaf uint32) Regs {
	return queryLeaf(leaf)
}

// hvPresent memoizes the presence bit. The write is idempotent: the bit is
// a pure hardware property, so concurrent first calls all store the same
// value. atomic only guards against tearing, not for ordering.
var hvPresent atomic.Bool

// HypervisorPresent reports whether the hypervisor-presence bit is set.
// Once true has been observed it stays true for the life of the process.
func HypervisorPresent() bool {
	if !hvPresent.Load() {
		hvPresent.Store(queryLeaf(LeafFeatureInfo).ECX&hypervisorBit != 0)
	}

	return hvPresent.Load()
}
