// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package cpuid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
)

// Signature buffer sizes, excluding the trailing NUL each query appends.
const (
	// VendorSignatureSize is the length of the vendor signature string.
	VendorSignatureSize = 12
	// InterfaceSignatureSize is the length of the interface signature string.
	InterfaceSignatureSize = 4
)

// Known hypervisor vendor signatures, exactly VendorSignatureSize bytes
// each. KVM pads its nine characters with NULs.
const (
	VendorVMware = "VMwareVMware"
	VendorXen    = "XenVMMXenVMM"
	VendorHyperV = "Microsoft Hv"
	VendorKVM    = "KVMKVMKVM\x00\x00\x00"
)

// VendorSignature returns the hypervisor vendor signature: the three
// signature registers of LeafHypervisorInfo concatenated little-endian,
// followed by one NUL byte. The buffer is freshly allocated and owned by
// the caller.
//
// Returns nil when the presence bit is unset. When the presence bit is set
// but the CPU reports no hypervisor leaves, a diagnostic is logged and the
// (possibly garbage) register contents are returned anyway; callers must
// not assume textual validity.
func VendorSignature(log *slog.Logger) []byte {
	if !HypervisorPresent() {
		return nil
	}

	regs := queryLeaf(LeafHypervisorInfo)
	if regs.EAX < LeafHypervisorInfo {
		log.Warn("hypervisor bit is set, but no vendor signature is present")
	}

	sig := make([]byte, VendorSignatureSize+1)
	binary.LittleEndian.PutUint32(sig[0:], regs.EBX)
	binary.LittleEndian.PutUint32(sig[4:], regs.ECX)
	binary.LittleEndian.PutUint32(sig[8:], regs.EDX)

	return sig
}

// InterfaceSignature returns the hypervisor interface signature: the EAX
// register of LeafInterfaceSig little-endian, followed by one NUL byte.
// The buffer is freshly allocated and owned by the caller.
//
// Returns nil when the presence bit is unset, when the CPU reports no
// interface leaf (logged), or when the leaf reads as zero.
func InterfaceSignature(log *slog.Logger) []byte {
	if !HypervisorPresent() {
		return nil
	}

	if queryLeaf(LeafHypervisorInfo).EAX < LeafInterfaceSig {
		log.Warn("hypervisor bit is set, but no interface signature is present")

		return nil
	}

	regs := queryLeaf(LeafInterfaceSig)
	if regs.EAX == 0 {
		return nil
	}

	sig := make([]byte, InterfaceSignatureSize+1)
	binary.LittleEndian.PutUint32(sig, regs.EAX)

	return sig
}

// VendorIs reports whether the hypervisor vendor signature exactly matches
// vendor, which must be one of the Vendor constants. No fuzzy matching.
func VendorIs(vendor string, log *slog.Logger) bool {
	sig := VendorSignature(log)
	if sig == nil {
		return false
	}

	return bytes.Equal(sig[:VendorSignatureSize], []byte(vendor))
}

// IsHyperV reports whether we are running under Microsoft Hyper-V.
func IsHyperV(log *slog.Logger) bool {
	return VendorIs(VendorHyperV, log)
}

// LogHypervisorLeaves dumps every hypervisor identification leaf, from
// LeafHypervisorInfo up to the smaller of the CPU-reported maximum and
// LeafHypervisorMax. Purely diagnostic.
func LogHypervisorLeaves(log *slog.Logger) {
	if !HypervisorPresent() {
		log.Info("hypervisor not found, presence bit is not set")

		return
	}

	maxLeaf := queryLeaf(LeafHypervisorInfo).EAX
	if maxLeaf > LeafHypervisorMax {
		maxLeaf = LeafHypervisorMax
	}

	if maxLeaf < LeafHypervisorInfo {
		log.Warn("hypervisor bit is set, but no vendor signature is present")

		return
	}

	logLeafRange(log, maxLeaf)
}

func logLeafRange(log *slog.Logger, maxLeaf uint32) {
	for leaf := LeafHypervisorInfo; leaf <= maxLeaf; leaf++ {
		regs := queryLeaf(leaf)
		log.Info("hypervisor leaf",
			"leaf", asHex(leaf),
			"eax", asHex(regs.EAX),
			"ebx", asHex(regs.EBX),
			"ecx", asHex(regs.ECX),
			"edx", asHex(regs.EDX),
		)
	}
}

func asHex(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}
