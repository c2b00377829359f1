// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

// Package xen detects Xen paravirtualized guests. Xen PV guests cannot
// trap the identification instruction, so Xen documents an alternate hook:
// a deliberately invalid instruction, followed inline by the "xen" marker
// bytes and the identification instruction, which the Xen trap handler
// recognizes and answers with the vendor signature before resuming. See
// xen-detect.c in the Xen tree.
//
// On anything that is not Xen, the invalid instruction raises a fault.
// This package does not and cannot catch it: the caller must have a fault
// boundary in place (a signal handler, a supervising process) that turns
// the fault into a negative answer. Without one, the calling process dies.
// This is the only operation in this repository with that property.
package xen

import (
	"encoding/binary"

	"github.com/siderolabs/hvinfo/pkg/cpuid"
)

// touchLeaf is the seam around the faulting instruction sequence,
// substituted by tests.
var touchLeaf = nativeTouch

// Touch reports whether we are running as a Xen PV guest, by issuing the
// invalid-instruction hook for the vendor leaf and exact-matching the
// answer. Faults on any other hardware; see the package documentation for
// the required fault boundary.
func Touch() bool {
	ebx, ecx, edx := touchLeaf(cpuid.LeafHypervisorInfo)

	return matchSignature(ebx, ecx, edx)
}

func matchSignature(ebx, ecx, edx uint32) bool {
	var sig [cpuid.VendorSignatureSize]byte

	binary.LittleEndian.PutUint32(sig[0:], ebx)
	binary.LittleEndian.PutUint32(sig[4:], ecx)
	binary.LittleEndian.PutUint32(sig[8:], edx)

	return string(sig[:]) == cpuid.VendorXen
}
