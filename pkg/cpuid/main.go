// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

// Package cpuid probes the CPU identification instruction for hypervisor
// information: the hypervisor-presence bit, the vendor and interface
// signature leaves, and the vendor-specific feature leaves.
//
// Everything in this package is safe to call on physical hardware. The
// identification instruction is unprivileged, and every hypervisor leaf is
// gated behind the presence bit, so no call here can fault. References:
//
// - https://en.wikipedia.org/wiki/CPUID#EAX=1:_Processor_Info_and_Feature_Bits
// - https://lwn.net/Articles/301888/ (hypervisor CPUID interface proposal)
// - https://github.com/vmware/open-vm-tools/
package cpuid
