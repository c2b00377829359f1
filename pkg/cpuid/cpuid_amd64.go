// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package cpuid

// cpuidLow issues CPUID for the given leaf and sub-leaf. Implemented in
// cpuid_amd64.s.
func cpuidLow(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

func nativeQuery(leaf uint32) Regs {
	var r Regs

	r.EAX, r.EBX, r.ECX, r.EDX = cpuidLow(leaf, 0)

	return r
}
