// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package xen

// nativeTouch issues the ud2a + "xen" + cpuid hook for the given leaf.
// Implemented in xen_amd64.s. Raises #UD anywhere but under Xen PV.
func nativeTouch(leaf uint32) (ebx, ecx, edx uint32)
