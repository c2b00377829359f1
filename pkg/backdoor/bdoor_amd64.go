// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

// hypercallSupported reports whether this architecture can issue the
// VMCALL/VMMCALL instructions at all.
const hypercallSupported = true

// The exchange primitives are implemented in bdoor_amd64.s.

func bdoorInOut(ax, bx, cx, dx, si, di uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64)
func bdoorVmcall(ax, bx, cx, dx, si, di uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64)
func bdoorVmmcall(ax, bx, cx, dx, si, di uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64)
