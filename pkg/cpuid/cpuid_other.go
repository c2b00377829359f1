// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

//go:build !amd64

package cpuid

// Architectures without the identification instruction report all-zero
// leaves, so the presence bit reads as unset and every caller
// short-circuits to the "not virtualized" result.
func nativeQuery(_ uint32) Regs {
	return Regs{}
}
