// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

//go:build !amd64 && !arm64

package backdoor

const hypercallSupported = false

// Without the backdoor instructions every exchange returns an all-zero
// frame, which every command interprets as "absent" or "unsupported".

func bdoorInOut(_, _, _, _, _, _ uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64) {
	return 0, 0, 0, 0, 0, 0
}

func bdoorVmcall(_, _, _, _, _, _ uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64) {
	return 0, 0, 0, 0, 0, 0
}

func bdoorVmmcall(_, _, _, _, _, _ uint64) (retax, retbx, retcx, retdx, retsi, retdi uint64) {
	return 0, 0, 0, 0, 0, 0
}
