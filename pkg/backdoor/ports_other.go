// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

//go:build !linux || !amd64

package backdoor

import "errors"

// ErrPortAccessUnsupported is returned where I/O privilege cannot be
// raised from user space.
var ErrPortAccessUnsupported = errors.New("raising I/O port access is not supported on this platform")

// PortAccess raises the I/O privilege level of the calling thread. Not
// supported here.
func PortAccess() error {
	return ErrPortAccessUnsupported
}
