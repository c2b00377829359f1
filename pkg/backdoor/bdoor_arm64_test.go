// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

import "testing"

// The exchange word is hardcoded in bdoor_arm64.s; keep the two in sync.
func TestIOExchangeWord(t *testing.T) {
	if ioExchangeWord != 0x860000000E {
		t.Errorf("ioExchangeWord = 0x%x, update bdoor_arm64.s to match", ioExchangeWord)
	}
}
