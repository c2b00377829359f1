// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

// Register words are modeled the way vmw-guestinfo modeled them: a 64-bit
// register splits into two 32-bit words, and a 32-bit word splits into two
// 16-bit halves, because the protocol addresses all three granularities.

package backdoor

// UInt32 is a 32-bit register word addressable by 16-bit halves.
type UInt32 struct {
	High uint16
	Low  uint16
}

// Word returns the word as a single uint32.
func (u *UInt32) Word() uint32 {
	return uint32(u.High)<<16 + uint32(u.Low)
}

// SetWord sets the word from a single uint32.
func (u *UInt32) SetWord(w uint32) {
	u.High = uint16(w >> 16)
	u.Low = uint16(w)
}

// Value returns the value of the word.
func (u *UInt32) Value() uint32 {
	return u.Word()
}

// SetValue sets the value of the word.
func (u *UInt32) SetValue(val uint32) {
	u.SetWord(val)
}

// UInt64 is a 64-bit register addressable by 32-bit words.
type UInt64 struct {
	High UInt32
	Low  UInt32
}

// Quad returns the register as a single uint64.
func (u *UInt64) Quad() uint64 {
	return uint64(u.High.Word())<<32 + uint64(u.Low.Word())
}

// SetQuad sets the register from a single uint64.
func (u *UInt64) SetQuad(w uint64) {
	u.High.SetWord(uint32(w >> 32))
	u.Low.SetWord(uint32(w))
}

// AsUInt32 addresses the lower word of the register.
func (u *UInt64) AsUInt32() *UInt32 {
	return &u.Low
}

// Value returns the value (a quad).
func (u *UInt64) Value() uint64 {
	return u.Quad()
}

// SetValue sets the value using a quad.
func (u *UInt64) SetValue(val uint64) {
	u.SetQuad(val)
}
