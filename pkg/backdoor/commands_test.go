// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package backdoor

import (
	"errors"
	"testing"
)

// fakeHypervisor answers exchanges like the backdoor device would: it
// records the request registers and lets the test craft the reply.
type fakeHypervisor struct {
	requests []Frame
	respond  func(f *Frame)
}

func (h *fakeHypervisor) exchange(f *Frame) {
	h.requests = append(h.requests, *f)

	if h.respond != nil {
		h.respond(f)
	}
}

func installHypervisor(t *testing.T, h *fakeHypervisor) {
	t.Helper()

	prev := activeChannel
	activeChannel = func() channel { return h }

	t.Cleanup(func() {
		activeChannel = prev
	})
}

func replyAX(word uint32) func(f *Frame) {
	return func(f *Frame) {
		f.AX.AsUInt32().SetWord(word)
	}
}

func (h *fakeHypervisor) lastCommand(t *testing.T) (cmd, sub uint16) {
	t.Helper()

	if len(h.requests) == 0 {
		t.Fatal("no exchange was issued")
	}

	cx := h.requests[len(h.requests)-1].CX

	return cx.Low.Low, cx.Low.High
}

func TestTouchBackdoor(t *testing.T) {
	t.Run("hypercall interface implies presence", func(t *testing.T) {
		hv := &fakeHypervisor{}
		installHypervisor(t, hv)

		resolved.Store(uint32(InterfaceVmcall))

		t.Cleanup(func() { resolved.Store(uint32(InterfaceUnresolved)) })

		if !TouchBackdoor() {
			t.Error("presence not implied by hypercall interface")
		}

		if len(hv.requests) != 0 {
			t.Error("exchange issued on a hypercall interface")
		}
	})

	t.Run("io interface answered", func(t *testing.T) {
		hv := &fakeHypervisor{respond: func(f *Frame) {
			f.BX.AsUInt32().SetWord(magic)
		}}
		installHypervisor(t, hv)

		resolved.Store(uint32(InterfaceIO))

		t.Cleanup(func() { resolved.Store(uint32(InterfaceUnresolved)) })

		if !TouchBackdoor() {
			t.Error("answered knock not detected")
		}

		// The request must poison BX so that an unanswered read is
		// distinguishable from a VM reply.
		if got := hv.requests[0].BX.AsUInt32().Word(); got != ^magic {
			t.Errorf("request BX = 0x%08x, want 0x%08x", got, ^magic)
		}

		if cmd, sub := hv.lastCommand(t); cmd != commandGetVersion || sub != 0 {
			t.Errorf("command = (0x%02x, 0x%02x), want (0x%02x, 0x00)", cmd, sub, commandGetVersion)
		}
	})

	t.Run("io interface unanswered", func(t *testing.T) {
		// A host that swallows the fault leaves the registers alone.
		installHypervisor(t, &fakeHypervisor{})

		resolved.Store(uint32(InterfaceIO))

		t.Cleanup(func() { resolved.Store(uint32(InterfaceUnresolved)) })

		if TouchBackdoor() {
			t.Error("unanswered knock reported as presence")
		}
	})
}

func TestVersion(t *testing.T) {
	t.Run("magic mismatch", func(t *testing.T) {
		installHypervisor(t, &fakeHypervisor{respond: replyAX(6)})

		_, _, err := Version()
		if !errors.Is(err, ErrMagicMismatch) {
			t.Errorf("err = %v, want ErrMagicMismatch", err)
		}
	})

	t.Run("version and product", func(t *testing.T) {
		hv := &fakeHypervisor{respond: func(f *Frame) {
			f.AX.AsUInt32().SetWord(6)
			f.BX.AsUInt32().SetWord(magic)
			f.CX.AsUInt32().SetWord(1)
		}}
		installHypervisor(t, hv)

		version, product, err := Version()
		if err != nil {
			t.Fatalf("Version() error: %v", err)
		}

		if version != 6 || product != 1 {
			t.Errorf("Version() = (%d, %d), want (6, 1)", version, product)
		}

		if cmd, _ := hv.lastCommand(t); cmd != commandGetVersion {
			t.Errorf("command = 0x%02x, want 0x%02x", cmd, commandGetVersion)
		}
	})

	t.Run("no version sentinel", func(t *testing.T) {
		installHypervisor(t, &fakeHypervisor{respond: func(f *Frame) {
			f.AX.AsUInt32().SetWord(noVersion)
			f.BX.AsUInt32().SetWord(magic)
		}})

		if IsVirtual() {
			t.Error("no-version sentinel reported as virtual")
		}
	})
}

func TestNestingSupported(t *testing.T) {
	for _, tt := range []struct {
		name   string
		result uint32
		want   bool
	}{
		{name: "all ones sentinel", result: ^uint32(0), want: false},
		{name: "below query constant", result: uint32(nestingQuery) - 1, want: false},
		{name: "exactly query constant", result: uint32(nestingQuery), want: true},
		{name: "above query constant", result: 0x1000, want: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			hv := &fakeHypervisor{respond: replyAX(tt.result)}
			installHypervisor(t, hv)

			if got := NestingSupported(); got != tt.want {
				t.Errorf("NestingSupported() = %v, want %v", got, tt.want)
			}

			cmd, sub := hv.lastCommand(t)
			if cmd != commandNestingControl || sub != nestingQuery {
				t.Errorf("command = (0x%02x, 0x%02x), want (0x%02x, 0x%02x)",
					cmd, sub, commandNestingControl, nestingQuery)
			}
		})
	}
}

func TestVCPUInfo(t *testing.T) {
	t.Run("bit set", func(t *testing.T) {
		installHypervisor(t, &fakeHypervisor{respond: replyAX(1 << 4)})

		if !VCPUInfo(4) {
			t.Error("supported bit reported as unsupported")
		}
	})

	t.Run("bit clear", func(t *testing.T) {
		installHypervisor(t, &fakeHypervisor{respond: replyAX(^uint32(1<<4) &^ (1 << vcpuReserved))})

		if VCPUInfo(4) {
			t.Error("unsupported bit reported as supported")
		}
	})

	t.Run("reserved bit overrides", func(t *testing.T) {
		// The reserved bit means the command is unimplemented: every queried
		// bit must read as unsupported, even when it is set in the reply.
		installHypervisor(t, &fakeHypervisor{respond: replyAX(1<<vcpuReserved | 1<<4)})

		if VCPUInfo(4) {
			t.Error("reserved bit did not override the queried bit")
		}
	})
}

func TestSynchronizedVTSCs(t *testing.T) {
	hv := &fakeHypervisor{respond: replyAX(1 << VCPUSyncVTSCs)}
	installHypervisor(t, hv)

	if !SynchronizedVTSCs() {
		t.Error("synchronized VTSCs not detected")
	}

	if cmd, _ := hv.lastCommand(t); cmd != commandGetVCPUInfo {
		t.Errorf("command = 0x%02x, want 0x%02x", cmd, commandGetVCPUInfo)
	}
}

func TestNestedBuildNumber(t *testing.T) {
	// No sentinel filtering: all-ones and zero are legitimate build numbers.
	for _, result := range []uint32{0, ^uint32(0), 24280510} {
		installHypervisor(t, &fakeHypervisor{respond: replyAX(result)})

		if got := NestedBuildNumber(); got != result {
			t.Errorf("NestedBuildNumber() = %d, want %d", got, result)
		}
	}
}
