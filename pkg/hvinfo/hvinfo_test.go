// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package hvinfo

import (
	"io"
	"log/slog"
	"testing"

	"github.com/siderolabs/hvinfo/pkg/backdoor"
	"github.com/siderolabs/hvinfo/pkg/cpuid"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func basePhysical() probes {
	return probes{
		present:      func() bool { return false },
		vendorSig:    func(*slog.Logger) []byte { return nil },
		interfaceSig: func(*slog.Logger) []byte { return nil },
		vendorIs:     func(string, *slog.Logger) bool { return false },
		resolve:      func() backdoor.Interface { return backdoor.InterfaceIO },
		version:      func() (uint32, uint32, error) { return 0, 0, backdoor.ErrMagicMismatch },
		buildNumber:  func() uint32 { return 0 },
		mhz:          func() uint32 { return 0 },
		nesting:      func() bool { return false },
		syncVTSCs:    func() bool { return false },
	}
}

func TestGatherPhysicalHardware(t *testing.T) {
	p := basePhysical()
	p.vendorSig = func(*slog.Logger) []byte {
		t.Fatal("vendor leaf probed without presence bit")

		return nil
	}

	r := p.gather(discard())

	if r.HypervisorPresent || r.VendorSignature != "" || r.Backdoor != nil {
		t.Errorf("unexpected report on physical hardware: %+v", r)
	}
}

func TestGatherForeignHypervisor(t *testing.T) {
	p := basePhysical()
	p.present = func() bool { return true }
	p.vendorSig = func(*slog.Logger) []byte { return []byte(cpuid.VendorKVM + "\x00") }
	p.version = func() (uint32, uint32, error) {
		t.Fatal("backdoor touched under a foreign hypervisor")

		return 0, 0, nil
	}

	r := p.gather(discard())

	if r.VendorSignature != "KVMKVMKVM" {
		t.Errorf("vendor = %q, want %q", r.VendorSignature, "KVMKVMKVM")
	}

	if r.Backdoor != nil {
		t.Error("backdoor report filled under a foreign hypervisor")
	}
}

func TestGatherVMware(t *testing.T) {
	p := basePhysical()
	p.present = func() bool { return true }
	p.vendorSig = func(*slog.Logger) []byte { return []byte(cpuid.VendorVMware + "\x00") }
	p.vendorIs = func(vendor string, _ *slog.Logger) bool { return vendor == cpuid.VendorVMware }
	p.resolve = func() backdoor.Interface { return backdoor.InterfaceVmcall }
	p.version = func() (uint32, uint32, error) { return 6, 1, nil }
	p.buildNumber = func() uint32 { return 24280510 }
	p.mhz = func() uint32 { return 2400 }
	p.nesting = func() bool { return true }
	p.syncVTSCs = func() bool { return true }

	r := p.gather(discard())

	if r.Backdoor == nil {
		t.Fatal("backdoor report missing under VMware")
	}

	if r.Interface != backdoor.InterfaceVmcall {
		t.Errorf("interface = %v, want %v", r.Interface, backdoor.InterfaceVmcall)
	}

	if r.Backdoor.Version != 6 || r.Backdoor.BuildNumber != 24280510 || !r.Backdoor.NestingSupported {
		t.Errorf("unexpected backdoor report: %+v", r.Backdoor)
	}
}
