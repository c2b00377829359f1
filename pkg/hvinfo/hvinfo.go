// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

// Package hvinfo gathers the detection results from the probe packages
// into one report for presentation.
package hvinfo

import (
	"log/slog"
	"strings"

	"github.com/siderolabs/hvinfo/pkg/backdoor"
	"github.com/siderolabs/hvinfo/pkg/cpuid"
)

// Report is the answer to "am I in a VM, and what kind?".
type Report struct {
	// HypervisorPresent mirrors the CPUID presence bit.
	HypervisorPresent bool
	// VendorSignature is the vendor identification string, NUL-trimmed.
	// May contain garbage on hypervisors that set the presence bit without
	// populating the vendor leaf.
	VendorSignature string
	// InterfaceSignature is the interface identification string, empty when
	// the hypervisor does not expose one.
	InterfaceSignature string
	// HyperV is set on an exact Hyper-V vendor match.
	HyperV bool
	// Interface is the mechanism resolved for backdoor exchanges.
	Interface backdoor.Interface
	// Backdoor holds the VMware backdoor queries; nil unless the vendor
	// signature identifies VMware and the backdoor answered.
	Backdoor *BackdoorReport
}

// BackdoorReport holds the results of the VMware backdoor queries.
type BackdoorReport struct {
	Version           uint32
	ProductType       uint32
	BuildNumber       uint32
	ProcessorMHz      uint32
	NestingSupported  bool
	SynchronizedVTSCs bool
}

// probes enumerates the detection primitives so tests can simulate any
// environment without touching hardware.
type probes struct {
	present      func() bool
	vendorSig    func(*slog.Logger) []byte
	interfaceSig func(*slog.Logger) []byte
	vendorIs     func(string, *slog.Logger) bool
	resolve      func() backdoor.Interface
	version      func() (uint32, uint32, error)
	buildNumber  func() uint32
	mhz          func() uint32
	nesting      func() bool
	syncVTSCs    func() bool
}

var defaultProbes = probes{
	present:      cpuid.HypervisorPresent,
	vendorSig:    cpuid.VendorSignature,
	interfaceSig: cpuid.InterfaceSignature,
	vendorIs:     cpuid.VendorIs,
	resolve:      backdoor.Resolve,
	version:      backdoor.Version,
	buildNumber:  backdoor.NestedBuildNumber,
	mhz:          backdoor.ProcessorMHz,
	nesting:      backdoor.NestingSupported,
	syncVTSCs:    backdoor.SynchronizedVTSCs,
}

// Gather runs every safe probe and returns the report. Backdoor queries
// are only issued once the vendor signature identifies VMware, so Gather
// never reaches a faulting instruction on physical hardware or under a
// foreign hypervisor.
func Gather(log *slog.Logger) *Report {
	return defaultProbes.gather(log)
}

func (p *probes) gather(log *slog.Logger) *Report {
	r := &Report{}

	r.HypervisorPresent = p.present()
	if !r.HypervisorPresent {
		return r
	}

	r.VendorSignature = trimSignature(p.vendorSig(log))
	r.InterfaceSignature = trimSignature(p.interfaceSig(log))
	r.HyperV = p.vendorIs(cpuid.VendorHyperV, log)
	r.Interface = p.resolve()

	if !p.vendorIs(cpuid.VendorVMware, log) {
		return r
	}

	version, product, err := p.version()
	if err != nil {
		log.Warn("vendor signature is VMware, but the backdoor did not answer", "err", err)

		return r
	}

	r.Backdoor = &BackdoorReport{
		Version:           version,
		ProductType:       product,
		BuildNumber:       p.buildNumber(),
		ProcessorMHz:      p.mhz(),
		NestingSupported:  p.nesting(),
		SynchronizedVTSCs: p.syncVTSCs(),
	}

	return r
}

func trimSignature(sig []byte) string {
	return strings.TrimRight(string(sig), "\x00")
}
