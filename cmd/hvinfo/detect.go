// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siderolabs/hvinfo/pkg/backdoor"
	"github.com/siderolabs/hvinfo/pkg/cpuid"
	"github.com/siderolabs/hvinfo/pkg/hvinfo"
	"github.com/siderolabs/hvinfo/pkg/xen"
)

func detect(cmd *cobra.Command, _ []string) error {
	if viper.GetBool(flagPortAccess) {
		if err := backdoor.PortAccess(); err != nil {
			logger.Warn("could not raise I/O privilege, continuing anyway", "err", err)
		}
	}

	report := hvinfo.Gather(logger.With("module", "hvinfo"))

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "hypervisor present: %v\n", report.HypervisorPresent)

	if report.HypervisorPresent {
		fmt.Fprintf(out, "vendor signature:   %q\n", report.VendorSignature)
		fmt.Fprintf(out, "interface signature: %q\n", report.InterfaceSignature)
		fmt.Fprintf(out, "hyper-v:            %v\n", report.HyperV)
		fmt.Fprintf(out, "backdoor interface: %s\n", report.Interface)
	}

	if report.Backdoor != nil {
		fmt.Fprintf(out, "backdoor version:   %d (product type %d)\n", report.Backdoor.Version, report.Backdoor.ProductType)
		fmt.Fprintf(out, "nested build:       %d\n", report.Backdoor.BuildNumber)
		fmt.Fprintf(out, "processor MHz:      %d\n", report.Backdoor.ProcessorMHz)
		fmt.Fprintf(out, "nesting supported:  %v\n", report.Backdoor.NestingSupported)
		fmt.Fprintf(out, "synchronized vTSCs: %v\n", report.Backdoor.SynchronizedVTSCs)
	}

	if viper.GetBool(flagDumpLeaves) {
		cpuid.LogHypervisorLeaves(logger.With("module", "cpuid"))
	}

	if viper.GetBool(flagTouchXen) {
		// This is the one probe that faults anywhere but under Xen PV. The
		// flag help says so; whoever sets it gets what they asked for.
		fmt.Fprintf(out, "xen pv:             %v\n", xen.Touch())
	}

	return nil
}
