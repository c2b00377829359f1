// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

// Package main is the main package invoking the tool
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siderolabs/hvinfo/internal/util"
	"github.com/siderolabs/hvinfo/internal/version"
)

const (
	flagLogLevel   = "log-level"
	flagDumpLeaves = "dump-leaves"
	flagTouchXen   = "touch-xen"
	flagPortAccess = "port-access"
)

var rootCmd = &cobra.Command{
	Use:   "hvinfo",
	Short: "report the hypervisor the current machine runs under",
	Long: "hvinfo probes the CPU identification leaves and the VMware backdoor " +
		"to report whether this machine is a VM, which hypervisor runs it, " +
		"over which interface it can be reached, and which optional features it offers.",
	PersistentPreRunE: setup,
	RunE:              detect,
}

var logger *slog.Logger

func setup(cmd *cobra.Command, _ []string) error {
	level, err := util.ParseLevel(viper.GetString(flagLogLevel))
	if err != nil {
		return err
	}

	logOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, logOpts)).With("command", cmd.Name())

	logger.Debug("starting", "name", version.Name, "version", version.Tag, "sha", version.SHA)

	return nil
}

func init() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`))
	viper.SetEnvPrefix("hvinfo")

	pf := rootCmd.PersistentFlags()
	pf.String(flagLogLevel, "info", "log level (error, warning, info, debug, trace)")
	pf.Bool(flagDumpLeaves, false, "dump every hypervisor identification leaf")
	pf.Bool(flagTouchXen, false, "probe for Xen PV; FAULTS on anything that is not Xen unless a fault boundary is installed")
	pf.Bool(flagPortAccess, false, "raise I/O privilege before probing (Linux, needs CAP_SYS_RAWIO)")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
