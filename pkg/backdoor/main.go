// SPDX-FileCopyrightText: Copyright (c) 2025 Siderolabs
// SPDX-License-Identifier: Apache-2.0

// Package backdoor implements the request/response protocol between a guest
// and its VMware hypervisor, drawing on a lot of sources:
//
// - https://github.com/vmware/open-vm-tools/
// - https://github.com/vmware-archive/vmw-guestinfo
// - https://wiki.osdev.org/VMware_tools
// - https://web.archive.org/web/20100610223425/http://chitchat.at.infoseek.co.jp/vmware/backdoor.html
//
// A request is a fixed magic value plus a command code marshalled into
// processor registers and handed to the hypervisor through one of three
// mechanisms: the VMCALL instruction, the VMMCALL instruction, or a read
// from the legacy I/O port. The mechanism is a pure function of hardware
// capability and is resolved once per process; see Resolve.
//
// Apart from TouchBackdoor, every query here assumes the backdoor exists.
// Callers must establish presence first (TouchBackdoor or an equivalent
// check) before issuing the other commands on unknown hardware.
package backdoor
