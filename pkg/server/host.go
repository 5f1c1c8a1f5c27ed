/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessInfo describes the exporter process.
type ProcessInfo struct {
	PID           int     `json:"pid"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	RSSBytes      uint64  `json:"rss_bytes,omitempty"`
	CPUPercent    float64 `json:"cpu_percent,omitempty"`
}

// HostInfo describes the machine the exporter runs on.
type HostInfo struct {
	Hostname          string  `json:"hostname,omitempty"`
	OS                string  `json:"os,omitempty"`
	Platform          string  `json:"platform,omitempty"`
	PlatformVersion   string  `json:"platform_version,omitempty"`
	UptimeSeconds     uint64  `json:"uptime_seconds,omitempty"`
	MemoryUsedPercent float64 `json:"memory_used_percent,omitempty"`
}

type hostProbe interface {
	process(ctx context.Context, started time.Time) ProcessInfo
	host(ctx context.Context) HostInfo
}

// gopsutilProbe fills what it can; fields it cannot read stay zero.
type gopsutilProbe struct{}

func (gopsutilProbe) process(ctx context.Context, started time.Time) ProcessInfo {
	info := ProcessInfo{
		PID:           os.Getpid(),
		UptimeSeconds: time.Since(started).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
	}

	p, err := process.NewProcessWithContext(ctx, int32(info.PID)) //nolint:gosec // pid fits in int32
	if err != nil {
		return info
	}

	if m, err := p.MemoryInfoWithContext(ctx); err == nil {
		info.RSSBytes = m.RSS
	}

	if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
		info.CPUPercent = cpu
	}

	return info
}

func (gopsutilProbe) host(ctx context.Context) HostInfo {
	var info HostInfo

	if h, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = h.Hostname
		info.OS = h.OS
		info.Platform = h.Platform
		info.PlatformVersion = h.PlatformVersion
		info.UptimeSeconds = h.Uptime
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemoryUsedPercent = vm.UsedPercent
	}

	return info
}
