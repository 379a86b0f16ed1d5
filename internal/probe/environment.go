package probe

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// EnvironmentReport collects a key-value snapshot of the machine and
// the installed tools. Diagnostics only; nothing in the pipeline
// depends on it.
func EnvironmentReport(ctx context.Context) map[string]string {
	report := map[string]string{
		"go_os":   runtime.GOOS,
		"go_arch": runtime.GOARCH,
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		report["host_platform"] = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		report["host_kernel"] = info.KernelVersion
	}

	if counts, err := cpu.CountsWithContext(ctx, true); err == nil {
		report["cpu_logical"] = fmt.Sprintf("%d", counts)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		report["mem_total_mb"] = fmt.Sprintf("%d", vm.Total/1024/1024)
		report["mem_available_mb"] = fmt.Sprintf("%d", vm.Available/1024/1024)
	}

	report["ffmpeg_version"] = toolVersion(ctx, "ffmpeg")
	report["ffprobe_version"] = toolVersion(ctx, "ffprobe")
	report["h264_encoder"] = BestH264Encoder(ctx)

	return report
}

func toolVersion(ctx context.Context, tool string) string {
	path, err := exec.LookPath(tool)
	if err != nil {
		return "not installed"
	}

	out, err := exec.CommandContext(ctx, path, "-version").CombinedOutput()
	if err != nil {
		return "unknown"
	}

	// First line looks like "ffmpeg version 6.1.1 Copyright ...".
	line := strings.SplitN(string(out), "\n", 2)[0]
	fields := strings.Fields(line)
	if len(fields) >= 3 {
		return fields[2]
	}
	return "unknown"
}
