package preflight

import (
	"fmt"
	"os"

	"av3atool/internal/config"
	"av3atool/internal/deps"
)

// Requirement names shown in status output and error messages.
const (
	NameFFmpeg     = "FFmpeg"
	NameFFmpegAV3A = "FFmpeg AV3A"
	NameDecoder    = "AV3A decoder"
)

// FFmpegRequirement describes the general-purpose media tool.
func FFmpegRequirement(cfg *config.Config) deps.Requirement {
	return deps.Requirement{
		Name:        NameFFmpeg,
		Command:     cfg.FFmpegBinary(),
		Description: "Required for channel remapping",
	}
}

// FFmpegAV3ARequirement describes the AV3A-capable media tool build.
func FFmpegAV3ARequirement(cfg *config.Config) deps.Requirement {
	return deps.Requirement{
		Name:        NameFFmpegAV3A,
		Command:     cfg.FFmpegAV3ABinary(),
		Description: "Required for AV3A stream extraction",
	}
}

// DecoderRequirement describes the AV3A decoder.
func DecoderRequirement(cfg *config.Config) deps.Requirement {
	return deps.Requirement{
		Name:        NameDecoder,
		Command:     cfg.DecoderBinary(),
		Description: "Required for AV3A to WAV decoding",
	}
}

// CheckSystemDeps evaluates every external tool for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		FFmpegAV3ARequirement(cfg),
		DecoderRequirement(cfg),
		FFmpegRequirement(cfg),
	}
	return deps.NewLocator(cfg.Tools.SearchDirs).CheckBinaries(requirements)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
