package commands

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/flowshot/flowshot/config"
)

type DoctorInfo struct {
	FlowshotVersion   string `json:"flowshot_version"`
	OS                string `json:"os"`
	OSVersion         string `json:"os_version"`
	Arch              string `json:"arch"`
	HookSupported     bool   `json:"hook_supported"`
	PermissionGranted bool   `json:"permission_granted"`
	ConfigPath        string `json:"config_path,omitempty"`
	ConfigFound       bool   `json:"config_found"`
}

func runCommandLine(name string, args ...string) string {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

func getOSVersion() string {
	switch runtime.GOOS {
	case "darwin":
		return runCommandLine("sw_vers", "-productVersion")
	case "windows":
		return runCommandLine("cmd", "/c", "ver")
	case "linux":
		// try reading /etc/os-release
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		lines := strings.Split(string(data), "\n")
		for _, line := range lines {
			if strings.HasPrefix(line, "PRETTY_NAME=") {
				return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
			}
		}
		return ""
	default:
		return ""
	}
}

// hookSupported reports whether a native global input hook exists for this
// platform. Other platforms fall back to the manual click API.
func hookSupported() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

// DoctorCommand performs system diagnostics and returns information about the environment
func DoctorCommand(version string) *CommandResponse {
	configPath := config.DefaultPath()
	configFound := false
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			configFound = true
		}
	}

	info := DoctorInfo{
		FlowshotVersion:   version,
		OS:                runtime.GOOS,
		OSVersion:         getOSVersion(),
		Arch:              runtime.GOARCH,
		HookSupported:     hookSupported(),
		PermissionGranted: GetApp().Hooks.CheckPermission(),
		ConfigPath:        configPath,
		ConfigFound:       configFound,
	}

	return NewSuccessResponse(info)
}
