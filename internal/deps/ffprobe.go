package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// FFprobeRequirement describes the ffprobe binary used to read durations.
// Without it every duration falls back to the size estimate, so it is
// reported as optional.
func FFprobeRequirement(binary string) Requirement {
	return Requirement{
		Name:        "FFprobe",
		Command:     binary,
		Description: "Reads media duration and bitrate",
		Optional:    true,
	}
}

// Version runs "<binary> -version" and returns the first line of output.
func Version(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", fmt.Errorf("%s -version: empty output", binary)
}
