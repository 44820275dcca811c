// Package clipboard provides platform-specific clipboard operations.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Tool is a clipboard command and its arguments; the content is written to
// its standard input.
type Tool []string

// Tools returns the clipboard commands to try on goos, in order of
// preference.
func Tools(goos string) []Tool {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return []Tool{
			{"wl-copy"},                          // Wayland
			{"xclip", "-selection", "clipboard"}, // X11
			{"xsel", "--clipboard", "--input"},   // X11 alternative
		}
	case "darwin":
		return []Tool{{"pbcopy"}}
	case "windows":
		return []Tool{
			{"powershell", "-NoProfile", "-Command", "$input | Set-Clipboard"},
			{"clip"},
		}
	default:
		return nil
	}
}

// Copy copies text to the system clipboard using the first available tool.
func Copy(text string) error {
	tools := Tools(runtime.GOOS)
	if len(tools) == 0 {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return copyWith(tools, text)
}

func copyWith(tools []Tool, text string) error {
	var tried []string
	for _, tool := range tools {
		tried = append(tried, tool[0])
		if !isCommandAvailable(tool[0]) {
			continue
		}
		cmd := exec.Command(tool[0], tool[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no suitable clipboard tool found (tried: %s)", strings.Join(tried, ", "))
}

func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
