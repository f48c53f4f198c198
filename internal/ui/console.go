// Package ui renders search progress and results on the terminal.
package ui

import (
	"fmt"
	"time"

	"github.com/onionvanity/onionhunter/pkg/generator"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// PrintBanner shows the startup header.
func PrintBanner(version string) {
	fmt.Printf("%s%s[@] OnionHunter v%s - Tor v3 vanity address generator%s\n",
		ColorCyan, ColorBold, version, ColorReset)
}

// PrintSearchInfo displays the search configuration and the expected
// difficulty of the easiest prefix.
func PrintSearchInfo(prefixes []string, workers int, difficulty float64) {
	fmt.Printf("[@] Searching for prefixes: %v\n", prefixes)
	fmt.Printf("[@] Using %d worker threads %s(1 in %s expected)%s\n",
		workers, ColorDim, FormatFloat(difficulty), ColorReset)
	fmt.Println("[@] Generating addresses...")
}

// PrintResult shows one found address with both serialized key blobs.
func PrintResult(res generator.Result) {
	fmt.Printf("%s[√] Address generated successfully!%s\n", ColorGreen+ColorBold, ColorReset)
	fmt.Printf("Hostname:                      %s%s%s\n", ColorGreen, res.Hostname, ColorReset)
	fmt.Printf("Public Key (Base64 encoded):   %s\n", res.PublicKey)
	fmt.Printf("Private Key (Base64 encoded):  %s%s%s\n\n", ColorYellow, res.PrivateKey, ColorReset)
}

// PrintStatus prints the cumulative counter line.
func PrintStatus(generated, found uint64) {
	fmt.Printf("[@] %s: Generated %s addresses, Found %s addresses\n",
		time.Now().Format("15:04:05"), FormatNumber(generated), FormatNumber(found))
}

// PrintShutdown prints the final counters on exit.
func PrintShutdown(generated, found uint64, elapsed time.Duration) {
	fmt.Printf("%s[!] Shutting down%s │ %s addresses in %s\n",
		ColorYellow+ColorBold, ColorReset, FormatNumber(generated), FormatDuration(elapsed))
	PrintStatus(generated, found)
}

// FormatNumber adds commas to large numbers.
func FormatNumber(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatFloat renders a difficulty estimate compactly.
func FormatFloat(f float64) string {
	if f >= 1e9 {
		return fmt.Sprintf("%.1fB", f/1e9)
	}
	if f >= 1e6 {
		return fmt.Sprintf("%.1fM", f/1e6)
	}
	if f >= 1e3 {
		return fmt.Sprintf("%.1fK", f/1e3)
	}
	return fmt.Sprintf("%.0f", f)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
