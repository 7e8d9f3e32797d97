package usecase

import (
	"fmt"
	"strings"
)

// truncateLines keeps the first maxLines lines of input and notes how many were cut
func truncateLines(input string, maxLines int) string {
	lines := strings.Split(input, "\n")
	surplus := len(lines) - maxLines
	if surplus <= 0 {
		return input
	}
	return fmt.Sprintf("%s\n...and %d more", strings.Join(lines[:maxLines], "\n"), surplus)
}
