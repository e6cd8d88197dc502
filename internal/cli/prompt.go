package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// confirmPrompt asks a yes/no question; anything but y/yes is a no.
// Reuse one reader for consecutive prompts so buffered answers are not lost.
func confirmPrompt(in *bufio.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	input, err := in.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// money formats an amount for terminal output with the configured symbol
func money(d decimal.Decimal) string {
	symbol := ""
	if appInstance != nil {
		symbol = appInstance.Config.Invoice.CurrencySymbol
	}
	return symbol + d.StringFixed(2)
}
