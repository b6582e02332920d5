package exporter

import (
	"fmt"
	"strings"
)

// maxSheetNameLen is the spreadsheet format's hard limit on sheet names.
const maxSheetNameLen = 31

// sheetNameReplacer strips the characters the workbook format forbids in
// sheet names.
var sheetNameReplacer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

// safeSheetName sanitizes an arbitrary label into a legal sheet name,
// truncating to the 31-character limit.
func safeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}

// safeFileName sanitizes a label for use as a file name inside an archive.
var fileNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
)

func safeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "" {
		name = "unnamed"
	}
	return name
}

// formatAmount renders a monetary sum for CSV output with two decimal places,
// so 13.4 appears as 13.40.
func formatAmount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatCount renders a row count for CSV output.
func formatCount(n int) string {
	return fmt.Sprintf("%d", n)
}
