package gating

import "strconv"

// formatação de valores numéricos em headers, sem passar por fmt.

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	// sem notação científica para valores comuns
	return strconv.FormatFloat(v, 'f', -1, 64)
}
