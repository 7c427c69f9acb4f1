package generator

import (
	"strings"

	"github.com/arch-i-tect/api/internal/models"
)

// PostProcess cleans up extracted code for the requested dialect.
func PostProcess(code string, format models.OutputFormat) string {
	code = StripFences(code)
	if code == "" {
		return ""
	}
	switch format {
	case models.FormatTerraform:
		return formatTerraform(code)
	case models.FormatCloudFormation:
		return formatCloudFormation(code)
	}
	return code
}

// StripFences removes a markdown fence that leaked through extraction.
func StripFences(code string) string {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, "```") {
		return code
	}
	lines := strings.Split(code, "\n")
	if len(lines) <= 2 {
		return code
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// formatTerraform re-indents HCL at two spaces per brace depth. Heredoc
// bodies are preserved as-is.
func formatTerraform(code string) string {
	lines := strings.Split(code, "\n")
	formatted := make([]string, 0, len(lines))
	indent := 0
	heredocMarker := ""

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if heredocMarker != "" {
			formatted = append(formatted, line)
			if stripped == heredocMarker {
				heredocMarker = ""
			}
			continue
		}

		if stripped == "" {
			formatted = append(formatted, "")
			continue
		}

		if strings.HasPrefix(stripped, "}") || strings.HasPrefix(stripped, "]") {
			if indent > 0 {
				indent--
			}
		}

		formatted = append(formatted, strings.Repeat("  ", indent)+stripped)

		if i := strings.Index(stripped, "<<"); i >= 0 {
			marker := strings.TrimLeft(stripped[i+2:], "-")
			marker = strings.TrimSpace(marker)
			if marker != "" {
				heredocMarker = marker
				continue
			}
		}

		if strings.HasSuffix(stripped, "{") || strings.HasSuffix(stripped, "[") {
			indent++
		}
	}

	return strings.Join(formatted, "\n")
}

// formatCloudFormation trusts the model's YAML layout and only
// normalizes line endings.
func formatCloudFormation(code string) string {
	return strings.TrimSpace(strings.ReplaceAll(code, "\r\n", "\n"))
}
