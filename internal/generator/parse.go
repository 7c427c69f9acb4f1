package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arch-i-tect/api/internal/models"
)

// ParseError means the provider reply carried no extractable code.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

var (
	taggedBlockRe = regexp.MustCompile("(?s)```(?:hcl|terraform|yaml|json)?\n(.*?)```")
	plainBlockRe  = regexp.MustCompile("(?s)```\n(.*?)```")
	anyBlockRe    = regexp.MustCompile("(?s)```.*?```")

	resourceRe = regexp.MustCompile(`(?i)\b(EC2|S3|RDS|Lambda|VPC|ALB|ELB|DynamoDB|SNS|SQS|CloudFront|Route53)\b`)
)

// Parsed is the structured view of one provider reply.
type Parsed struct {
	Code              string
	Explanation       string
	DetectedResources []string
	Raw               string
}

// ParseResponse splits a free-text reply into code, explanation and the
// cloud resource names it mentions.
func ParseResponse(response string) *Parsed {
	var code string
	if m := taggedBlockRe.FindStringSubmatch(response); m != nil {
		code = strings.TrimSpace(m[1])
	} else if m := plainBlockRe.FindStringSubmatch(response); m != nil {
		code = strings.TrimSpace(m[1])
	}

	explanation := strings.TrimSpace(anyBlockRe.ReplaceAllString(response, ""))

	return &Parsed{
		Code:              code,
		Explanation:       explanation,
		DetectedResources: DetectResources(response),
		Raw:               response,
	}
}

// DetectResources extracts cloud resource names from reply text,
// deduplicated case-insensitively in order of first appearance. The
// first-seen spelling is kept.
func DetectResources(text string) []string {
	seen := make(map[string]bool)
	var resources []string
	for _, m := range resourceRe.FindAllString(text, -1) {
		key := strings.ToUpper(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		resources = append(resources, m)
	}
	return resources
}

// ValidateResponse checks that a reply looks like code in the expected
// dialect. The returned error doubles as refinement feedback.
func ValidateResponse(response string, format models.OutputFormat) error {
	if !strings.Contains(response, "```") {
		return fmt.Errorf("response does not contain code blocks")
	}

	switch format {
	case models.FormatTerraform:
		keywords := []string{"resource", "provider", "variable", "output"}
		lower := strings.ToLower(response)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return nil
			}
		}
		return fmt.Errorf("response does not appear to contain valid Terraform code")

	case models.FormatCloudFormation:
		keywords := []string{"AWSTemplateFormatVersion", "Resources", "Type:", "Properties:"}
		for _, kw := range keywords {
			if strings.Contains(response, kw) {
				return nil
			}
		}
		return fmt.Errorf("response does not appear to contain valid CloudFormation code")
	}
	return fmt.Errorf("invalid format: %s", format)
}
