// Package prompt holds the fixed instruction templates sent to the
// vision model alongside a diagram image.
package prompt

import (
	"fmt"
	"strings"

	"github.com/arch-i-tect/api/internal/models"
)

const terraformBase = `You are an expert cloud architect and Infrastructure as Code specialist.
Analyze the provided cloud architecture diagram and generate complete, production-ready Terraform code.

Instructions:
1. Carefully examine the diagram to identify all cloud resources and their relationships
2. Determine the cloud provider (AWS, Azure, GCP) from the diagram elements
3. Generate valid Terraform HCL code that accurately represents the architecture
4. Include the following in your code:
   - Provider configuration
   - All resources shown in the diagram
   - Proper resource dependencies and references
   - Variables for customizable values
   - Outputs for important resource attributes
   - Comments explaining the architecture

Guidelines:
- Use modern Terraform syntax (0.12+)
- Follow Terraform best practices for naming and organization
- Include resource tags for organization and cost tracking
- Ensure all resources are properly connected as shown in the diagram
- Add data sources where appropriate
- Include basic security groups/network ACLs as implied by the architecture

Output the Terraform code within ` + "```hcl" + ` code blocks.
After the code, provide a brief explanation of the architecture and any assumptions made.`

const cloudformationBase = `You are an expert cloud architect and AWS CloudFormation specialist.
Analyze the provided cloud architecture diagram and generate complete, production-ready CloudFormation YAML.

Instructions:
1. Carefully examine the diagram to identify all AWS resources and their relationships
2. Generate valid CloudFormation YAML that accurately represents the architecture
3. Include the following in your template:
   - AWSTemplateFormatVersion and Description
   - Parameters for customizable values
   - All resources shown in the diagram
   - Proper resource dependencies using DependsOn or Ref/GetAtt
   - Outputs for important resource attributes
   - Metadata and comments explaining the architecture

Guidelines:
- Use CloudFormation best practices for organization
- Include resource tags for organization and cost tracking
- Ensure all resources are properly connected as shown in the diagram
- Add Conditions where appropriate for flexibility
- Include basic security groups and network ACLs as implied
- Use intrinsic functions effectively (Ref, GetAtt, Join, etc.)

Output the CloudFormation template within ` + "```yaml" + ` code blocks.
After the code, provide a brief explanation of the architecture and any assumptions made.`

const resourceIdentification = `Analyze this cloud architecture diagram and identify all cloud resources present.

List each resource with:
1. Resource type (e.g., EC2, S3, RDS)
2. Approximate count if multiple instances
3. Key relationships or connections between resources
4. Any labels or text visible in the diagram

Be thorough and specific in your analysis.`

const architectureExplanation = `Based on this cloud architecture diagram, provide:

1. A high-level overview of the system architecture
2. The apparent purpose or use case of this infrastructure
3. Key architectural patterns employed (e.g., multi-tier, microservices, serverless)
4. Notable security or networking considerations
5. Potential areas for improvement or optimization

Keep your explanation concise but comprehensive.`

// Architecture returns the diagram-analysis prompt for the requested
// output format, optionally extended with caller-supplied context.
func Architecture(format models.OutputFormat, additionalContext string) (string, error) {
	var base string
	switch format {
	case models.FormatTerraform:
		base = terraformBase
	case models.FormatCloudFormation:
		base = cloudformationBase
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}

	if additionalContext != "" {
		base += "\n\nAdditional Requirements:\n" + additionalContext
	}
	return base, nil
}

// ResourceIdentification returns the prompt for listing the resources
// visible in a diagram.
func ResourceIdentification() string { return resourceIdentification }

// Explanation returns the prompt for a standalone architecture
// explanation.
func Explanation() string { return architectureExplanation }

// Refinement builds a follow-up prompt asking the model to fix code that
// failed validation.
func Refinement(originalCode, feedback string, format models.OutputFormat) string {
	return fmt.Sprintf(`Please refine the following %s code based on the feedback provided.

Original Code:
`+"```"+`
%s
`+"```"+`

Feedback:
%s

Generate an improved version that addresses the feedback while maintaining all the original functionality.
Ensure the code remains valid and follows best practices.

Output the refined code within appropriate code blocks.`,
		strings.ToUpper(string(format)), originalCode, feedback)
}
