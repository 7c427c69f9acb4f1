package generator

import (
	"reflect"
	"strings"
	"testing"

	"github.com/arch-i-tect/api/internal/models"
)

func TestParseResponseExtractsTaggedBlock(t *testing.T) {
	response := "Here is your infrastructure:\n\n```hcl\nresource \"aws_instance\" \"web\" {\n  ami = \"ami-123\"\n}\n```\n\nThis provisions one EC2 instance."

	parsed := ParseResponse(response)

	if parsed.Code == "" {
		t.Fatal("expected code to be extracted")
	}
	if !strings.Contains(parsed.Code, `resource "aws_instance" "web"`) {
		t.Errorf("code missing resource declaration: %q", parsed.Code)
	}
	if strings.Contains(parsed.Code, "```") {
		t.Errorf("code still contains fence markers: %q", parsed.Code)
	}
	if strings.Contains(parsed.Explanation, "```") {
		t.Errorf("explanation still contains code block: %q", parsed.Explanation)
	}
	if !strings.Contains(parsed.Explanation, "Here is your infrastructure") {
		t.Errorf("explanation missing surrounding text: %q", parsed.Explanation)
	}
}

func TestParseResponseUntaggedBlock(t *testing.T) {
	response := "```\nResources:\n  WebServer:\n    Type: AWS::EC2::Instance\n```"

	parsed := ParseResponse(response)

	if !strings.Contains(parsed.Code, "AWS::EC2::Instance") {
		t.Errorf("expected CloudFormation body, got %q", parsed.Code)
	}
}

func TestParseResponseNoCodeBlock(t *testing.T) {
	parsed := ParseResponse("I could not identify any infrastructure in this image.")

	if parsed.Code != "" {
		t.Errorf("expected empty code, got %q", parsed.Code)
	}
	if parsed.Explanation == "" {
		t.Error("expected the full text as explanation")
	}
}

func TestDetectResources(t *testing.T) {
	text := "The diagram shows an EC2 instance behind an ALB, an S3 bucket, and another ec2 host writing to DynamoDB."

	got := DetectResources(text)
	want := []string{"EC2", "ALB", "S3", "DynamoDB"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectResources = %v, want %v", got, want)
	}
}

func TestDetectResourcesKeepsFirstSeenCasing(t *testing.T) {
	got := DetectResources("A Lambda function triggers another lambda, plus Route53 records.")
	want := []string{"Lambda", "Route53"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectResources = %v, want %v", got, want)
	}
}

func TestDetectResourcesWordBoundary(t *testing.T) {
	// Resource names inside larger words must not match.
	got := DetectResources("The ec2instance naming convention and ALBATROSS project")
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestValidateResponseTerraform(t *testing.T) {
	valid := "```hcl\nresource \"aws_s3_bucket\" \"b\" {}\n```"
	if err := ValidateResponse(valid, models.FormatTerraform); err != nil {
		t.Errorf("expected valid Terraform, got %v", err)
	}

	noBlocks := "resource \"aws_s3_bucket\" \"b\" {}"
	if err := ValidateResponse(noBlocks, models.FormatTerraform); err == nil {
		t.Error("expected error for response without code blocks")
	}

	noKeywords := "```\nhello world\n```"
	if err := ValidateResponse(noKeywords, models.FormatTerraform); err == nil {
		t.Error("expected error for response without Terraform keywords")
	}
}

func TestValidateResponseCloudFormation(t *testing.T) {
	valid := "```yaml\nAWSTemplateFormatVersion: '2010-09-09'\nResources: {}\n```"
	if err := ValidateResponse(valid, models.FormatCloudFormation); err != nil {
		t.Errorf("expected valid CloudFormation, got %v", err)
	}

	noKeywords := "```\nsome: yaml\n```"
	if err := ValidateResponse(noKeywords, models.FormatCloudFormation); err == nil {
		t.Error("expected error for response without CloudFormation keywords")
	}
}
