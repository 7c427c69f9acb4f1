package prompt

import (
	"strings"
	"testing"

	"github.com/arch-i-tect/api/internal/models"
)

func TestArchitectureSelectsDialect(t *testing.T) {
	tf, err := Architecture(models.FormatTerraform, "")
	if err != nil {
		t.Fatalf("Architecture failed: %v", err)
	}
	if !strings.Contains(tf, "Terraform HCL") {
		t.Error("terraform prompt missing dialect instruction")
	}

	cf, err := Architecture(models.FormatCloudFormation, "")
	if err != nil {
		t.Fatalf("Architecture failed: %v", err)
	}
	if !strings.Contains(cf, "CloudFormation YAML") {
		t.Error("cloudformation prompt missing dialect instruction")
	}

	if tf == cf {
		t.Error("both formats produced the same prompt")
	}
}

func TestArchitectureAppendsContext(t *testing.T) {
	got, err := Architecture(models.FormatTerraform, "use eu-west-1 for all resources")
	if err != nil {
		t.Fatalf("Architecture failed: %v", err)
	}
	if !strings.Contains(got, "Additional Requirements:") {
		t.Error("context header missing")
	}
	if !strings.Contains(got, "eu-west-1") {
		t.Error("caller context missing")
	}
}

func TestArchitectureRejectsUnknownFormat(t *testing.T) {
	if _, err := Architecture(models.OutputFormat("pulumi"), ""); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRefinementEmbedsCodeAndFeedback(t *testing.T) {
	got := Refinement(`resource "aws_s3_bucket" "b" {}`, "missing provider block", models.FormatTerraform)

	if !strings.Contains(got, `resource "aws_s3_bucket" "b" {}`) {
		t.Error("original code missing")
	}
	if !strings.Contains(got, "missing provider block") {
		t.Error("feedback missing")
	}
	if !strings.Contains(got, "TERRAFORM") {
		t.Error("format name missing")
	}
}
