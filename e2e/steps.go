package e2e

import (
	"github.com/cucumber/godog"

	"orglink/e2e/steps/common"
	"orglink/e2e/steps/linkage"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register linkage-specific steps
	linkage.RegisterSteps(ctx, tc)
}
