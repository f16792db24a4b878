package linkage

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body interface{}) error
	PUT(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
	GetSubjectID() string
	SetSubjectID(id string)
}

// RegisterSteps registers linkage-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &linkageSteps{tc: tc}

	// Resolution steps
	ctx.Step(`^I resolve the name "([^"]*)"$`, steps.resolveName)
	ctx.Step(`^I resolve the external id (\d+)$`, steps.resolveExternalID)
	ctx.Step(`^I validate the name "([^"]*)"$`, steps.validateName)

	// Linking steps
	ctx.Step(`^a new subject$`, steps.newSubject)
	ctx.Step(`^I link the subject to "([^"]*)"$`, steps.linkSubject)
	ctx.Step(`^I link the subject to the references:$`, steps.linkSubjectTable)
	ctx.Step(`^I list the subject's links$`, steps.listLinks)
	ctx.Step(`^the subject should have (\d+) links? with primary "([^"]*)"$`, steps.subjectHasLinks)
	ctx.Step(`^the unmatched list should contain "([^"]*)"$`, steps.unmatchedContains)
}

type linkageSteps struct {
	tc TestContext
}

func (s *linkageSteps) resolveName(ctx context.Context, name string) error {
	return s.tc.POST("/admin/linkage/resolve", map[string]interface{}{"name": name})
}

func (s *linkageSteps) resolveExternalID(ctx context.Context, id int) error {
	return s.tc.POST("/admin/linkage/resolve", map[string]interface{}{"id": id})
}

func (s *linkageSteps) validateName(ctx context.Context, name string) error {
	return s.tc.POST("/admin/linkage/validate", map[string]interface{}{"name": name})
}

func (s *linkageSteps) newSubject(ctx context.Context) error {
	s.tc.SetSubjectID(uuid.NewString())
	return nil
}

// linkSubject takes a "|"-separated list of display names.
func (s *linkageSteps) linkSubject(ctx context.Context, names string) error {
	var refs []map[string]interface{}
	for _, name := range strings.Split(names, "|") {
		refs = append(refs, map[string]interface{}{"name": strings.TrimSpace(name)})
	}
	return s.tc.PUT(s.linksPath(), map[string]interface{}{"references": refs})
}

// linkSubjectTable takes a table with a "name" column and an optional
// "short_name" column.
func (s *linkageSteps) linkSubjectTable(ctx context.Context, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("expected a header row and at least one reference")
	}
	header := table.Rows[0].Cells
	var refs []map[string]interface{}
	for _, row := range table.Rows[1:] {
		ref := map[string]interface{}{}
		for i, cell := range row.Cells {
			if i >= len(header) || strings.TrimSpace(cell.Value) == "" {
				continue
			}
			ref[header[i].Value] = strings.TrimSpace(cell.Value)
		}
		refs = append(refs, ref)
	}
	return s.tc.PUT(s.linksPath(), map[string]interface{}{"references": refs})
}

func (s *linkageSteps) listLinks(ctx context.Context) error {
	return s.tc.GET(s.linksPath())
}

func (s *linkageSteps) subjectHasLinks(ctx context.Context, count int, primaryRawName string) error {
	if err := s.tc.GET(s.linksPath()); err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("links")
	if err != nil {
		return err
	}
	links, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("links is not a list: %v", v)
	}
	if len(links) != count {
		return fmt.Errorf("expected %d links, got %d", count, len(links))
	}
	for _, l := range links {
		row, _ := l.(map[string]interface{})
		if primary, _ := row["is_primary"].(bool); primary {
			if row["raw_name"] != primaryRawName {
				return fmt.Errorf("expected primary %q, got %v", primaryRawName, row["raw_name"])
			}
			return nil
		}
	}
	return fmt.Errorf("no primary link among %d rows", len(links))
}

func (s *linkageSteps) unmatchedContains(ctx context.Context, name string) error {
	if err := s.tc.GET("/admin/linkage/unmatched"); err != nil {
		return err
	}
	v, err := s.tc.GetResponseField("names")
	if err != nil {
		return err
	}
	names, _ := v.([]interface{})
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("expected %q in unmatched names %v", name, names)
}

func (s *linkageSteps) linksPath() string {
	return "/admin/linkage/subjects/" + s.tc.GetSubjectID() + "/links"
}
