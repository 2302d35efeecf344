// Package setup implements the interactive `posture init` wizard for
// authoring application records.
package setup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/armorline/posture/policy"
	"github.com/armorline/posture/schema"
)

// Wizard walks a user through describing an application and its security
// tooling, producing a record ready to score.
type Wizard struct {
	prompt *prompter
	out    io.Writer
	pol    *policy.Policy
	logger *slog.Logger

	// Name and Company preset their prompts when non-empty. Defaults skips
	// every prompt and emits a skeleton record for later editing; it
	// requires Name.
	Name     string
	Company  string
	Defaults bool
}

// NewWizard creates a wizard reading answers from in and prompting on out.
func NewWizard(in io.Reader, out, errOut io.Writer, pol *policy.Policy) *Wizard {
	return &Wizard{
		prompt: newPrompter(in, out),
		out:    out,
		pol:    pol,
		logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

// Run assembles a new application record with a generated ID.
func (w *Wizard) Run(now time.Time) (*schema.Application, error) {
	app := &schema.Application{
		ID:      uuid.NewString(),
		Name:    w.Name,
		Company: w.Company,
		Facing:  schema.FacingInternal,
	}

	if w.Defaults {
		if app.Name == "" {
			return nil, errors.New("application name required")
		}
		w.logger.Info("skeleton record created", "id", app.ID, "name", app.Name)
		return app, nil
	}

	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "  New Application Record")
	fmt.Fprintln(w.out, "  ======================")
	fmt.Fprintln(w.out, "")

	if app.Name == "" {
		app.Name = w.prompt.ask("Application name:")
	}
	if app.Name == "" {
		return nil, errors.New("application name required")
	}
	if app.Company == "" {
		app.Company = w.prompt.ask("Company:")
	}

	fmt.Fprintln(w.out, "\nDescribe the application. Blank answers leave a field unset and cost posture points.")
	app.Description = w.prompt.ask("Description:")
	app.Owner = w.prompt.ask("Owning team:")
	app.RepoURL = w.prompt.ask("Repository URL:")
	app.Language = w.prompt.ask("Primary language:")
	app.Framework = w.prompt.ask("Framework:")
	app.ServerEnvironment = w.prompt.ask("Server environment:")
	app.AuthProfiles = w.prompt.ask("Authentication profiles:")
	app.DataTypes = w.prompt.ask("Data types handled:")

	if w.prompt.askChoice("\nWhere does traffic originate?", []string{"internal network only", "externally reachable"}) == 1 {
		app.Facing = schema.FacingExternal
	}

	fmt.Fprintf(w.out, "\nSecurity tooling. Integration levels run 0 (none) to %d (enforcing).\n", w.pol.MaxIntegrationLevel())
	app.Tools.SAST = w.askTool("SAST")
	app.Tools.DAST = w.askTool("DAST")
	app.Tools.Firewall = w.askTool("application firewall")
	app.Tools.APISecurity = w.askTool("API security")
	if !app.Tools.APISecurity.Configured() {
		app.Tools.APISecurity.NotApplicable = w.prompt.askYesNo("No API surface to protect?", false)
	}

	if w.prompt.askYesNo("\nMark metadata as reviewed now?", true) {
		reviewed := now.UTC()
		app.MetadataLastReviewed = &reviewed
	}

	w.logger.Info("record created", "id", app.ID, "name", app.Name)
	return app, nil
}

func (w *Wizard) askTool(category string) schema.ToolSelection {
	if !w.prompt.askYesNo(fmt.Sprintf("Is a %s tool in place?", category), false) {
		return schema.ToolSelection{}
	}

	var sel schema.ToolSelection
	sel.Tool = w.prompt.ask("  Tool name:")
	if sel.Tool == "" {
		return schema.ToolSelection{}
	}

	level := w.prompt.askIntRange("  Integration level", 0, w.pol.MaxIntegrationLevel())
	sel.IntegrationLevel = &level

	if w.pol.ToolQuality.Classify(sel.Tool) == policy.ClassOther {
		fmt.Fprintf(w.out, "  Note: %q is not on the approved tool list.\n", sel.Tool)
	}
	return sel
}
