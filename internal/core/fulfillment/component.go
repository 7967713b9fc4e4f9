package fulfillment

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agenthands/dtpr/internal/core/model"
	"github.com/agenthands/dtpr/internal/dataset"
)

func (a *Agent) learnAboutComponent(ctx context.Context, t *Turn) error {
	id := t.Session.Payload.ComponentID
	if id == "" {
		id = t.Session.ComponentID()
	}
	if id == "" {
		return errMissingSubject
	}

	t.Out.Say("Let me take a look for the information about this component.")
	c, err := a.component(ctx, id)
	if err != nil {
		return err
	}
	t.Session.SetComponent(id)
	t.Out.Say(fmt.Sprintf("This is a %s.", c.Name))

	p, err := a.place(ctx, t.Session.PlaceID())
	if err != nil {
		return err
	}
	t.Out.Say(fmt.Sprintf("It's installed at %s. I can also tell you more about it and how the data is being handled.", p.Name))
	return a.getQuestionsToAsk(ctx, t)
}

func (a *Agent) getDescription(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	if c.Description == "" {
		return missingField("This component doesn't appear to have a description to share.")
	}
	t.Out.Say(c.Description)
	return a.listParts(ctx, t, c)
}

func (a *Agent) getWhy(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	names, err := a.names(ctx, dataset.Purpose, c.Purposes)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return missingField(noInfo("Purpose"))
	}
	if len(names) == 1 {
		t.Out.Say(fmt.Sprintf("The purpose of this component is %s.", names[0]))
		return nil
	}
	t.Out.Say(fmt.Sprintf("The purposes of this component are %s.", andJoin(names)))
	return nil
}

// getStorageData answers storage and retention questions from the same
// Storage rows, told apart by their property type.
func (a *Agent) getStorageData(ctx context.Context, t *Turn, kind string) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	if len(c.Storage) == 0 {
		return missingField(noInfo(kind))
	}
	rows, err := a.resolve(ctx, dataset.Storage, c.Storage)
	if err != nil {
		return err
	}
	var parts []string
	for _, r := range rows {
		s := model.NewStorageEntry(r)
		if s.PropertyType == kind && s.Description != "" {
			parts = append(parts, s.Description)
		}
	}
	if len(parts) == 0 {
		return missingField(noInfo(kind))
	}
	t.Out.Say(strings.Join(parts, " "))
	return nil
}

func (a *Agent) getAccess(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	rows, err := a.lookups(ctx, dataset.Access, c.Access)
	if err != nil {
		return err
	}
	var parts []string
	for _, l := range rows {
		if l.Description != "" {
			parts = append(parts, l.Description)
		}
	}
	if len(parts) == 0 {
		return missingField(noInfo("Access"))
	}
	t.Out.Say(strings.Join(parts, " "))
	return nil
}

func (a *Agent) getDataProcessList(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	names, err := a.names(ctx, dataset.DataProcess, c.DataProcesses)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return missingField(noInfo("Data Process"))
	}
	t.Out.Say(fmt.Sprintf("The data is handled using %s data %s.", andJoin(names), plural(len(names), "process", "processes")))
	t.Out.Suggest(whatDoesMean(names)...)
	return nil
}

func (a *Agent) getDataTypes(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	names, err := a.names(ctx, dataset.DataType, c.DataTypes)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return missingField(noInfo("Data Type"))
	}
	t.Out.Say(fmt.Sprintf("The data collected is stored as %s.", andJoin(names)))
	t.Out.Suggest(whatDoesMean(names)...)
	return nil
}

func (a *Agent) getTheParts(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	return a.listParts(ctx, t, c)
}

func (a *Agent) listParts(ctx context.Context, t *Turn, c model.Component) error {
	kids, err := a.children(ctx, c)
	if err != nil {
		return err
	}
	names := componentNames(kids)
	if len(names) == 0 {
		t.Out.Say("It is a simple technology it does not have any child components or systems to describe.")
		return nil
	}
	t.Out.Say(fmt.Sprintf("This technology has %d sub-%s: %s. You can learn more about them by asking about them by name.",
		len(names), plural(len(names), "component", "components"), andJoin(names)))
	t.Out.Suggest(names...)
	return nil
}

func (a *Agent) getTargetOutcome(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	if c.TargetOutcome == "" {
		t.Out.Say("There is currently no target benefit for this component.")
		return nil
	}
	t.Out.Say(c.TargetOutcome)
	return nil
}

func (a *Agent) getMeasuredOutcome(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	if c.MeasuredOutcome == "" {
		t.Out.Say("There is currently no measured outcome listed for this component.")
		return nil
	}
	t.Out.Say(fmt.Sprintf("It has achieved %s", c.MeasuredOutcome))
	return nil
}

func (a *Agent) getComponentCollectsPersonalData(ctx context.Context, t *Turn) error {
	id := t.Session.ComponentID()
	if id == "" {
		return errMissingSubject
	}
	collecting, err := a.personalDataComponents(ctx, t.Session.PlaceID())
	if err != nil {
		return err
	}
	if len(collecting) == 0 {
		t.Out.Say("There do not appear to be any components which collect personal information.")
		return nil
	}
	if slices.ContainsFunc(collecting, func(c model.Component) bool { return c.ID == id }) {
		t.Out.Say("This component collects personal information.")
		return nil
	}
	t.Out.Say("This component does not collect personal information.")
	return nil
}

func (a *Agent) getCollectsImageData(ctx context.Context, t *Turn) error {
	c, err := a.currentComponent(ctx, t)
	if err != nil {
		return err
	}
	names, err := a.names(ctx, dataset.DataType, c.DataTypes)
	if err != nil {
		return err
	}
	if slices.Contains(names, model.DataTypePixelImage) {
		t.Out.Say("It does collect image data.")
		return nil
	}
	t.Out.Say("It does not collect image data.")
	return nil
}
