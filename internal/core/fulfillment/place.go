package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/core/model"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/webhook"
)

func (a *Agent) welcome(ctx context.Context, t *Turn) error {
	t.Out.Say("Hi I can provide information to you about technology is being used in building and spaces. What place do you want to talk about?")
	if intent := t.Session.StartingIntent(); intent != "" {
		a.Logger.Debug("starting intent requested, skipping welcome", zap.String("event", intent))
		t.Out.Followup(intent)
	}
	return nil
}

func (a *Agent) fallback(ctx context.Context, t *Turn) error {
	first := "I didn't understand"
	if a.Redirector != nil && strings.TrimSpace(t.Query) != "" {
		headline := ""
		if p, err := a.place(ctx, t.Session.PlaceID()); err == nil {
			headline = p.Headline
		}
		reply, err := a.Redirector.Redirect(ctx, t.Query, headline)
		if err != nil {
			a.Logger.Warn("fallback redirect failed", zap.Error(err))
		} else {
			first = reply
		}
	}
	t.Out.Say(first)
	t.Out.Say("I'm sorry, can you try again?")
	return nil
}

func (a *Agent) learnAboutPlace(ctx context.Context, t *Turn) error {
	p, err := a.place(ctx, t.Session.PlaceID())
	if err != nil {
		return err
	}
	t.Out.Say(fmt.Sprintf("Welcome to %s. I can help you learn about this place and the kind of systems we use here to help people.", p.Name))
	return a.getQuestionsToAsk(ctx, t)
}

func (a *Agent) whereAmI(ctx context.Context, t *Turn) error {
	p, err := a.place(ctx, t.Session.PlaceID())
	if err != nil {
		return err
	}
	if p.Headline == "" {
		return missingField(fmt.Sprintf("You are at %s.", p.Name))
	}
	t.Out.Say(p.Headline)
	return nil
}

func (a *Agent) getAccountability(ctx context.Context, t *Turn) error {
	p, err := a.place(ctx, t.Session.PlaceID())
	if err != nil {
		return err
	}
	if p.AccountableEntity == "" {
		return missingField("This place doesn't appear to have Accountability information to share.")
	}
	r, err := a.Source.Find(ctx, dataset.Accountability, p.AccountableEntity)
	if errors.Is(err, dataset.ErrNotFound) {
		return missingField("This place doesn't appear to have Accountability information to share.")
	}
	if err != nil {
		return err
	}

	acc := model.NewAccountability(r)
	t.Out.Say(fmt.Sprintf("%s is accountable for it.", acc.Name))
	card := webhook.Card{
		Title:    acc.Name,
		Subtitle: acc.Description,
		ImageURI: acc.LogoURL,
	}
	if acc.OrganizationURL != "" {
		card.Buttons = []webhook.Button{{Text: "Visit", Postback: acc.OrganizationURL}}
	}
	t.Out.Card(card)
	return nil
}

func (a *Agent) getSystems(ctx context.Context, t *Turn) error {
	placeID := t.Session.PlaceID()
	all, err := a.Source.Select(ctx, dataset.Components, nil)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		t.Out.Say("I couldn't find any technologies listed for this place.")
		return nil
	}

	var systems []string
	for _, r := range all {
		c := model.NewComponent(r)
		if c.IsSystem && c.AtPlace(placeID) && c.Name != "" {
			systems = append(systems, c.Name)
		}
	}

	switch len(systems) {
	case 0:
		t.Out.Say("This place does not have any systems.")
		return nil
	case 1:
		t.Out.Say(fmt.Sprintf("This place has a %s system.", systems[0]))
	default:
		t.Out.Say("This place has several systems: " + strings.Join(systems, ", "))
	}
	t.Out.Suggest(systems...)
	return nil
}

// personalDataComponents returns the components at placeID that reference
// the Personal Information data type.
func (a *Agent) personalDataComponents(ctx context.Context, placeID string) ([]model.Component, error) {
	rows, err := a.Source.Select(ctx, dataset.DataType, dataset.Eq(model.FieldName, model.DataTypePersonalInformation))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	personal := rows[0].ID()

	comps, err := a.placeComponents(ctx, placeID)
	if err != nil {
		return nil, err
	}
	var out []model.Component
	for _, c := range comps {
		if c.HasDataType(personal) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (a *Agent) getPlaceCollectsPersonalData(ctx context.Context, t *Turn) error {
	comps, err := a.personalDataComponents(ctx, t.Session.PlaceID())
	if err != nil {
		return err
	}
	names := componentNames(comps)
	if len(names) == 0 {
		t.Out.Say("This place does not collect personal data.")
		return nil
	}
	n := len(names)
	t.Out.Say(fmt.Sprintf("Yes it looks like the following %s collecting personal data:", plural(n, "technology is", "technologies are")))
	t.Out.Say(strings.Join(names, ", "))
	t.Out.Say(fmt.Sprintf("You can learn more about %s by asking me for a specific description.", plural(n, "it", "them")))
	t.Out.Suggest(names...)
	return nil
}

var (
	placeQuestions = []string{
		"Where am I?",
		"What systems are you using?",
	}
	componentQuestions = []string{
		"What kind of data is being collected?",
		"What will you use the information for?",
		"How long do you keep the data?",
		"Where is the info stored?",
		"Do you track personal data?",
		"Is it taking pictures of me?",
		"Who can see the data?",
		"How is my information protected?",
	}
)

func (a *Agent) getQuestionsToAsk(ctx context.Context, t *Turn) error {
	if t.Session.ComponentID() != "" {
		t.Out.Say("You can learn more about this component by asking questions like:")
		for _, q := range componentQuestions {
			t.Out.Say(q)
		}
		return nil
	}
	t.Out.Say("You can ask questions to learn about the technologies that are in use here. For example you can ask to be told about a technology specifically or you can ask questions like:")
	for _, q := range placeQuestions {
		t.Out.Say(q)
	}
	for _, q := range componentQuestions {
		t.Out.Say(q)
	}
	return nil
}
