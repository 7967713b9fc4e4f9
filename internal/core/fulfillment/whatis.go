package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/dtpr/internal/core/entity"
	"github.com/agenthands/dtpr/internal/core/model"
	"github.com/agenthands/dtpr/internal/dataset"
)

// whatIs answers "what is X" from the NLU parameters rather than the
// current component. Resolving a system or component makes it the subject.
func (a *Agent) whatIs(ctx context.Context, t *Turn) error {
	typ := entity.Classify(t.Params)
	if typ == entity.None {
		return notFound("I cannot seem to find any information about that in my records.", nil)
	}
	plan, ok := entity.Lookup(typ)
	if !ok {
		return fmt.Errorf("no query plan for entity type %q", typ)
	}

	literal := t.Params.Value(string(typ))
	item := entity.TitleCase(literal)

	rec, found, err := a.selectFirst(ctx, plan, entity.Candidates(literal))
	if err != nil {
		return err
	}
	if !found {
		return notFound(fmt.Sprintf("I cannot seem to find any information about the %s in my records.", item), nil)
	}

	// The subject follows the resolved record even when no answer can be
	// composed for it below.
	if typ.SetsSubject() {
		t.Session.SetComponent(rec.ID())
	}

	answer := rec.String(plan.OutputField)
	if plan.HasJoin() {
		refs := rec.Strings(plan.OutputField)
		if len(refs) == 0 {
			return missingField(fmt.Sprintf("I don't have any %s information about the %s.", strings.ToLower(string(plan.JoinTable)), item))
		}
		joined, err := a.Source.Find(ctx, plan.JoinTable, refs[0])
		if errors.Is(err, dataset.ErrNotFound) {
			return missingField(fmt.Sprintf("I don't have any %s information about the %s.", strings.ToLower(string(plan.JoinTable)), item))
		}
		if err != nil {
			return err
		}
		answer = joined.String(plan.JoinField)
	}
	if strings.TrimSpace(answer) == "" {
		return missingField(fmt.Sprintf("I don't have a description of the %s yet.", item))
	}

	t.Out.Say(plan.Compose(answer))

	if c := model.NewComponent(rec); typ.SetsSubject() && c.IsSystem {
		kids, err := a.children(ctx, c)
		if err != nil {
			return err
		}
		if names := componentNames(kids); len(names) > 0 {
			t.Out.Say("You can learn more about the components that make up the system.")
			t.Out.Suggest(names...)
		}
	}
	return nil
}

// selectFirst tries each spelling in order and returns the first match.
func (a *Agent) selectFirst(ctx context.Context, plan entity.Plan, candidates []string) (dataset.Record, bool, error) {
	for _, value := range candidates {
		if value == "" {
			continue
		}
		rows, err := a.Source.Select(ctx, plan.Table, dataset.Eq(plan.IdentifyingField, value))
		if err != nil {
			return dataset.Record{}, false, err
		}
		if len(rows) > 0 {
			return rows[0], true, nil
		}
	}
	return dataset.Record{}, false, nil
}
