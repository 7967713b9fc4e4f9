// Package fulfillment answers NLU intents from the DTPR dataset.
package fulfillment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/dtpr/internal/core/entity"
	"github.com/agenthands/dtpr/internal/core/model"
	"github.com/agenthands/dtpr/internal/core/session"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/webhook"
)

// Redirector produces a short generated reply for an utterance no intent
// matched.
type Redirector interface {
	Redirect(ctx context.Context, utterance, placeHeadline string) (string, error)
}

// Agent owns the data source and answers one turn at a time. It keeps no
// per-conversation state; the NLU contexts carry it between turns.
type Agent struct {
	Source         dataset.Source
	DefaultPlaceID string
	// FanOut bounds concurrent reference lookups within one turn.
	FanOut     int
	Redirector Redirector
	Logger     *zap.Logger
}

func NewAgent(src dataset.Source, defaultPlaceID string, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		Source:         src,
		DefaultPlaceID: defaultPlaceID,
		FanOut:         8,
		Logger:         logger,
	}
}

// Turn is the input and output of a single handler call.
type Turn struct {
	Intent  Intent
	Query   string
	Params  entity.Parameters
	Session *session.State
	Out     *webhook.Builder
}

func (a *Agent) NewTurn(req *webhook.Request) *Turn {
	out := webhook.NewBuilder(req)
	return &Turn{
		Intent:  ParseIntent(req.QueryResult.Intent.DisplayName),
		Query:   req.QueryResult.QueryText,
		Params:  req.QueryResult.Parameters,
		Session: session.New(req, a.DefaultPlaceID, out),
		Out:     out,
	}
}

// Handle fulfills req. It never fails: handler errors become utterances.
func (a *Agent) Handle(ctx context.Context, req *webhook.Request) *webhook.Response {
	start := time.Now()
	t := a.NewTurn(req)

	err := a.Dispatch(ctx, t)
	a.finish(ctx, t, err)

	a.Logger.Debug("turn fulfilled",
		zap.String("intent", t.Intent.String()),
		zap.String("display_name", req.QueryResult.Intent.DisplayName),
		zap.String("component_id", t.Session.ComponentID()),
		zap.String("place_id", t.Session.PlaceID()),
		zap.Duration("took", time.Since(start)))

	return t.Out.Response()
}

// Dispatch runs the handler for t.Intent. Unknown intents get the fallback.
func (a *Agent) Dispatch(ctx context.Context, t *Turn) error {
	switch t.Intent {
	case IntentWelcome:
		return a.welcome(ctx, t)
	case IntentFallback, IntentUnknown:
		return a.fallback(ctx, t)
	case IntentLearnAboutComponent:
		return a.learnAboutComponent(ctx, t)
	case IntentLearnAboutPlace:
		return a.learnAboutPlace(ctx, t)
	case IntentGetDescription:
		return a.getDescription(ctx, t)
	case IntentGetWhy:
		return a.getWhy(ctx, t)
	case IntentGetTimeRetained:
		return a.getStorageData(ctx, t, model.PropertyRetention)
	case IntentGetStorage:
		return a.getStorageData(ctx, t, model.PropertyStorage)
	case IntentGetAccess:
		return a.getAccess(ctx, t)
	case IntentGetAccountability:
		return a.getAccountability(ctx, t)
	case IntentWhatIs:
		return a.whatIs(ctx, t)
	case IntentGetDataProcessList:
		return a.getDataProcessList(ctx, t)
	case IntentGetDataTypes:
		return a.getDataTypes(ctx, t)
	case IntentWhereAmI:
		return a.whereAmI(ctx, t)
	case IntentGetTheParts:
		return a.getTheParts(ctx, t)
	case IntentGetTargetOutcome:
		return a.getTargetOutcome(ctx, t)
	case IntentGetMeasuredOutcome:
		return a.getMeasuredOutcome(ctx, t)
	case IntentGetSystems:
		return a.getSystems(ctx, t)
	case IntentGetPlaceCollectsPersonalData:
		return a.getPlaceCollectsPersonalData(ctx, t)
	case IntentGetComponentCollectsPersonalData:
		return a.getComponentCollectsPersonalData(ctx, t)
	case IntentGetCollectsImageData:
		return a.getCollectsImageData(ctx, t)
	case IntentGetQuestionsToAsk:
		return a.getQuestionsToAsk(ctx, t)
	}
	return a.fallback(ctx, t)
}

func (a *Agent) finish(ctx context.Context, t *Turn, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrMissingSubject) {
		if err = a.noComponentFallback(ctx, t); err == nil {
			return
		}
	}

	var te *TurnError
	if errors.As(err, &te) && te.Utterance != "" {
		a.Logger.Info("turn answered from error",
			zap.String("intent", t.Intent.String()),
			zap.Error(err))
		t.Out.Say(te.Utterance)
		return
	}

	a.Logger.Error("turn failed",
		zap.String("intent", t.Intent.String()),
		zap.Bool("deadline", ctx.Err() != nil),
		zap.Error(err))
	t.Out.Say(apology)
}

func (a *Agent) noComponentFallback(ctx context.Context, t *Turn) error {
	t.Out.Say("The way that works varies from system to system. However you can ask about each system individually.")
	return a.getSystems(ctx, t)
}

func (a *Agent) component(ctx context.Context, id string) (model.Component, error) {
	r, err := a.Source.Find(ctx, dataset.Components, id)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			return model.Component{}, notFound("I couldn't find that component in my records.", err)
		}
		return model.Component{}, err
	}
	return model.NewComponent(r), nil
}

func (a *Agent) currentComponent(ctx context.Context, t *Turn) (model.Component, error) {
	id := t.Session.ComponentID()
	if id == "" {
		return model.Component{}, errMissingSubject
	}
	return a.component(ctx, id)
}

func (a *Agent) place(ctx context.Context, id string) (model.Place, error) {
	r, err := a.Source.Find(ctx, dataset.Places, id)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			return model.Place{}, notFound("I couldn't find this place in my records.", err)
		}
		return model.Place{}, err
	}
	return model.NewPlace(r), nil
}

// resolve looks up every id in table concurrently and returns the rows in
// reference order. Dangling references are skipped.
func (a *Agent) resolve(ctx context.Context, table dataset.Table, ids []string) ([]dataset.Record, error) {
	rows := make([]dataset.Record, len(ids))
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if a.FanOut > 0 {
		g.SetLimit(a.FanOut)
	}
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := a.Source.Find(gctx, table, id)
			if errors.Is(err, dataset.ErrNotFound) {
				a.Logger.Warn("dangling reference",
					zap.String("table", string(table)),
					zap.String("id", id))
				return nil
			}
			if err != nil {
				return err
			}
			rows[i], found[i] = r, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]dataset.Record, 0, len(rows))
	for i, r := range rows {
		if found[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a *Agent) lookups(ctx context.Context, table dataset.Table, ids []string) ([]model.Lookup, error) {
	rows, err := a.resolve(ctx, table, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.Lookup, len(rows))
	for i, r := range rows {
		out[i] = model.NewLookup(r)
	}
	return out, nil
}

func (a *Agent) names(ctx context.Context, table dataset.Table, ids []string) ([]string, error) {
	rows, err := a.lookups(ctx, table, ids)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, l := range rows {
		if l.Name != "" {
			out = append(out, l.Name)
		}
	}
	return out, nil
}

// children resolves the direct children of c. The component itself and
// repeated ids are skipped so a cyclic table cannot loop.
func (a *Agent) children(ctx context.Context, c model.Component) ([]model.Component, error) {
	visited := map[string]bool{c.ID: true}
	var ids []string
	for _, id := range c.Children {
		if visited[id] {
			continue
		}
		visited[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := a.resolve(ctx, dataset.Components, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.Component, len(rows))
	for i, r := range rows {
		out[i] = model.NewComponent(r)
	}
	return out, nil
}

func (a *Agent) placeComponents(ctx context.Context, placeID string) ([]model.Component, error) {
	rows, err := a.Source.Select(ctx, dataset.Components, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Component
	for _, r := range rows {
		if c := model.NewComponent(r); c.AtPlace(placeID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func componentNames(cs []model.Component) []string {
	var out []string
	for _, c := range cs {
		if c.Name != "" {
			out = append(out, c.Name)
		}
	}
	return out
}
