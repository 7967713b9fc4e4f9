package webhook

import "strings"

// Builder accumulates the output of one turn in emission order.
type Builder struct {
	session      string
	languageCode string
	texts        []string
	messages     []Message
	contexts     []Context
	followup     *EventInput
}

func NewBuilder(req *Request) *Builder {
	b := &Builder{languageCode: "en"}
	if req != nil {
		b.session = req.Session
		if req.QueryResult.LanguageCode != "" {
			b.languageCode = req.QueryResult.LanguageCode
		}
	}
	return b
}

// Say appends a text utterance. Blank text is dropped.
func (b *Builder) Say(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.texts = append(b.texts, text)
	b.messages = append(b.messages, Message{Text: &Text{Text: []string{text}}})
}

func (b *Builder) Card(card Card) {
	b.messages = append(b.messages, Message{Card: &card})
}

// Suggest appends quick-reply chips. Consecutive calls extend the same
// quick-replies message.
func (b *Builder) Suggest(chips ...string) {
	var clean []string
	for _, c := range chips {
		if c = strings.TrimSpace(c); c != "" {
			clean = append(clean, c)
		}
	}
	if len(clean) == 0 {
		return
	}
	if n := len(b.messages); n > 0 && b.messages[n-1].QuickReplies != nil {
		qr := b.messages[n-1].QuickReplies
		qr.QuickReplies = append(qr.QuickReplies, clean...)
		return
	}
	b.messages = append(b.messages, Message{QuickReplies: &QuickReplies{QuickReplies: clean}})
}

// SetContext writes an output context, replacing one with the same name.
func (b *Builder) SetContext(name string, lifespan int, params map[string]any) {
	ctx := Context{Name: b.contextName(name), LifespanCount: lifespan, Parameters: params}
	for i, c := range b.contexts {
		if c.Name == ctx.Name {
			b.contexts[i] = ctx
			return
		}
	}
	b.contexts = append(b.contexts, ctx)
}

// Followup asks the NLU service to trigger event next.
func (b *Builder) Followup(event string) {
	b.followup = &EventInput{Name: event, LanguageCode: b.languageCode}
}

// Texts returns the text utterances emitted so far.
func (b *Builder) Texts() []string {
	out := make([]string, len(b.texts))
	copy(out, b.texts)
	return out
}

func (b *Builder) Response() *Response {
	return &Response{
		FulfillmentText:     strings.Join(b.texts, "\n"),
		FulfillmentMessages: b.messages,
		OutputContexts:      b.contexts,
		FollowupEventInput:  b.followup,
	}
}

func (b *Builder) contextName(name string) string {
	if b.session == "" || strings.Contains(name, "/") {
		return name
	}
	return b.session + "/contexts/" + name
}

// Suggestions returns every chip in the response, in order.
func (r *Response) Suggestions() []string {
	var out []string
	for _, m := range r.FulfillmentMessages {
		if m.QuickReplies != nil {
			out = append(out, m.QuickReplies.QuickReplies...)
		}
	}
	return out
}

// Cards returns every card in the response, in order.
func (r *Response) Cards() []Card {
	var out []Card
	for _, m := range r.FulfillmentMessages {
		if m.Card != nil {
			out = append(out, *m.Card)
		}
	}
	return out
}

// Context returns the output context with the given short name.
func (r *Response) Context(short string) (Context, bool) {
	for _, c := range r.OutputContexts {
		if c.ShortName() == short {
			return c, true
		}
	}
	return Context{}, false
}
