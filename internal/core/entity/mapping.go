package entity

import (
	"strings"

	"github.com/agenthands/dtpr/internal/core/model"
	"github.com/agenthands/dtpr/internal/dataset"
)

// Plan describes how to answer "what is X" for one entity type: select from
// Table where IdentifyingField equals X and read OutputField. With a join,
// OutputField holds a reference list; its first id is looked up in
// JoinTable and JoinField is read instead. At most one hop is supported.
type Plan struct {
	Table            dataset.Table
	IdentifyingField string
	OutputField      string
	Prefix           string
	JoinTable        dataset.Table
	JoinField        string
}

func (p Plan) HasJoin() bool {
	return p.JoinTable != ""
}

// Compose renders "{Prefix} {answer}." without a leading space when the
// prefix is empty and without doubling terminal punctuation.
func (p Plan) Compose(answer string) string {
	msg := strings.TrimSpace(p.Prefix + " " + strings.TrimSpace(answer))
	if strings.HasSuffix(msg, ".") || strings.HasSuffix(msg, "!") || strings.HasSuffix(msg, "?") {
		return msg
	}
	return msg + "."
}

func describe(table dataset.Table, prefix string) Plan {
	return Plan{
		Table:            table,
		IdentifyingField: model.FieldName,
		OutputField:      model.FieldDescription,
		Prefix:           prefix,
	}
}

var plans = map[Type]Plan{
	PlaceAttraction: describe(dataset.Places, ""),
	Location:        describe(dataset.Places, ""),
	Address:         describe(dataset.Places, ""),
	Component: {
		Table:            dataset.Components,
		IdentifyingField: model.FieldName,
		OutputField:      model.FieldTechnologyType,
		Prefix:           "It is a",
		JoinTable:        dataset.TechnologyType,
		JoinField:        model.FieldName,
	},
	System:         describe(dataset.Components, ""),
	Purpose:        describe(dataset.Purpose, "This means it is"),
	DataProcess:    describe(dataset.DataProcess, ""),
	DataType:       describe(dataset.DataType, ""),
	TechnologyType: describe(dataset.TechnologyType, ""),
}

// Lookup returns the query plan for t.
func Lookup(t Type) (Plan, bool) {
	p, ok := plans[t]
	return p, ok
}

// SetsSubject reports whether resolving t makes the result the current
// component of the conversation.
func (t Type) SetsSubject() bool {
	return t == System || t == Component
}
