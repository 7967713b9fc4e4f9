package model

import "github.com/agenthands/dtpr/internal/dataset"

// Component is a deployed technology. A component with IsSystem set may
// list child components; leaf components have none.
type Component struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	IsSystem        bool     `json:"is_system"`
	Children        []string `json:"children,omitempty"`
	Places          []string `json:"places,omitempty"`
	Purposes        []string `json:"purposes,omitempty"`
	DataTypes       []string `json:"data_types,omitempty"`
	DataProcesses   []string `json:"data_processes,omitempty"`
	Storage         []string `json:"storage,omitempty"`
	Access          []string `json:"access,omitempty"`
	TechnologyTypes []string `json:"technology_types,omitempty"`
	TargetOutcome   string   `json:"target_outcome,omitempty"`
	MeasuredOutcome string   `json:"measured_outcome,omitempty"`
}

func NewComponent(r dataset.Record) Component {
	return Component{
		ID:              r.ID(),
		Name:            r.String(FieldName),
		Description:     r.String(FieldDescription),
		IsSystem:        r.Bool(FieldSystem),
		Children:        r.Strings(FieldChildComponents),
		Places:          r.Strings(FieldPlace),
		Purposes:        r.Strings(FieldPurpose),
		DataTypes:       r.Strings(FieldDataType),
		DataProcesses:   r.Strings(FieldDataProcess),
		Storage:         r.Strings(FieldStorage),
		Access:          r.Strings(FieldAccess),
		TechnologyTypes: r.Strings(FieldTechnologyType),
		TargetOutcome:   r.String(FieldTargetOutcome),
		MeasuredOutcome: r.String(FieldMeasuredOutcome),
	}
}

// AtPlace reports whether the component is installed at placeID.
func (c Component) AtPlace(placeID string) bool {
	return contains(c.Places, placeID)
}

// HasDataType reports whether the component references the data type id.
func (c Component) HasDataType(id string) bool {
	return contains(c.DataTypes, id)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
