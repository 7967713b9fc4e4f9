package model

import "github.com/agenthands/dtpr/internal/dataset"

type Place struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Headline          string   `json:"headline,omitempty"`
	Description       string   `json:"description,omitempty"`
	AccountableEntity string   `json:"accountable_entity,omitempty"`
	Address           string   `json:"address,omitempty"`
	Attractions       []string `json:"attractions,omitempty"`
}

func NewPlace(r dataset.Record) Place {
	p := Place{
		ID:          r.ID(),
		Name:        r.String(FieldName),
		Headline:    r.String(FieldHeadline),
		Description: r.String(FieldDescription),
		Address:     r.String(FieldAddress),
		Attractions: r.Strings(FieldAttractions),
	}
	if ids := r.Strings(FieldAccountableEntity); len(ids) > 0 {
		p.AccountableEntity = ids[0]
	}
	return p
}

type Accountability struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	LogoURL         string `json:"logo_url,omitempty"`
	OrganizationURL string `json:"organization_url,omitempty"`
}

func NewAccountability(r dataset.Record) Accountability {
	return Accountability{
		ID:              r.ID(),
		Name:            r.String(FieldName),
		Description:     r.String(FieldDescription),
		LogoURL:         largeThumbnailURL(r),
		OrganizationURL: r.String(FieldOrganizationURL),
	}
}

// largeThumbnailURL reads Logo[0].thumbnails.large.url from the attachment
// field.
func largeThumbnailURL(r dataset.Record) string {
	v, ok := r.Value(FieldLogo)
	if !ok {
		return ""
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	att, ok := list[0].(map[string]any)
	if !ok {
		return ""
	}
	thumbs, ok := att["thumbnails"].(map[string]any)
	if !ok {
		return ""
	}
	large, ok := thumbs["large"].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := large["url"].(string)
	return url
}
