package model

// Column names of the DTPR base.
const (
	FieldName        = "Name"
	FieldDescription = "Description"
	FieldHeadline    = "Headline"
	FieldAddress     = "Address"
	FieldAttractions = "Attractions"

	FieldAccountableEntity = "Accountable Entity"
	FieldLogo              = "Logo"
	FieldOrganizationURL   = "Accountable Organization URL"

	FieldSystem          = "System"
	FieldChildComponents = "Child components"
	FieldPlace           = "Place"
	FieldPurpose         = "Purpose"
	FieldDataType        = "Data Type"
	FieldDataProcess     = "Data Process"
	FieldStorage         = "Storage"
	FieldAccess          = "Access"
	FieldTechnologyType  = "Technology Type"
	FieldTargetOutcome   = "Target Outcome"
	FieldMeasuredOutcome = "Measured Outcome"

	FieldPropertyType = "PropertyType"
)

// Storage property types.
const (
	PropertyStorage   = "storage"
	PropertyRetention = "retention"
)

// Well-known Data Type names.
const (
	DataTypePersonalInformation = "Personal Information"
	DataTypePixelImage          = "Pixel-based Image"
)
