package dataset

func rec(key string, fields map[string]any) Record {
	if fields == nil {
		fields = map[string]any{}
	}
	if _, ok := fields[FieldID]; !ok {
		fields[FieldID] = key
	}
	return Record{Key: key, CreatedTime: "2019-05-01T12:00:00.000Z", Fields: fields}
}

func fixture() map[Table][]Record {
	return map[Table][]Record{
		Places: {
			rec("recPlace1", map[string]any{"Name": "Union Station", "Headline": "You are at Union Station."}),
		},
		Components: {
			rec("recHVAC", map[string]any{
				"Name":             "HVAC System",
				"System":           true,
				"Place":            []any{"recPlace1"},
				"Child components": []any{"recTemp"},
			}),
			rec("recTemp", map[string]any{
				"Name":            "Temperature Sensor",
				"Place":           []any{"recPlace1"},
				"Technology Type": []any{"recTT1"},
			}),
		},
		TechnologyType: {
			rec("recTT1", map[string]any{"Name": "Thermometer", "Description": "Measures heat."}),
		},
		DataType: {
			rec("recDT1", map[string]any{"Name": "Personal Information"}),
		},
	}
}
