package fulfillment

import "strings"

// Intent is the closed set of intents the agent fulfills.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentWelcome
	IntentFallback
	IntentLearnAboutComponent
	IntentLearnAboutPlace
	IntentGetDescription
	IntentGetWhy
	IntentGetTimeRetained
	IntentGetStorage
	IntentGetAccess
	IntentGetAccountability
	IntentWhatIs
	IntentGetDataProcessList
	IntentGetDataTypes
	IntentWhereAmI
	IntentGetTheParts
	IntentGetTargetOutcome
	IntentGetMeasuredOutcome
	IntentGetSystems
	IntentGetPlaceCollectsPersonalData
	IntentGetComponentCollectsPersonalData
	IntentGetCollectsImageData
	IntentGetQuestionsToAsk
)

// Display names as configured in the NLU agent.
var intentNames = map[Intent]string{
	IntentWelcome:                          "Default Welcome Intent",
	IntentFallback:                         "Default Fallback Intent",
	IntentLearnAboutComponent:              "learn about component",
	IntentLearnAboutPlace:                  "learn about place",
	IntentGetDescription:                   "get description",
	IntentGetWhy:                           "get why",
	IntentGetTimeRetained:                  "get time retained",
	IntentGetStorage:                       "get storage",
	IntentGetAccess:                        "get access",
	IntentGetAccountability:                "get accountability",
	IntentWhatIs:                           "what is",
	IntentGetDataProcessList:               "get data process list",
	IntentGetDataTypes:                     "get data types",
	IntentWhereAmI:                         "where am I",
	IntentGetTheParts:                      "get the parts",
	IntentGetTargetOutcome:                 "get target outcome",
	IntentGetMeasuredOutcome:               "get measured outcome",
	IntentGetSystems:                       "get systems",
	IntentGetPlaceCollectsPersonalData:     "get place collects personal data",
	IntentGetComponentCollectsPersonalData: "get component collects personal data",
	IntentGetCollectsImageData:             "get collects image data",
	IntentGetQuestionsToAsk:                "get questions to ask",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// ParseIntent maps a display name to its Intent. Matching ignores case and
// surrounding space; anything unrecognized is IntentUnknown.
func ParseIntent(displayName string) Intent {
	name := strings.TrimSpace(displayName)
	for intent, known := range intentNames {
		if strings.EqualFold(name, known) {
			return intent
		}
	}
	return IntentUnknown
}
