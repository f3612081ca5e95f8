package lead

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusRinging   Status = "ringing"
	StatusContacted Status = "contacted"
	StatusHold      Status = "hold"
	StatusTransit   Status = "transit"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// transitions maps each state to the states it may move to. completed and
// declined are terminal for the operational flow.
var transitions = map[Status][]Status{
	StatusNew:       {StatusRinging},
	StatusRinging:   {StatusContacted},
	StatusContacted: {StatusHold, StatusTransit, StatusCompleted, StatusDeclined},
	StatusHold:      {StatusContacted, StatusCompleted, StatusDeclined},
	StatusTransit:   {StatusContacted, StatusCompleted, StatusDeclined},
	StatusCompleted: {},
	StatusDeclined:  {},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further operational transition exists from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// PropertyType classifies the installation site.
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyWaterHeater PropertyType = "water_heater"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyResidential, PropertyCommercial, PropertyWaterHeater:
		return true
	}
	return false
}

// Likelihood is the salesman's conversion estimate.
type Likelihood string

const (
	LikelihoodHot  Likelihood = "hot"
	LikelihoodWarm Likelihood = "warm"
	LikelihoodCold Likelihood = "cold"
)

func (l Likelihood) Valid() bool {
	switch l {
	case LikelihoodHot, LikelihoodWarm, LikelihoodCold:
		return true
	}
	return false
}
