package location

// Type classifies a location within the facility.
type Type string

// Location types. The set is open; facilities may add their own tags.
const (
	TypePrison      Type = "prison"
	TypeHouseblock  Type = "houseblock"
	TypeWing        Type = "wing"
	TypeLanding     Type = "landing"
	TypeCell        Type = "cell"
	TypeBlock       Type = "block"
	TypeYard        Type = "yard"
	TypeWorkshop    Type = "workshop"
	TypeEducation   Type = "education"
	TypeGym         Type = "gym"
	TypeChapel      Type = "chapel"
	TypeVisits      Type = "visits"
	TypeReception   Type = "reception"
	TypeKitchen     Type = "kitchen"
	TypeAdmin       Type = "admin"
	TypeSegregation Type = "segregation"
	TypeVPU         Type = "vpu"
	TypeInduction   Type = "induction"
	TypeHealthcare  Type = "healthcare"
	TypeCommonArea  Type = "common_area"
	TypeMedical     Type = "medical"
)

// Location is a node in the facility hierarchy.
// ParentID is nil for roots.
type Location struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	ParentID *string `json:"parent_id,omitempty"`
	Capacity int     `json:"capacity"`
	Floor    int     `json:"floor"`
	Building string  `json:"building"`
}

// IsRoot reports whether the location has no parent.
func (l *Location) IsRoot() bool {
	return l.ParentID == nil || *l.ParentID == ""
}

// Parent returns the parent ID, or "" for roots.
func (l *Location) Parent() string {
	if l.ParentID == nil {
		return ""
	}
	return *l.ParentID
}

// Connection is a directed walking edge between two locations.
type Connection struct {
	FromID            string  `json:"from_id"`
	ToID              string  `json:"to_id"`
	DistanceMeters    float64 `json:"distance_meters"`
	TravelTimeSeconds int     `json:"travel_time_seconds"`
	ConnectionType    string  `json:"connection_type"`
	IsBidirectional   bool    `json:"is_bidirectional"`
	RequiresEscort    bool    `json:"requires_escort"`
}

// HasType reports whether t is one of types. An empty filter matches everything.
func HasType(t Type, types []Type) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}
