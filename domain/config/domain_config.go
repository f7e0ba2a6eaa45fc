package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Node box used by the layout engine
	NodeWidth  float64
	NodeHeight float64

	// Layered layout spacing
	RankSeparation float64
	NodeSeparation float64
	OrderingSweeps int

	// Provisional placement offsets used before the next layout pass
	NewPersonBaseX   float64
	NewPersonBaseY   float64
	NewPersonJitter  float64
	SpouseOffsetX    float64
	ChildOffsetY     float64

	// Placeholder attributes for created persons
	DefaultPersonName string
	DefaultSpouseName string
	DefaultChildName  string

	// Graph constraints
	MaxPeoplePerTree int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		NodeWidth:  250,
		NodeHeight: 120,

		RankSeparation: 100,
		NodeSeparation: 80,
		OrderingSweeps: 4,

		NewPersonBaseX:  100,
		NewPersonBaseY:  100,
		NewPersonJitter: 50,
		SpouseOffsetX:   300,
		ChildOffsetY:    200,

		DefaultPersonName: "New Member",
		DefaultSpouseName: "Spouse",
		DefaultChildName:  "Child",

		MaxPeoplePerTree: 10000,
	}
}
