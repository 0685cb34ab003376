package analysis

// ArchProfile is the static descriptive record attached to a classification.
type ArchProfile struct {
	Name         string   `json:"name"`
	Pronation    string   `json:"pronation"`
	Risks        []string `json:"risks"`
	ShoeCategory string   `json:"shoe_category"`
}

var profiles = map[Classification]ArchProfile{
	ClassFlat: {
		Name:         "Flat Foot (Pes Planus)",
		Pronation:    "Overpronation",
		Risks:        []string{"Plantar fasciitis", "Shin splints", "Bunions", "Knee pain"},
		ShoeCategory: "Stability / motion control",
	},
	ClassNeutral: {
		Name:         "Neutral Arch",
		Pronation:    "Neutral pronation",
		Risks:        []string{"Low structural risk with appropriate footwear"},
		ShoeCategory: "Neutral cushioned",
	},
	ClassHigh: {
		Name:         "High Arch (Pes Cavus)",
		Pronation:    "Underpronation (supination)",
		Risks:        []string{"Ankle sprains", "Metatarsalgia", "Claw toes", "Stress fractures"},
		ShoeCategory: "Cushioned with flexible midsole",
	},
}

// ProfileFor returns the descriptive profile for a classification.
func ProfileFor(c Classification) ArchProfile {
	return profiles[c]
}
