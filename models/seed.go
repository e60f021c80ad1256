package models

// First-run seed datasets. Each repository persists these on the first Load
// against an empty collection, so the caller never sees an empty roster
// ambiguity between "not yet seeded" and "genuinely empty".

// SeedActor is the actor recorded on seeded history entries.
const SeedActor = "system"

// SeedCrewNames is the built-in starting roster.
var SeedCrewNames = []string{
	"Miguel Alvarez",
	"Dana Whitfield",
	"Tom Okafor",
	"Jessie Pruitt",
	"Ray Delgado",
}

// SeedLocationNames is the built-in site list.
var SeedLocationNames = []string{
	"North Yard",
	"Main Plant - Floor 2",
	"Substation 7",
	"Warehouse B",
}

// SeedTopic is one built-in briefing subject.
type SeedTopic struct {
	Name    string
	Content string
	PDFURL  string
}

// SeedTopics is the built-in topic catalog.
var SeedTopics = []SeedTopic{
	{
		Name:    "Ladder Safety",
		Content: "Inspect before use. Maintain three points of contact. Never stand on the top two rungs.",
		PDFURL:  "https://docs.example.com/toolbox/ladder-safety-v3.pdf",
	},
	{
		Name:    "Lockout/Tagout",
		Content: "Identify all energy sources. Apply personal locks before work begins. Verify zero energy state.",
		PDFURL:  "https://docs.example.com/toolbox/loto-v5.pdf",
	},
	{
		Name:    "Heat Stress",
		Content: "Hydrate before shift. Watch for dizziness and confusion in yourself and others. Use shaded rest cycles.",
		PDFURL:  "https://docs.example.com/toolbox/heat-stress-v2.pdf",
	},
	{
		Name:    "PPE Basics",
		Content: "Hard hat, eye protection, and high-visibility vest are minimum on all sites. Task-specific PPE per JHA.",
		PDFURL:  "https://docs.example.com/toolbox/ppe-basics-v4.pdf",
	},
}
