package systems

// SystemInfo describes one phase of the simulation step for display.
type SystemInfo struct {
	ID          string // Perf phase identifier
	Name        string
	Description string
	Category    string // core, physics, klod, game, visual, internal
}

// systemTable lists the tick phases in the order the game runs them.
var systemTable = []SystemInfo{
	{ID: "input", Name: "Input", Description: "Turns steering into the klod impulse", Category: "core"},

	{ID: "physics", Name: "Physics", Description: "Integrates bodies and finds contacts", Category: "physics"},
	{ID: "freefall", Name: "Free Fall", Description: "Flags the klod when no limb touches anything", Category: "physics"},

	{ID: "absorb", Name: "Absorb", Description: "Gates limb-candidate contacts and attaches limbs", Category: "klod"},
	{ID: "obstacles", Name: "Obstacles", Description: "Breaks obstacles with the klod's powers", Category: "klod"},
	{ID: "shatter", Name: "Shatter", Description: "Atomizes the klod into debris", Category: "klod"},

	{ID: "countdown", Name: "Countdown", Description: "Runs the level timer and checks the finish zone", Category: "game"},
	{ID: "animate", Name: "Animate", Description: "Eases accessories and the ball visual", Category: "visual"},
	{ID: "telemetry", Name: "Telemetry", Description: "Feeds the stats collector", Category: "internal"},
}

// SystemRegistry looks up phase metadata so the perf panel and the perf
// collector agree on names.
type SystemRegistry struct {
	byID map[string]SystemInfo
}

// NewSystemRegistry creates a registry of every simulation phase.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{byID: make(map[string]SystemInfo, len(systemTable))}
	for _, info := range systemTable {
		r.byID[info.ID] = info
	}
	return r
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for id, or id itself when unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// ByCategory returns the phases of one category in tick order.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var out []SystemInfo
	for _, info := range systemTable {
		if info.Category == category {
			out = append(out, info)
		}
	}
	return out
}
