// Package vehicles is the static fleet catalogue shown on the marketing site.
package vehicles

type Vehicle struct {
	ID       string
	LegacyID string // slug used by older site links
	Name     string
	ImageURL string
	Price    string
}

var fleet = []Vehicle{
	{
		ID:       "veh_escalade_v",
		LegacyID: "escalade",
		Name:     "Cadillac Escalade V",
		ImageURL: "https://cdn.velora.example/fleet/escalade-v.jpg",
		Price:    "$185/hr",
	},
	{
		ID:       "veh_navigator_black",
		LegacyID: "navigator",
		Name:     "Lincoln Navigator Black Label",
		ImageURL: "https://cdn.velora.example/fleet/navigator-black.jpg",
		Price:    "$175/hr",
	},
	{
		ID:       "veh_suburban_rst",
		LegacyID: "suburban",
		Name:     "Chevrolet Suburban RST",
		ImageURL: "https://cdn.velora.example/fleet/suburban-rst.jpg",
		Price:    "$140/hr",
	},
	{
		ID:       "veh_sprinter_exec",
		LegacyID: "sprinter",
		Name:     "Mercedes-Benz Sprinter Executive",
		ImageURL: "https://cdn.velora.example/fleet/sprinter-exec.jpg",
		Price:    "$220/hr",
	},
}

// Find resolves either the primary id or the legacy slug.
func Find(id string) (Vehicle, bool) {
	for _, v := range fleet {
		if v.ID == id || v.LegacyID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

func All() []Vehicle {
	out := make([]Vehicle, len(fleet))
	copy(out, fleet)
	return out
}
