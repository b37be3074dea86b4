package icons

import "strings"

// Pools are the candidate search terms used to fill toolbar templates. The
// general pool is always included; a site pool is added when the target URL
// matches that site.
type Pools struct {
	General   []string `mapstructure:"general"`
	Earth     []string `mapstructure:"earth"`
	Maps      []string `mapstructure:"maps"`
	Wikimedia []string `mapstructure:"wikimedia"`
	Wikipedia []string `mapstructure:"wikipedia"`
	YouTube   []string `mapstructure:"youtube"`
}

// For returns the pool for rawURL. The first matching site wins, in the
// order earth, maps, wikimedia, wikipedia, youtube.
func (p Pools) For(rawURL string) []string {
	var site []string
	switch {
	case strings.Contains(rawURL, "earth.google") || strings.Contains(rawURL, "google.com/earth"):
		site = p.Earth
	case strings.Contains(rawURL, "maps.google") || strings.Contains(rawURL, "google.com/maps"):
		site = p.Maps
	case strings.Contains(rawURL, "wikimedia"):
		site = p.Wikimedia
	case strings.Contains(rawURL, "wikipedia"):
		site = p.Wikipedia
	case strings.Contains(rawURL, "youtube"):
		site = p.YouTube
	}
	out := make([]string, 0, len(p.General)+len(site))
	out = append(out, p.General...)
	return append(out, site...)
}

// WithDefaults fills every empty pool from DefaultPools.
func (p Pools) WithDefaults() Pools {
	d := DefaultPools()
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&p.General, d.General)
	fill(&p.Earth, d.Earth)
	fill(&p.Maps, d.Maps)
	fill(&p.Wikimedia, d.Wikimedia)
	fill(&p.Wikipedia, d.Wikipedia)
	fill(&p.YouTube, d.YouTube)
	return p
}

// DefaultPools returns the built-in term lists.
func DefaultPools() Pools {
	wikimedia := []string{
		"Aviation",
		"Rockets",
		"Trails",
		"Flowers",
		"Natural History Museum",
		"Dinosaurs",
		"Great Apes",
		"Rocket Disasters",
		"US Navy Installations",
	}
	return Pools{
		General: []string{
			"Recent Space Launches",
			"Yellow Roses",
			"Air Force Bases of United States",
			"Trucks and Big Rigs",
			"Military Aircraft",
			"United States Navy Airplanes and Helicopters",
			"Mammals Birds Reptiles Fish",
			"Oceans of the World",
			"Hawaii Volcanoes and Beaches",
			"National Parks State Parks",
			"Birds Eagles Falcons",
			"Whales Dolphins Orca",
			"Flowers Trees and Plants",
			"Trails and Mountain Peaks",
			"Rainbows and Sunsets",
			"Lighthouses",
			"Kittens and Puppies",
			"Gorillas Apes Orangutan",
			"State Parks of United States",
			"Trains and Railroads",
		},
		Earth: []string{
			"Great Barrier Reef",
			"Florida Keys",
			"Hawaii Islands",
			"Hawaii Volcanoes",
			"Rocky Mountains",
			"Grand Canyon",
		},
		Maps: []string{
			"DogPatch USA Arkansas",
			"Clinton, Arkansas",
			"Rogers, Arkansas",
			"Texas BlueBonnet Festival",
			"Downtown Austin Texas",
			"Downtown Las Vegas Nevada",
			"Downtown Searcy Arkansas",
			"Southern Texas",
			"White Sands New Mexico",
		},
		Wikimedia: wikimedia,
		Wikipedia: append([]string(nil), wikimedia...),
		YouTube: []string{
			"Funny Cat Videos",
			"Americas Funniest Home Videos",
			"Ernest P. Worrell",
			"Lincoln Parish Louisiana Nature",
			"Hawaii Helicopter Tour",
			"Grand Canyon Helicopter Tour",
			"San Diego Drone Tour",
			"Hawaii Waterfall Drone",
			"Africa Nature Park Drone 4k",
			"4k Drone Air Force Bases",
		},
	}
}
