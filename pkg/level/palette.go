package level

import "github.com/matzehuels/tiltmaze/pkg/maze/tile"

// Default prototype and material identifiers.
const (
	DefaultSingle             = "TemplateSingle"
	DefaultDouble             = "TemplateDouble"
	DefaultTriple             = "TemplateTriple"
	DefaultCrossroads         = "TemplateCrossroads"
	DefaultCorner             = "TemplateCorner"
	DefaultFinishMaterial     = "FinishMaterial"
	DefaultLethalWallMaterial = "DeathWallMaterial"
)

// Palette names the prototypes and materials an engine instantiates.
type Palette struct {
	Single             string `json:"single" toml:"single" bson:"single"`
	Double             string `json:"double" toml:"double" bson:"double"`
	Triple             string `json:"triple" toml:"triple" bson:"triple"`
	Crossroads         string `json:"crossroads" toml:"crossroads" bson:"crossroads"`
	Corner             string `json:"corner" toml:"corner" bson:"corner"`
	FinishMaterial     string `json:"finish_material" toml:"finish_material" bson:"finish_material"`
	LethalWallMaterial string `json:"lethal_wall_material" toml:"lethal_wall_material" bson:"lethal_wall_material"`
}

// DefaultPalette returns the stock identifiers.
func DefaultPalette() Palette {
	return Palette{
		Single:             DefaultSingle,
		Double:             DefaultDouble,
		Triple:             DefaultTriple,
		Crossroads:         DefaultCrossroads,
		Corner:             DefaultCorner,
		FinishMaterial:     DefaultFinishMaterial,
		LethalWallMaterial: DefaultLethalWallMaterial,
	}
}

// WithDefaults returns p with empty entries filled from [DefaultPalette].
func (p Palette) WithDefaults() Palette {
	d := DefaultPalette()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.Single, d.Single)
	fill(&p.Double, d.Double)
	fill(&p.Triple, d.Triple)
	fill(&p.Crossroads, d.Crossroads)
	fill(&p.Corner, d.Corner)
	fill(&p.FinishMaterial, d.FinishMaterial)
	fill(&p.LethalWallMaterial, d.LethalWallMaterial)
	return p
}

// Prototype returns the prototype identifier for archetype a.
func (p Palette) Prototype(a tile.Archetype) string {
	switch a {
	case tile.Single:
		return p.Single
	case tile.Double:
		return p.Double
	case tile.Triple:
		return p.Triple
	case tile.Crossroads:
		return p.Crossroads
	case tile.Corner:
		return p.Corner
	}
	return ""
}
