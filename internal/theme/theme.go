package theme

// Palette names understood by the diagram renderer.
type Palette string

const (
	PaletteDefault Palette = "default"
	PaletteDark    Palette = "dark"

	// SchemeAttribute is the attribute mkdocs-material flips on the page
	// root when the reader toggles color schemes.
	SchemeAttribute = "data-md-color-scheme"

	// DarkSchemeSentinel is the one value that selects the dark palette.
	// Every other value, including empty, means light.
	DarkSchemeSentinel = "slate"
)

// FlowchartConfig holds the fixed flowchart layout parameters.
type FlowchartConfig struct {
	Curve string
}

// SequenceConfig holds the fixed sequence-diagram margins.
type SequenceConfig struct {
	DiagramMarginX int
	DiagramMarginY int
}

// GanttConfig holds the fixed gantt-chart spacing constants.
type GanttConfig struct {
	BarHeight            int
	BarGap               int
	TopPadding           int
	LeftPadding          int
	GridLineStartPadding int
}

// Config is the full renderer configuration. Only the palette varies at
// runtime, the layout blocks are constants of the docs site.
type Config struct {
	StartOnLoad bool
	Theme       Palette
	Flowchart   FlowchartConfig
	Sequence    SequenceConfig
	Gantt       GanttConfig
}

// DefaultConfig returns the light configuration used on page load.
func DefaultConfig() Config {
	return Config{
		StartOnLoad: false,
		Theme:       PaletteDefault,
		Flowchart:   FlowchartConfig{Curve: "basis"},
		Sequence:    SequenceConfig{DiagramMarginX: 50, DiagramMarginY: 10},
		Gantt: GanttConfig{
			BarHeight:            20,
			BarGap:               4,
			TopPadding:           50,
			LeftPadding:          75,
			GridLineStartPadding: 35,
		},
	}
}

// PaletteFor maps a scheme attribute value to a palette. The choice is
// binary, keyed on the dark sentinel only.
func PaletteFor(schemeValue string) Palette {
	if schemeValue == DarkSchemeSentinel {
		return PaletteDark
	}
	return PaletteDefault
}

// ConfigFor returns the renderer configuration for a scheme value.
func ConfigFor(schemeValue string) Config {
	cfg := DefaultConfig()
	cfg.Theme = PaletteFor(schemeValue)
	return cfg
}
