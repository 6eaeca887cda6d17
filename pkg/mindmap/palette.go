package mindmap

// Colors is the fill/text/border triple for one depth bucket.
type Colors struct {
	Fill   string `json:"fill"`
	Text   string `json:"text"`
	Border string `json:"border"`
}

// Style is the presentational bucket for a node. It depends only on the
// node's level.
type Style struct {
	Bucket   int     `json:"bucket"` // level mod palette size
	Colors   Colors  `json:"colors"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"font_size"`
	Radius   float64 `json:"radius"`
}

// DefaultPalette holds one colour triple per level, cycled by level mod 10.
// Values are the Tailwind 200/800/300 shades of each hue.
var DefaultPalette = [...]Colors{
	{Fill: "#e9d5ff", Text: "#6b21a8", Border: "#d8b4fe"}, // purple
	{Fill: "#fecdd3", Text: "#9f1239", Border: "#fda4af"}, // rose
	{Fill: "#bfdbfe", Text: "#1e40af", Border: "#93c5fd"}, // blue
	{Fill: "#fde68a", Text: "#92400e", Border: "#fcd34d"}, // amber
	{Fill: "#a7f3d0", Text: "#065f46", Border: "#6ee7b7"}, // emerald
	{Fill: "#c7d2fe", Text: "#3730a3", Border: "#a5b4fc"}, // indigo
	{Fill: "#a5f3fc", Text: "#155e75", Border: "#67e8f9"}, // cyan
	{Fill: "#fbcfe8", Text: "#9d174d", Border: "#f9a8d4"}, // pink
	{Fill: "#d9f99d", Text: "#3f6212", Border: "#bef264"}, // lime
	{Fill: "#fed7aa", Text: "#9a3412", Border: "#fdba74"}, // orange
}

// sizeByLevel holds height, font size and corner radius for levels 0, 1
// and everything deeper.
var sizeByLevel = [...]struct{ height, font, radius float64 }{
	{height: 64, font: 18, radius: 16},
	{height: 48, font: 16, radius: 12},
	{height: 40, font: 14, radius: 12},
}

// StyleFor returns the style bucket for a level using palette, falling back
// to DefaultPalette when palette is empty.
func StyleFor(level int, palette []Colors) Style {
	if len(palette) == 0 {
		palette = DefaultPalette[:]
	}
	level = max(level, 0)
	bucket := level % len(palette)
	size := sizeByLevel[min(level, len(sizeByLevel)-1)]
	return Style{
		Bucket:   bucket,
		Colors:   palette[bucket],
		Height:   size.height,
		FontSize: size.font,
		Radius:   size.radius,
	}
}
