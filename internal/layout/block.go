package layout

type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockImage BlockKind = "image"
	BlockRect  BlockKind = "rect"
	BlockLine  BlockKind = "line"
	BlockTable BlockKind = "table"
)

// Block is one positioned element of a page
type Block interface {
	Kind() BlockKind
	Bounds() Box
}

type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Bottom() float64 { return b.Y + b.H }

// Align values match the single letter codes of the pdf cell API
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	ColorText    = Color{R: 33, G: 37, B: 41}
	ColorMuted   = Color{R: 108, G: 117, B: 125}
	ColorPrimary = Color{R: 31, G: 56, B: 100}
	ColorBand    = Color{R: 240, G: 244, B: 250}
	ColorStripe  = Color{R: 248, G: 249, B: 252}
	ColorBorder  = Color{R: 200, G: 205, B: 212}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
)

type Font struct {
	Family string  `json:"family"`
	Style  string  `json:"style"`
	Size   float64 `json:"size"`
}

func (f Font) Bold() bool {
	for _, c := range f.Style {
		if c == 'B' {
			return true
		}
	}
	return false
}

// TextBlock is a single line of text inside its box
type TextBlock struct {
	Box
	Text  string `json:"text"`
	Font  Font   `json:"font"`
	Color Color  `json:"color"`
	Align Align  `json:"align"`
}

func (*TextBlock) Kind() BlockKind { return BlockText }
func (b *TextBlock) Bounds() Box   { return b.Box }

// ImageBlock carries undecoded image bytes, decoding is up to the renderer
type ImageBlock struct {
	Box
	Name string `json:"name"`
	Data []byte `json:"-"`
}

func (*ImageBlock) Kind() BlockKind { return BlockImage }
func (b *ImageBlock) Bounds() Box   { return b.Box }

// RectBlock is filled when Fill is set and outlined when Border is set
type RectBlock struct {
	Box
	Fill      *Color  `json:"fill,omitempty"`
	Border    *Color  `json:"border,omitempty"`
	LineWidth float64 `json:"line_width"`
}

func (*RectBlock) Kind() BlockKind { return BlockRect }
func (b *RectBlock) Bounds() Box   { return b.Box }

type LineBlock struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

func (*LineBlock) Kind() BlockKind { return BlockLine }

func (b *LineBlock) Bounds() Box {
	return Box{
		X: min(b.X1, b.X2),
		Y: min(b.Y1, b.Y2),
		W: abs(b.X2 - b.X1),
		H: abs(b.Y2 - b.Y1),
	}
}

type Column struct {
	Title string  `json:"title"`
	Width float64 `json:"width"`
	Align Align   `json:"align"`
	Bold  bool    `json:"bold"`
}

// TableBlock is the part of the line item table that sits on one page:
// a header row followed by whole body rows
type TableBlock struct {
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// FirstRow is the index of Rows[0] in the whole table, it keeps striping continuous
	FirstRow     int     `json:"first_row"`
	HeaderHeight float64 `json:"header_height"`
	RowHeight    float64 `json:"row_height"`
	HeaderFont   Font    `json:"header_font"`
	BodyFont     Font    `json:"body_font"`
	HeaderFill   Color   `json:"header_fill"`
	HeaderColor  Color   `json:"header_color"`
	StripeFill   Color   `json:"stripe_fill"`
	TextColor    Color   `json:"text_color"`
}

func (*TableBlock) Kind() BlockKind { return BlockTable }

func (b *TableBlock) Width() float64 {
	w := 0.0
	for _, c := range b.Columns {
		w += c.Width
	}
	return w
}

func (b *TableBlock) Bounds() Box {
	return Box{
		X: b.X,
		Y: b.Y,
		W: b.Width(),
		H: b.HeaderHeight + float64(len(b.Rows))*b.RowHeight,
	}
}

// Striped reports whether body row i of this chunk gets the stripe fill
func (b *TableBlock) Striped(i int) bool {
	return (b.FirstRow+i)%2 == 1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
