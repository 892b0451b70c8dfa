package layout

// cursor tracks the monotonic y position and the pages emitted so far
type cursor struct {
	page  PageSpec
	pages []Page
	y     float64
}

func newCursor(p PageSpec) *cursor {
	c := &cursor{page: p}
	c.newPage()
	return c
}

func (c *cursor) newPage() {
	c.pages = append(c.pages, Page{Number: len(c.pages) + 1})
	c.y = c.page.ContentTop()
}

func (c *cursor) fits(h float64) bool {
	return c.y+h <= c.page.ContentBottom()
}

// ensure starts a new page when h does not fit in what is left of this one
func (c *cursor) ensure(h float64) {
	if !c.fits(h) {
		c.newPage()
	}
}

func (c *cursor) pageIndex() int {
	return len(c.pages) - 1
}

func (c *cursor) add(b Block) {
	p := &c.pages[len(c.pages)-1]
	p.Blocks = append(p.Blocks, b)
}
