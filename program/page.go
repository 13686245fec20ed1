package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Page describes the demo document: a header, a row with the main column and
// the sidebars, and a footer. All sizes are terminal rows/columns.
type Page struct {
	HeaderRows int           `yaml:"header_rows"`
	FooterRows int           `yaml:"footer_rows"`
	MainRows   int           `yaml:"main_rows"`
	Sidebars   []SidebarSpec `yaml:"sidebars"`
}

// SidebarSpec is one sticky panel on the page.
type SidebarSpec struct {
	Name  string `yaml:"name"`
	Side  string `yaml:"side"`
	Width int    `yaml:"width"`
	// Items is the number of filler rows between TOP and BOTTOM.
	Items int `yaml:"items"`
	// ToggleRows is the height of the block the toggle inserts; 0 hides the toggle.
	ToggleRows int `yaml:"toggle_rows"`
}

const (
	sideLeft  = "left"
	sideRight = "right"

	// toggleAfter is the number of filler rows above the toggle control.
	toggleAfter = 10
)

func defaultPage() Page {
	return Page{
		HeaderRows: 4,
		FooterRows: 4,
		MainRows:   160,
		Sidebars: []SidebarSpec{
			{Name: "sidebar", Side: sideLeft, Width: 24, Items: 45, ToggleRows: 12},
			{Name: "ssidebar", Side: sideRight, Width: 24, Items: 8},
		},
	}
}

// loadPage reads a page file. An empty path or a missing file yields the
// default page.
func loadPage(path string) (Page, error) {
	page := defaultPage()
	if path == "" {
		return page, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return page, nil
		}
		return Page{}, fmt.Errorf("read page: %w", err)
	}
	var loaded Page
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Page{}, fmt.Errorf("parse page %s: %w", path, err)
	}
	if loaded.HeaderRows > 0 {
		page.HeaderRows = loaded.HeaderRows
	}
	if loaded.FooterRows > 0 {
		page.FooterRows = loaded.FooterRows
	}
	if loaded.MainRows > 0 {
		page.MainRows = loaded.MainRows
	}
	if len(loaded.Sidebars) > 0 {
		page.Sidebars = loaded.Sidebars
	}
	if err := page.validate(); err != nil {
		return Page{}, fmt.Errorf("page %s: %w", path, err)
	}
	return page, nil
}

func (p Page) validate() error {
	seen := make(map[string]bool, len(p.Sidebars))
	var sides [2]int
	for i := range p.Sidebars {
		s := &p.Sidebars[i]
		if s.Name == "" {
			return fmt.Errorf("sidebar #%d: name is required", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("sidebar %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		switch s.Side {
		case sideLeft:
			sides[0]++
		case sideRight:
			sides[1]++
		default:
			return fmt.Errorf("sidebar %q: side must be %q or %q", s.Name, sideLeft, sideRight)
		}
		if s.Width < 8 {
			return fmt.Errorf("sidebar %q: width must be >= 8", s.Name)
		}
		if s.Items < 0 || s.ToggleRows < 0 {
			return fmt.Errorf("sidebar %q: items and toggle_rows must be >= 0", s.Name)
		}
	}
	if sides[0] > 1 || sides[1] > 1 {
		return fmt.Errorf("at most one sidebar per side")
	}
	return nil
}

// lines renders the panel's content, one string per row.
func (s SidebarSpec) lines(toggled bool) []string {
	out := make([]string, 0, s.height(toggled))
	out = append(out, "TOP")
	for i := 0; i < s.Items; i++ {
		if s.ToggleRows > 0 && i == min(toggleAfter, s.Items) {
			out = appendToggle(out, s.ToggleRows, toggled)
		}
		out = append(out, fmt.Sprintf("Fill content %d", i+1))
	}
	if s.ToggleRows > 0 && s.Items <= toggleAfter {
		out = appendToggle(out, s.ToggleRows, toggled)
	}
	return append(out, "BOTTOM")
}

func appendToggle(out []string, rows int, toggled bool) []string {
	out = append(out, "[ Toggle ]")
	if toggled {
		for i := 0; i < rows; i++ {
			out = append(out, strings.Repeat("█", 4))
		}
	}
	return out
}

func (s SidebarSpec) height(toggled bool) int {
	h := s.Items + 2
	if s.ToggleRows > 0 {
		h++
		if toggled {
			h += s.ToggleRows
		}
	}
	return h
}

// pageLayout is the page resolved against the current panel heights.
type pageLayout struct {
	headerRows      int
	footerRows      int
	mainRows        int
	containerHeight int
}

func (p Page) layout(panelHeights []int) pageLayout {
	c := p.MainRows
	for _, h := range panelHeights {
		c = max(c, h)
	}
	return pageLayout{
		headerRows:      p.HeaderRows,
		footerRows:      p.FooterRows,
		mainRows:        p.MainRows,
		containerHeight: c,
	}
}

func (l pageLayout) documentHeight() int {
	return l.headerRows + l.containerHeight + l.footerRows
}

func (l pageLayout) containerTop() int { return l.headerRows }
