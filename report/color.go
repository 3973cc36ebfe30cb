package report

import "github.com/Moonlight-Companies/gologger/coloransi"

// Palette colorizes output. The zero value leaves text untouched.
type Palette struct {
	Enabled bool
}

func (p Palette) paint(c coloransi.ColorCode, s string) string {
	if !p.Enabled {
		return s
	}
	return coloransi.Foreground(c, s)
}

func (p Palette) Red(s string) string    { return p.paint(coloransi.Red, s) }
func (p Palette) Green(s string) string  { return p.paint(coloransi.Green, s) }
func (p Palette) Yellow(s string) string { return p.paint(coloransi.Yellow, s) }
func (p Palette) Blue(s string) string   { return p.paint(coloransi.Blue, s) }
func (p Palette) Gray(s string) string   { return p.paint(coloransi.BrightBlack, s) }
