package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header   HeaderTheme
	Footer   FooterTheme
	Panel    PanelTheme
	Canvas   CanvasTheme
	Scrubber ScrubberTheme
}

// HeaderTheme styles the top status line.
type HeaderTheme struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Live   lipgloss.Style
	AsOf   lipgloss.Style
	Accent lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// CanvasTheme styles the panels drawn on the canvas surface.
type CanvasTheme struct {
	Folder      lipgloss.Style
	FolderTitle lipgloss.Style
	File        lipgloss.Style
	FileTitle   lipgloss.Style
	Selected    lipgloss.Style
	Body        lipgloss.Style
	Placeholder lipgloss.Style
}

// ScrubberTheme styles the temporal control.
type ScrubberTheme struct {
	Bar    lipgloss.Style
	Marker lipgloss.Style
	Label  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Header: HeaderTheme{
			Title:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Live:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
			AsOf:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")).Bold(true),
			Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Notice: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		},
		Canvas: CanvasTheme{
			Folder:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			FolderTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Bold(true),
			File:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			FileTitle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
			Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Body:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Italic(true),
		},
		Scrubber: ScrubberTheme{
			Bar:    lipgloss.NewStyle().Foreground(lipgloss.Color("66")),
			Marker: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}
