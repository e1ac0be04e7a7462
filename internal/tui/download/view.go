package download

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/denisAlshanov/vidgrab/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "11"})

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"}).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).
			Bold(true)
)

// View renders the current screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Video Downloader") + "\n\n")
	b.WriteString("YouTube URL\n")
	b.WriteString(m.urlInput.View() + "\n\n")

	switch m.state {
	case stateInput:
		b.WriteString(helpStyle.Render("enter: fetch video • esc: quit"))
	case stateResolving:
		b.WriteString(m.spinner.View() + " Fetching video information...")
	case stateChoosing:
		b.WriteString(m.viewChoosing())
	case stateDownloading:
		b.WriteString(m.viewMetadata() + "\n\n")
		b.WriteString(m.progress.ViewAs(m.current.Fraction()) + "\n")
		b.WriteString(m.current.Status())
	case stateDone:
		b.WriteString(m.viewMetadata() + "\n\n")
		b.WriteString(successStyle.Render("Download completed!") + "\n")
		if m.result != nil {
			b.WriteString(fmt.Sprintf("Saved to %s (%s)\n", m.result.FilePath, utils.FormatSize(m.result.TotalBytes)))
		}
		b.WriteString("\n" + helpStyle.Render("enter: new URL • q: quit"))
	case stateFailed:
		if m.video != nil {
			b.WriteString(m.viewMetadata() + "\n\n")
			b.WriteString(errorStyle.Render("An error occurred during download: "+m.errorMsg) + "\n")
		} else {
			b.WriteString(errorStyle.Render("Error: "+m.errorMsg) + "\n")
			b.WriteString(warningStyle.Render("Please enter a valid YouTube URL") + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter: try again • q: quit"))
	}

	return b.String() + "\n"
}

func (m Model) viewMetadata() string {
	if m.video == nil {
		return ""
	}
	meta := m.video.Metadata
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(meta.Title),
		fmt.Sprintf("Length: %s minutes", utils.FormatDuration(meta.DurationSeconds)),
		fmt.Sprintf("Views: %s", utils.FormatCount(meta.ViewCount)),
		fmt.Sprintf("Author: %s", meta.Author),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewChoosing() string {
	var b strings.Builder
	b.WriteString(m.viewMetadata() + "\n\n")

	if len(m.options) == 0 {
		b.WriteString(warningStyle.Render("No progressive streams are available for this video") + "\n\n")
		b.WriteString(helpStyle.Render("esc: new URL • q: quit"))
		return b.String()
	}

	b.WriteString("Select video quality\n")
	for i, option := range m.options {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+option.Label) + "\n")
		} else {
			b.WriteString("  " + option.Label + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("↑/↓: select • enter: download video • esc: new URL • q: quit"))
	return b.String()
}
