package download

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/services/downloader"
	"github.com/denisAlshanov/vidgrab/internal/utils"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 0 && w < 80 {
			m.progress.Width = w
		}
		return m, nil

	case resolvedMsg:
		// Stale result from a URL the user has since replaced
		if m.state != stateResolving || msg.url != m.url {
			return m, nil
		}
		if msg.err != nil {
			utils.LogWarn(m.ctx, "Failed to resolve video", utils.Fields{
				"url":   msg.url,
				"error": msg.err.Error(),
			})
			m.state = stateFailed
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.video = msg.video
		m.options = downloader.QualityOptions(msg.video.Streams)
		m.cursor = 0
		m.state = stateChoosing
		return m, nil

	case progressMsg:
		if m.state != stateDownloading {
			return m, nil
		}
		m.current = msg.progress
		return m, waitForEvent(m.events)

	case downloadDoneMsg:
		if m.state != stateDownloading {
			return m, nil
		}
		m.events = nil
		m.current = models.DownloadProgress{}
		if msg.err != nil {
			m.state = stateFailed
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.result = msg.result
		m.state = stateDone
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == stateInput {
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateInput:
		return m.handleInputKeys(msg)
	case stateChoosing:
		return m.handleChoosingKeys(msg)
	case stateDone, stateFailed:
		switch msg.String() {
		case "q", "esc":
			return m.quit()
		case "enter", "n":
			return m.reset(), textinput.Blink
		}
	}

	return m, nil
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.quit()
	case "enter":
		url := strings.TrimSpace(m.urlInput.Value())
		if url == "" {
			return m, nil
		}
		m.url = url
		m.video = nil
		m.options = nil
		m.errorMsg = ""
		m.state = stateResolving
		return m, tea.Batch(resolveVideo(m.ctx, m.resolver, url), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m Model) handleChoosingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc":
		return m.reset(), textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter", "d":
		stream, ok := m.selectedStream()
		if !ok {
			return m, nil
		}
		m.state = stateDownloading
		m.result = nil
		m.current = models.DownloadProgress{}
		m.events = startDownload(m.ctx, m.downloader, stream)
		return m, waitForEvent(m.events)
	}
	return m, nil
}

// reset returns to the URL prompt, keeping the last URL for editing.
func (m Model) reset() Model {
	m.state = stateInput
	m.video = nil
	m.options = nil
	m.cursor = 0
	m.result = nil
	m.errorMsg = ""
	m.urlInput.Focus()
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}
