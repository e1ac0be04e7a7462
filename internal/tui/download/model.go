package download

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denisAlshanov/vidgrab/internal/models"
	"github.com/denisAlshanov/vidgrab/internal/services/downloader"
	"github.com/denisAlshanov/vidgrab/internal/services/youtube"
)

// Downloader transfers one stream to local disk.
type Downloader interface {
	Download(ctx context.Context, stream models.StreamOption, onProgress downloader.ProgressFunc) (*models.DownloadResult, error)
}

// state is the screen currently shown
type state int

const (
	stateInput state = iota
	stateResolving
	stateChoosing
	stateDownloading
	stateDone
	stateFailed
)

// Model is the Bubbletea model for the downloader
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	// Dependencies
	resolver   youtube.Resolver
	downloader Downloader

	// Navigation
	state    state
	width    int
	quitting bool

	// Components
	urlInput textinput.Model
	spinner  spinner.Model
	progress progress.Model

	// State
	url      string
	video    *models.Video
	options  []models.QualityOption
	cursor   int
	events   <-chan tea.Msg
	current  models.DownloadProgress
	result   *models.DownloadResult
	errorMsg string
}

// NewModel creates a downloader TUI model. Cancelling ctx aborts any
// running resolution or download.
func NewModel(ctx context.Context, resolver youtube.Resolver, dl Downloader) Model {
	ctx, cancel := context.WithCancel(ctx)

	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/watch?v=..."
	urlInput.Focus()
	urlInput.CharLimit = 512
	urlInput.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:        ctx,
		cancel:     cancel,
		resolver:   resolver,
		downloader: dl,
		state:      stateInput,
		urlInput:   urlInput,
		spinner:    s,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// selectedStream returns the stream behind the highlighted option.
func (m Model) selectedStream() (models.StreamOption, bool) {
	if m.video == nil || m.cursor < 0 || m.cursor >= len(m.options) {
		return models.StreamOption{}, false
	}
	return downloader.FindStream(m.video.Streams, m.options[m.cursor].ID)
}
