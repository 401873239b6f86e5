package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zoobzio/treehouse"
	"github.com/zoobzio/treehouse/host"
	"github.com/zoobzio/treehouse/tree"
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

// docMsg carries a decoded state document from the feed goroutine.
type docMsg struct {
	prev tree.Document
	curr tree.Document
}

type feedStartedMsg struct {
	err error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	ctx      context.Context
	cfg      Config
	app      *tree.App
	page     *host.Component
	renderer *host.Renderer
	feed     *tree.Feed
	docs     chan docMsg
	keys     keymap
	status   *statusLog

	mounted bool
	err     error
	width   int
}

// newModel wires the store, the component tree and the state file feed.
// Documents are committed on the UI goroutine, never on the feed's.
func newModel(ctx context.Context, cfg Config, status *statusLog) model {
	app := tree.New()
	registerActions(app)

	keys := keymap{}
	page := newPage(app, keys)
	m := model{
		ctx:      ctx,
		cfg:      cfg,
		app:      app,
		page:     page,
		renderer: host.New(page, treehouse.Props{"source": cfg.State}),
		docs:     make(chan docMsg),
		keys:     keys,
		status:   status,
	}
	m.feed = tree.NewFeed(tree.NewFileWatcher(cfg.State), m.forward).
		Codec(cfg.codec()).
		Debounce(cfg.Debounce)
	return m
}

// forward hands a document to the UI loop.
func (m model) forward(ctx context.Context, prev, curr tree.Document) error {
	select {
	case m.docs <- docMsg{prev: prev, curr: curr}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m model) waitForDoc() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.docs:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m model) startFeed() tea.Cmd {
	return func() tea.Msg {
		return feedStartedMsg{err: m.feed.Start(m.ctx)}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.startFeed(), m.waitForDoc())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case feedStartedMsg:
		if msg.err != nil {
			m.status.add("load failed: %v", msg.err)
		}
		return m, nil
	case docMsg:
		return m.handleDoc(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleDoc commits a document and mounts the page on the first one.
func (m model) handleDoc(msg docMsg) (tea.Model, tea.Cmd) {
	var err error
	batchErr := m.renderer.Batch(m.ctx, func() {
		err = tree.CommitTo(m.app)(m.ctx, msg.prev, msg.curr)
	})
	m.err = firstErr(err, batchErr)
	if !m.mounted && err == nil {
		if mountErr := m.renderer.Mount(m.ctx); mountErr != nil {
			m.err = mountErr
		} else {
			m.mounted = true
		}
	}
	return m, m.waitForDoc()
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.renderer.Unmount(m.ctx)
		return m, tea.Quit
	}
	h, ok := m.keys[msg.String()]
	if !ok {
		return m, nil
	}
	var err error
	batchErr := m.renderer.Batch(m.ctx, func() {
		err = h()
	})
	m.err = firstErr(err, batchErr)
	return m, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m model) View() string {
	if !m.mounted {
		return statusStyle.Render(fmt.Sprintf("loading %s...", m.cfg.State))
	}

	var b strings.Builder
	b.WriteString(bodyStyle.Render(m.body()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	for _, line := range m.status.recent() {
		b.WriteString(statusStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("+/- count  0 reset  a add  e empty  q quit"))
	return b.String()
}

// body renders the page's text with the title highlighted.
func (m model) body() string {
	text := m.renderer.PlainText()
	title, rest, _ := strings.Cut(text, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), rest)
}
