// Copyright 2026 The Atelier Authors
// SPDX-License-Identifier: Apache-2.0

package marketui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-foundation/atelier/lib/policy"
	"github.com/atelier-foundation/atelier/marketplace"
)

// Tab identifies which data view is active.
type Tab int

const (
	// TabProjects shows the project marketplace.
	TabProjects Tab = iota
	// TabIdeas shows submitted ideas.
	TabIdeas
	// TabProposals shows either the acting user's proposals or, after
	// entering a project, that project's incoming proposals.
	TabProposals
)

// Source is the slice of the API session the dashboard reads from
// and acts through.
type Source interface {
	Projects(ctx context.Context, filter marketplace.ProjectFilter) ([]marketplace.Project, error)
	Ideas(ctx context.Context, filter marketplace.IdeaFilter) ([]marketplace.Idea, error)
	MyProposals(ctx context.Context) ([]marketplace.Proposal, error)
	ProjectProposals(ctx context.Context, projectID int64) ([]marketplace.Proposal, error)
	DashboardStats(ctx context.Context) (*marketplace.DashboardStats, error)
	DecideProposal(ctx context.Context, proposalID int64, verdict marketplace.Verdict) (*marketplace.Proposal, *marketplace.Project, error)
}

// requestTimeout bounds each async load so a dead server cannot hang
// the dashboard forever.
const requestTimeout = 15 * time.Second

// noticeFadeDelay is how long a transient notice stays in the status
// line.
const noticeFadeDelay = 4 * time.Second

// Messages delivered by async commands. Every load message carries
// the generation it was issued for; stale generations are dropped.
type projectsLoadedMsg struct {
	generation int
	projects   []marketplace.Project
	err        error
}

type ideasLoadedMsg struct {
	generation int
	ideas      []marketplace.Idea
	err        error
}

type proposalsLoadedMsg struct {
	generation int
	proposals  []marketplace.Proposal
	err        error
}

type statsLoadedMsg struct {
	generation int
	stats      *marketplace.DashboardStats
	err        error
}

type decisionDoneMsg struct {
	generation int
	proposal   *marketplace.Proposal
	err        error
}

type noticeFadeMsg struct{}

// Model is the top-level bubbletea model for the dashboard.
type Model struct {
	source Source
	user   *marketplace.User
	theme  Theme
	keys   KeyMap

	width  int
	height int
	ready  bool

	activeTab Tab
	filter    FilterModel

	// Raw data per tab.
	projects  []marketplace.Project
	ideas     []marketplace.Idea
	proposals []marketplace.Proposal
	stats     *marketplace.DashboardStats

	// focusedProject is non-nil when the proposals tab shows a
	// project's incoming proposals instead of the user's own.
	focusedProject *marketplace.Project

	// Visible rows after filtering, with cursor state.
	visible      []ScoredRow
	cursor       int
	scrollOffset int

	loading    map[Tab]bool
	spinner    spinner.Model
	notice     string
	generation int
	quitting   bool
}

// New creates a dashboard model for the given session slice and
// authenticated user.
func New(source Source, user *marketplace.User) Model {
	loadingSpinner := spinner.New()
	loadingSpinner.Spinner = spinner.Dot
	return Model{
		source:  source,
		user:    user,
		theme:   DefaultTheme,
		keys:    DefaultKeyMap,
		loading: map[Tab]bool{},
		spinner: loadingSpinner,
	}
}

// Init starts the initial loads for every tab plus the stats bar.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadProjects(),
		m.loadIdeas(),
		m.loadMyProposals(),
		m.loadStats(),
		m.spinner.Tick,
	)
}

// Update routes messages. After the user quits, data messages are
// discarded — an in-flight response must not mutate a model whose
// program has exited.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case projectsLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading[TabProjects] = false
		if msg.err != nil {
			return m.withNotice(marketplace.ErrorDetail(msg.err, "failed to load projects"))
		}
		m.projects = msg.projects
		m.refreshVisible()
		return m, nil

	case ideasLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading[TabIdeas] = false
		if msg.err != nil {
			return m.withNotice(marketplace.ErrorDetail(msg.err, "failed to load ideas"))
		}
		m.ideas = msg.ideas
		m.refreshVisible()
		return m, nil

	case proposalsLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading[TabProposals] = false
		if msg.err != nil {
			return m.withNotice(marketplace.ErrorDetail(msg.err, "failed to load proposals"))
		}
		m.proposals = msg.proposals
		m.refreshVisible()
		return m, nil

	case statsLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case decisionDoneMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			return m.withNotice(marketplace.ErrorDetail(msg.err, "decision failed"))
		}
		// Re-fetch everything the decision may have changed: the
		// proposal list, the project list (status flipped to
		// in_progress on accept), and the counters.
		model, fade := m.withNotice(fmt.Sprintf("proposal %s", msg.proposal.Status))
		return model, tea.Batch(fade, m.reloadProposals(), m.loadProjects(), m.loadStats())

	case noticeFadeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input mode swallows plain characters.
	if m.filter.Active {
		switch {
		case key.Matches(msg, m.keys.FilterClear):
			m.filter.Clear()
			m.refreshVisible()
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.filter.Active = false
			return m, nil
		case msg.Type == tea.KeyBackspace:
			if m.filter.HandleBackspace() {
				m.refreshVisible()
			}
			return m, nil
		case msg.Type == tea.KeyRunes:
			for _, character := range msg.Runes {
				m.filter.HandleRune(character)
			}
			m.refreshVisible()
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clampScroll()
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.visible) - 1
		m.clampScroll()

	case key.Matches(msg, m.keys.TabProjects):
		return m.switchTab(TabProjects), nil
	case key.Matches(msg, m.keys.TabIdeas):
		return m.switchTab(TabIdeas), nil
	case key.Matches(msg, m.keys.TabProposals):
		// Key 3 always returns to the user's own proposals, leaving
		// any focused project behind.
		m.focusedProject = nil
		model := m.switchTab(TabProposals)
		model.loading[TabProposals] = true
		return model, tea.Batch(model.loadMyProposals(), model.spinner.Tick)

	case key.Matches(msg, m.keys.FilterActivate):
		m.filter.Active = true
		return m, nil
	case key.Matches(msg, m.keys.FilterClear):
		if m.filter.Input != "" {
			m.filter.Clear()
			m.refreshVisible()
		} else if m.focusedProject != nil && m.activeTab == TabProposals {
			m.focusedProject = nil
			m.loading[TabProposals] = true
			return m, tea.Batch(m.loadMyProposals(), m.spinner.Tick)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.reloadAll()

	case msg.Type == tea.KeyEnter:
		return m.enterSelection()

	case key.Matches(msg, m.keys.Accept):
		return m.decideSelection(marketplace.VerdictAccept)
	case key.Matches(msg, m.keys.Reject):
		return m.decideSelection(marketplace.VerdictReject)

	case key.Matches(msg, m.keys.NewIdea):
		if m.activeTab == TabIdeas && policy.CanCreateIdea(m.user) {
			return m.withNotice("run \"atelier idea create\" to submit an idea")
		}
	case key.Matches(msg, m.keys.Propose):
		if project := m.selectedProject(); project != nil && policy.CanPropose(m.user, project) {
			return m.withNotice(fmt.Sprintf("run \"atelier proposal create --project %d\" to bid", project.ID))
		}
	}

	return m, nil
}

// enterSelection drills into the selected project's proposals when
// the policy allows the acting user to see them.
func (m Model) enterSelection() (tea.Model, tea.Cmd) {
	project := m.selectedProject()
	if project == nil || !policy.CanViewProposals(m.user, project) {
		return m, nil
	}
	m.focusedProject = project
	model := m.switchTab(TabProposals)
	model.loading[TabProposals] = true
	return model, tea.Batch(model.loadProjectProposals(project.ID), model.spinner.Tick)
}

// decideSelection accepts or rejects the selected proposal if the
// policy gate is open.
func (m Model) decideSelection(verdict marketplace.Verdict) (tea.Model, tea.Cmd) {
	proposal := m.selectedProposal()
	if proposal == nil || !policy.CanDecideProposal(m.user, m.focusedProject, proposal) {
		return m, nil
	}
	generation := m.generation
	source := m.source
	proposalID := proposal.ID
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		decided, _, err := source.DecideProposal(ctx, proposalID, verdict)
		return decisionDoneMsg{generation: generation, proposal: decided, err: err}
	}
}

func (m Model) switchTab(tab Tab) Model {
	m.activeTab = tab
	m.cursor = 0
	m.scrollOffset = 0
	m.filter.Clear()
	m.refreshVisible()
	return m
}

func (m Model) reloadAll() (tea.Model, tea.Cmd) {
	m.generation++
	for _, tab := range []Tab{TabProjects, TabIdeas, TabProposals} {
		m.loading[tab] = true
	}
	return m, tea.Batch(
		m.loadProjects(),
		m.loadIdeas(),
		m.reloadProposals(),
		m.loadStats(),
		m.spinner.Tick,
	)
}

// reloadProposals reloads whichever proposal set the tab currently
// shows.
func (m Model) reloadProposals() tea.Cmd {
	if m.focusedProject != nil {
		return m.loadProjectProposals(m.focusedProject.ID)
	}
	return m.loadMyProposals()
}

func (m Model) loadProjects() tea.Cmd {
	generation := m.generation
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		projects, err := source.Projects(ctx, marketplace.ProjectFilter{})
		return projectsLoadedMsg{generation: generation, projects: projects, err: err}
	}
}

func (m Model) loadIdeas() tea.Cmd {
	generation := m.generation
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ideas, err := source.Ideas(ctx, marketplace.IdeaFilter{})
		return ideasLoadedMsg{generation: generation, ideas: ideas, err: err}
	}
}

func (m Model) loadMyProposals() tea.Cmd {
	generation := m.generation
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		proposals, err := source.MyProposals(ctx)
		return proposalsLoadedMsg{generation: generation, proposals: proposals, err: err}
	}
}

func (m Model) loadProjectProposals(projectID int64) tea.Cmd {
	generation := m.generation
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		proposals, err := source.ProjectProposals(ctx, projectID)
		return proposalsLoadedMsg{generation: generation, proposals: proposals, err: err}
	}
}

func (m Model) loadStats() tea.Cmd {
	generation := m.generation
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stats, err := source.DashboardStats(ctx)
		return statsLoadedMsg{generation: generation, stats: stats, err: err}
	}
}

// tabRows returns the raw rows for the active tab.
func (m *Model) tabRows() []Row {
	switch m.activeTab {
	case TabProjects:
		rows := make([]Row, len(m.projects))
		for index := range m.projects {
			rows[index] = Row{Project: &m.projects[index]}
		}
		return rows
	case TabIdeas:
		rows := make([]Row, len(m.ideas))
		for index := range m.ideas {
			rows[index] = Row{Idea: &m.ideas[index]}
		}
		return rows
	case TabProposals:
		rows := make([]Row, len(m.proposals))
		for index := range m.proposals {
			rows[index] = Row{Proposal: &m.proposals[index]}
		}
		return rows
	}
	return nil
}

// refreshVisible recomputes the filtered row set and clamps the
// cursor into it.
func (m *Model) refreshVisible() {
	m.visible = m.filter.ApplyFuzzy(m.tabRows())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	height := m.listHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+height {
		m.scrollOffset = m.cursor - height + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// listHeight is the number of rows the list pane can show: total
// height minus header, stats, filter, and footer lines.
func (m Model) listHeight() int {
	height := m.height - 4
	if m.filter.Active || m.filter.Input != "" {
		height--
	}
	if height < 1 {
		height = 1
	}
	return height
}

func (m Model) selectedRow() *Row {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor].Row
}

func (m Model) selectedProject() *marketplace.Project {
	if m.activeTab != TabProjects {
		return nil
	}
	if row := m.selectedRow(); row != nil {
		return row.Project
	}
	return nil
}

func (m Model) selectedProposal() *marketplace.Proposal {
	if m.activeTab != TabProposals {
		return nil
	}
	if row := m.selectedRow(); row != nil {
		return row.Proposal
	}
	return nil
}

func (m Model) anyLoading() bool {
	for _, loading := range m.loading {
		if loading {
			return true
		}
	}
	return false
}

func (m Model) withNotice(notice string) (Model, tea.Cmd) {
	m.notice = notice
	return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// View renders the whole dashboard.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	if m.quitting {
		return ""
	}

	var view strings.Builder
	view.WriteString(m.renderTabs() + "\n")
	view.WriteString(m.renderStats() + "\n")

	if filterBar := m.filter.View(m.theme, m.width); filterBar != "" {
		view.WriteString(filterBar + "\n")
	}

	listWidth := m.width * 45 / 100
	detailWidth := m.width - listWidth - 1

	listPane := m.renderList(listWidth)
	detailPane := m.renderDetail(detailWidth)
	divider := lipgloss.NewStyle().
		Foreground(m.theme.BorderColor).
		Render(strings.TrimRight(strings.Repeat("│\n", m.listHeight()), "\n"))

	view.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listPane, divider, detailPane))
	view.WriteString("\n" + m.renderFooter())
	return view.String()
}

func (m Model) renderTabs() string {
	titles := []string{"Projects", "Ideas", "My Proposals"}
	if m.focusedProject != nil {
		titles[TabProposals] = fmt.Sprintf("Proposals: %s", m.focusedProject.Title)
	}

	activeStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(m.theme.FaintText)

	var parts []string
	for index, title := range titles {
		label := fmt.Sprintf(" %d:%s ", index+1, title)
		if Tab(index) == m.activeTab {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}
	if m.anyLoading() {
		parts = append(parts, m.spinner.View())
	}
	return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).
		Render(strings.Join(parts, " "))
}

func (m Model) renderStats() string {
	style := lipgloss.NewStyle().
		Foreground(m.theme.FaintText).
		Width(m.width).
		MaxWidth(m.width)

	identity := fmt.Sprintf(" %s (%s)", m.user.FullName, m.user.Role)
	if m.stats == nil {
		return style.Render(identity)
	}
	return style.Render(fmt.Sprintf("%s — ideas:%d projects:%d proposals:%d completed:%d",
		identity,
		m.stats.IdeasCount,
		m.stats.ProjectsCount,
		m.stats.ProposalsCount,
		m.stats.CompletedProjects,
	))
}

func (m Model) renderList(width int) string {
	height := m.listHeight()
	renderer := NewListRenderer(m.theme, width)

	var lines []string
	for index := m.scrollOffset; index < len(m.visible) && len(lines) < height; index++ {
		scored := m.visible[index]
		lines = append(lines, renderer.RenderRow(scored.Row, index == m.cursor, scored.Positions))
	}
	for len(lines) < height {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(""))
	}
	return strings.Join(lines, "\n")
}

// renderDetail shows the selected entity: title, status line, and the
// markdown-rendered description.
func (m Model) renderDetail(width int) string {
	row := m.selectedRow()
	if row == nil {
		return lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Width(width).
			Height(m.listHeight()).
			Render(" nothing selected")
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	faintStyle := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	var detail strings.Builder
	detail.WriteString(titleStyle.Render(row.Title()) + "\n")

	statusLine := fmt.Sprintf("#%d  %s", row.ID(), row.Status())
	if amount := row.Amount(); amount != nil {
		statusLine += fmt.Sprintf("  $%.2f", *amount)
	}
	detail.WriteString(faintStyle.Render(statusLine) + "\n\n")

	description := ""
	switch {
	case row.Project != nil:
		description = row.Project.Description
	case row.Idea != nil:
		description = row.Idea.Description
	case row.Proposal != nil:
		description = row.Proposal.CoverLetter
	}
	if description != "" {
		detail.WriteString(renderTerminalMarkdown(description, m.theme, width-2))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(m.listHeight()).
		MaxHeight(m.listHeight()).
		PaddingLeft(1).
		Render(detail.String())
}

// renderFooter shows navigation help plus the policy-gated action
// keys for the current selection.
func (m Model) renderFooter() string {
	style := lipgloss.NewStyle().
		Foreground(m.theme.HelpText).
		Width(m.width).
		MaxWidth(m.width)

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().
			Foreground(m.theme.HeaderForeground).
			Width(m.width).
			MaxWidth(m.width)
		return noticeStyle.Render(" " + m.notice)
	}

	parts := []string{"j/k move", "1-3 tabs", "/ filter", "r refresh", "q quit"}
	for _, action := range m.availableActions() {
		parts = append(parts, action)
	}
	return style.Render(" " + strings.Join(parts, " · "))
}

// availableActions returns the footer labels for actions the policy
// engine currently permits. Gates are re-evaluated on every render
// against the freshest snapshots, so a status change re-fetched from
// the server flips the footer immediately.
func (m Model) availableActions() []string {
	var actions []string

	switch m.activeTab {
	case TabIdeas:
		if policy.CanCreateIdea(m.user) {
			actions = append(actions, "n new idea")
		}
	case TabProjects:
		project := m.selectedProject()
		if policy.CanPropose(m.user, project) {
			actions = append(actions, "p propose")
		}
		if project != nil && policy.CanViewProposals(m.user, project) {
			actions = append(actions, "enter proposals")
		}
	case TabProposals:
		proposal := m.selectedProposal()
		if policy.CanDecideProposal(m.user, m.focusedProject, proposal) {
			actions = append(actions, "a accept", "x reject")
		}
	}
	return actions
}
