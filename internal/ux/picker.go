package ux

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickCancelled is returned when the operator leaves the picker without
// choosing a client.
var ErrPickCancelled = errors.New("client selection cancelled")

type clientItem struct {
	client Client
}

func (i clientItem) Title() string { return i.client.Name }
func (i clientItem) Description() string {
	if i.client.Documents == 1 {
		return "1 document"
	}
	return fmt.Sprintf("%d documents", i.client.Documents)
}
func (i clientItem) FilterValue() string { return i.client.Name }

// pickerModel is a filterable list of client folders.
type pickerModel struct {
	list      list.Model
	choice    *Client
	cancelled bool
}

func newPicker(clients []Client) pickerModel {
	items := make([]list.Item, len(clients))
	for i, c := range clients {
		items[i] = clientItem{client: c}
	}
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 60, 16)
	l.Title = "Select a client folder"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		// Keys belong to the filter input while it is focused.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(clientItem); ok {
				c := item.client
				m.choice = &c
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

// PickClient asks the operator to choose one of clients. It reads keys from
// in and draws on out.
func PickClient(ctx context.Context, clients []Client, in io.Reader, out io.Writer) (Client, error) {
	if len(clients) == 0 {
		return Client{}, ErrNoClients
	}

	p := tea.NewProgram(newPicker(clients),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return Client{}, fmt.Errorf("client picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.choice == nil {
		return Client{}, ErrPickCancelled
	}
	return *m.choice, nil
}
