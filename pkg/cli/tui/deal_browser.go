package tui

import (
	"fmt"
	"strings"

	"deal-notifier-go/pkg/cli/deals"
	"deal-notifier-go/pkg/items"
	"deal-notifier-go/pkg/models"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// dealBrowser shows a list of deals through a search box and a sort order.
// The list it is given is never modified; every change of query, order or
// content re-projects it.
type dealBrowser struct {
	all       []models.Item
	shown     []models.Item
	view      items.View
	search    textinput.Model
	searching bool
	table     table.Model
	width     int
}

func newDealBrowser(noColor bool) dealBrowser {
	search := textinput.New()
	search.Placeholder = "title contains..."
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 30

	t := table.New(
		table.WithColumns(dealColumns(80)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles(noColor))

	return dealBrowser{
		view:   items.View{Sort: items.SortNone},
		search: search,
		table:  t,
		width:  80,
	}
}

// dealColumns splits the available width between title, price and URL
func dealColumns(width int) []table.Column {
	if width < 40 {
		width = 40
	}
	price := 12
	title := (width - price) * 45 / 100
	url := width - price - title - 6
	if url < 10 {
		url = 10
	}
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Price", Width: price},
		{Title: "URL", Width: url},
	}
}

// SetItems replaces the deals being browsed
func (b *dealBrowser) SetItems(all []models.Item) {
	b.all = all
	b.refresh()
}

// SetSize fits the table into width x height cells
func (b *dealBrowser) SetSize(width, height int) {
	b.width = width
	b.table.SetColumns(dealColumns(width))
	b.table.SetWidth(width)
	b.table.SetHeight(max(height, 3))
}

// Searching reports whether the search box has the keyboard
func (b *dealBrowser) Searching() bool {
	return b.searching
}

// Selected returns the highlighted deal
func (b *dealBrowser) Selected() (models.Item, bool) {
	i := b.table.Cursor()
	if i < 0 || i >= len(b.shown) {
		return models.Item{}, false
	}
	return b.shown[i], true
}

// Shown returns the deals currently listed
func (b *dealBrowser) Shown() []models.Item {
	return b.shown
}

func (b *dealBrowser) refresh() {
	b.shown = b.view.Apply(b.all)
	rows := make([]table.Row, 0, len(b.shown))
	for _, it := range b.shown {
		rows = append(rows, table.Row{
			deals.GetTitle(it),
			it.DisplayPrice(),
			it.URL,
		})
	}
	b.table.SetRows(rows)
	if b.table.Cursor() >= len(rows) {
		b.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Update handles a key. It returns a command and whether the key was used.
func (b *dealBrowser) Update(msg tea.KeyMsg) (tea.Cmd, bool) {
	if b.searching {
		switch msg.String() {
		case "enter":
			b.searching = false
			b.search.Blur()
			return nil, true
		case "esc":
			b.searching = false
			b.search.Blur()
			b.search.SetValue("")
			b.view.Query = ""
			b.refresh()
			return nil, true
		}
		var cmd tea.Cmd
		b.search, cmd = b.search.Update(msg)
		if b.search.Value() != b.view.Query {
			b.view.Query = b.search.Value()
			b.refresh()
		}
		return cmd, true
	}

	switch msg.String() {
	case "/":
		b.searching = true
		return b.search.Focus(), true
	case "o":
		b.view.Sort = b.view.Sort.Next()
		b.refresh()
		return nil, true
	case "c":
		b.search.SetValue("")
		b.view.Query = ""
		b.refresh()
		return nil, true
	case "up", "down", "k", "j", "pgup", "pgdown", "home", "end", "g", "G":
		var cmd tea.Cmd
		b.table, cmd = b.table.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (b *dealBrowser) View() string {
	var s strings.Builder

	if b.searching || b.view.Query != "" {
		s.WriteString(b.search.View())
	} else {
		s.WriteString(mutedStyle.Render("Press / to search"))
	}
	s.WriteString("   ")
	s.WriteString(fieldLabelStyle.Render("Sort:"))
	s.WriteString(b.view.Sort.Label())
	s.WriteString("   ")
	s.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d", len(b.shown), len(b.all))))
	s.WriteString("\n\n")

	switch {
	case len(b.all) == 0:
		s.WriteString(renderEmptyState("No deals found yet."))
	case len(b.shown) == 0:
		s.WriteString(renderEmptyState(fmt.Sprintf("No deals match %q.", b.view.Query)))
	default:
		s.WriteString(b.table.View())
		s.WriteString("\n")
	}
	return s.String()
}
