package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentic-research/faqtree/internal/graph"
)

var ErrUnknownNode = errors.New("unknown node")

const buttonsPerRow = 3

// Button is one selectable entry. Token is the callback data sent back when
// the button is pressed.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Menu is the numbered listing of a node's children with its keyboard.
type Menu struct {
	Text string     `json:"text"`
	Rows [][]Button `json:"rows,omitempty"`
}

// Labels are the captions of the navigation buttons.
type Labels struct {
	Back string
	Home string
}

func DefaultLabels() Labels {
	return Labels{Back: "⬅️ Назад", Home: "⏺️ Главная"}
}

// Render lists the children of parent. Each child gets a numbered line and a
// button, three buttons per row. Menus below the root that list anything end
// with a back/home row.
func Render(ds *graph.DataSet, parent graph.ID, labels Labels) (Menu, error) {
	refs, ok := ds.Children(parent)
	if !ok {
		return Menu{}, fmt.Errorf("%w: %d", ErrUnknownNode, parent)
	}

	var (
		text strings.Builder
		rows [][]Button
	)
	for i, ref := range refs {
		name, err := ds.Name(ref.ID)
		if err != nil {
			return Menu{}, fmt.Errorf("%w: %d", ErrUnknownNode, ref.ID)
		}
		icon := "🏷"
		if ref.ID.IsQuestion() {
			icon = "❔"
		}
		n := i + 1
		fmt.Fprintf(&text, "%d. %s %s\n\n", n, icon, name)

		btn := Button{Label: NumberToEmojis(n), Token: GoTo(ref.ID)}
		if i%buttonsPerRow == 0 {
			rows = append(rows, []Button{btn})
		} else {
			rows[len(rows)-1] = append(rows[len(rows)-1], btn)
		}
	}

	if len(rows) > 0 && parent != graph.RootID {
		rows = append(rows, navRow(parent, labels))
	}
	return Menu{Text: text.String(), Rows: rows}, nil
}

func navRow(from graph.ID, labels Labels) []Button {
	return []Button{
		{Label: labels.Back, Token: Back(from)},
		{Label: labels.Home, Token: GoTo(graph.RootID)},
	}
}

const keycap = "\uFE0F\u20E3"

// NumberToEmojis spells n with keycap digit emojis.
func NumberToEmojis(n int) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		b.WriteRune(r)
		if r >= '0' && r <= '9' {
			b.WriteString(keycap)
		}
	}
	return b.String()
}

// quote renders s as a block quote.
func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
