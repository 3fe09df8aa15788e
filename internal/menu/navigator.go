package menu

import (
	"fmt"

	"github.com/agentic-research/faqtree/internal/graph"
)

// Reply is what the chat surface sends back for one user action.
type Reply = Menu

// Navigator answers start, go and back requests. Every reply is computed
// from a single snapshot of the store.
type Navigator struct {
	store  *graph.Store
	labels Labels
}

func NewNavigator(store *graph.Store, labels Labels) *Navigator {
	return &Navigator{store: store, labels: labels}
}

// Start is the greeting followed by the root menu.
func (n *Navigator) Start() Reply {
	return n.start(n.store.Snapshot())
}

func (n *Navigator) start(ds *graph.DataSet) Reply {
	m, err := Render(ds, graph.RootID, n.labels)
	if err != nil {
		// A verified data set always has a root list.
		return Reply{Text: ds.Texts.Start}
	}
	return Reply{Text: ds.Texts.Start + "\n\n" + m.Text, Rows: m.Rows}
}

// Go opens id: the root or a category shows its menu, a question shows its
// answer with a back/home row.
func (n *Navigator) Go(id graph.ID) (Reply, error) {
	ds := n.store.Snapshot()
	if id.IsQuestion() {
		q, ok := ds.Question(id)
		if !ok {
			return Reply{}, fmt.Errorf("%w: %d", ErrUnknownNode, id)
		}
		return Reply{
			Text: quote(q.Question) + "\n\n" + q.Answer,
			Rows: [][]Button{navRow(id, n.labels)},
		}, nil
	}
	return n.categoryMenu(ds, id)
}

// Back opens the menu of the category enclosing id. Ids that are no longer
// known lead back to the root.
func (n *Navigator) Back(id graph.ID) (Reply, error) {
	ds := n.store.Snapshot()
	return n.categoryMenu(ds, ds.FindParent(id))
}

func (n *Navigator) categoryMenu(ds *graph.DataSet, id graph.ID) (Reply, error) {
	m, err := Render(ds, id, n.labels)
	if err != nil {
		return Reply{}, err
	}
	text := ds.Texts.Select + "\n\n" + m.Text
	if id != graph.RootID {
		c, _ := ds.Category(id)
		text = quote(c.Name) + "\n\n" + text
	}
	return Reply{Text: text, Rows: m.Rows}, nil
}

// Unknown tells the user the input was not understood and shows the start
// menu again.
func (n *Navigator) Unknown() Reply {
	ds := n.store.Snapshot()
	start := n.start(ds)
	return Reply{Text: ds.Texts.Unknown + "\n\n" + start.Text, Rows: start.Rows}
}

// Handle dispatches callback data. Malformed tokens and ids that vanished
// with a data update fall back to Unknown.
func (n *Navigator) Handle(data string) Reply {
	tok, err := ParseToken(data)
	if err != nil {
		return n.Unknown()
	}
	var reply Reply
	switch tok.Action {
	case ActionBack:
		reply, err = n.Back(tok.ID)
	default:
		reply, err = n.Go(tok.ID)
	}
	if err != nil {
		return n.Unknown()
	}
	return reply
}
