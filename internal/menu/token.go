package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentic-research/faqtree/internal/graph"
)

var ErrInvalidToken = errors.New("invalid callback token")

// Action is what a button asks the navigator to do.
type Action int

const (
	ActionGo Action = iota
	ActionBack
)

const (
	goPrefix   = "go_by_id:"
	backPrefix = "back_by_id:"
)

// Token is the decoded form of a button's callback data.
type Token struct {
	Action Action
	ID     graph.ID
}

// GoTo returns the callback data that opens id.
func GoTo(id graph.ID) string { return goPrefix + strconv.Itoa(int(id)) }

// Back returns the callback data that opens the parent of id.
func Back(id graph.ID) string { return backPrefix + strconv.Itoa(int(id)) }

func (t Token) String() string {
	if t.Action == ActionBack {
		return Back(t.ID)
	}
	return GoTo(t.ID)
}

// ParseToken decodes callback data produced by GoTo or Back.
func ParseToken(s string) (Token, error) {
	var (
		tok  Token
		rest string
	)
	switch {
	case strings.HasPrefix(s, goPrefix):
		tok.Action, rest = ActionGo, strings.TrimPrefix(s, goPrefix)
	case strings.HasPrefix(s, backPrefix):
		tok.Action, rest = ActionBack, strings.TrimPrefix(s, backPrefix)
	default:
		return Token{}, fmt.Errorf("%w: %q", ErrInvalidToken, s)
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %q: %w", ErrInvalidToken, s, err)
	}
	tok.ID = graph.ID(id)
	return tok, nil
}
