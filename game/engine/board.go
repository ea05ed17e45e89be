package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration is returned when a board string fails validation
var ErrInvalidConfiguration = errors.New("invalid board configuration")

// BoardRule is one independent check applied to a tokenized board string
type BoardRule struct {
	Name  string
	Check func(tokens []string) bool
}

// BoardRules are the checks a board must pass, in reporting order
var BoardRules = []BoardRule{
	{Name: "token count", Check: HasTokenCount},
	{Name: "token length", Check: HasValidTokenLengths},
	{Name: "goal marker placement", Check: HasValidMarkers},
	{Name: "single goal piece", Check: HasSingleGoal},
	{Name: "interior bounds", Check: CoordinatesInBounds},
	{Name: "duplicate placement", Check: HasNoDuplicates},
}

// Tokenize splits a board string on whitespace
func Tokenize(board string) []string {
	return strings.Fields(board)
}

// HasTokenCount checks the board has exactly BoardTokenCount tokens
func HasTokenCount(tokens []string) bool {
	return len(tokens) == BoardTokenCount
}

// HasValidTokenLengths checks every token is 2 or 3 characters long
func HasValidTokenLengths(tokens []string) bool {
	for _, tok := range tokens {
		if len(tok) != 2 && len(tok) != 3 {
			return false
		}
	}
	return true
}

// HasValidMarkers checks that a goal marker only ever appears as the
// third character, and that every 3-character token carries one.
func HasValidMarkers(tokens []string) bool {
	for _, tok := range tokens {
		idx := strings.IndexAny(tok, "Rr")
		switch len(tok) {
		case 3:
			if idx != 2 {
				return false
			}
		default:
			if idx >= 0 {
				return false
			}
		}
	}
	return true
}

// HasSingleGoal checks exactly one token carries the goal marker
func HasSingleGoal(tokens []string) bool {
	goals := 0
	for _, tok := range tokens {
		if isGoalToken(tok) {
			goals++
		}
	}
	return goals == 1
}

// CoordinatesInBounds checks that every token starts with two digits that
// address the playable interior. Scanning stops at the first failure.
func CoordinatesInBounds(tokens []string) bool {
	for _, tok := range tokens {
		row, col, ok := tokenCoordinates(tok)
		if !ok {
			return false
		}
		if row < InteriorMin || row > InteriorMax || col < InteriorMin || col > InteriorMax {
			return false
		}
	}
	return true
}

// HasNoDuplicates checks no two tokens address the same cell
func HasNoDuplicates(tokens []string) bool {
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			if len(tokens[i]) < 2 || len(tokens[j]) < 2 {
				continue
			}
			if tokens[i][:2] == tokens[j][:2] {
				return false
			}
		}
	}
	return true
}

// ValidateBoard runs every rule and reports the first one that fails
func ValidateBoard(board string) error {
	tokens := Tokenize(board)
	for _, rule := range BoardRules {
		if !rule.Check(tokens) {
			return fmt.Errorf("%w: %q fails %s check", ErrInvalidConfiguration, board, rule.Name)
		}
	}
	return nil
}

// IsValidBoard reports whether a board string passes every rule
func IsValidBoard(board string) bool {
	return ValidateBoard(board) == nil
}

// FailedRules returns the names of every rule the board fails
func FailedRules(board string) []string {
	tokens := Tokenize(board)
	var failed []string
	for _, rule := range BoardRules {
		if !rule.Check(tokens) {
			failed = append(failed, rule.Name)
		}
	}
	return failed
}

// ParseBoard validates a board string and converts it to placements
func ParseBoard(board string) ([]Placement, error) {
	if err := ValidateBoard(board); err != nil {
		return nil, err
	}

	tokens := Tokenize(board)
	placements := make([]Placement, 0, len(tokens))
	for _, tok := range tokens {
		row, col, _ := tokenCoordinates(tok)
		placements = append(placements, Placement{
			Row:  row,
			Col:  col,
			Goal: isGoalToken(tok),
		})
	}
	return placements, nil
}

// FormatBoard renders placements back into a canonical board string
func FormatBoard(placements []Placement) string {
	tokens := make([]string, 0, len(placements))
	for _, p := range placements {
		tok := fmt.Sprintf("%d%d", p.Row, p.Col)
		if p.Goal {
			tok += string(GoalMarker)
		}
		tokens = append(tokens, tok)
	}
	return strings.Join(tokens, " ")
}

func isGoalToken(tok string) bool {
	return len(tok) == 3 && (tok[2] == 'R' || tok[2] == 'r')
}

func tokenCoordinates(tok string) (int, int, bool) {
	if len(tok) < 2 || !isDigit(tok[0]) || !isDigit(tok[1]) {
		return 0, 0, false
	}
	return int(tok[0] - '0'), int(tok[1] - '0'), true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
