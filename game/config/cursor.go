package config

import (
	"github.com/wricardo/roundup/game/service"
)

// Cursor tracks a position in the catalog. It is owned by a single session
// and is not safe for concurrent use.
type Cursor struct {
	catalog *Manager
	current *service.BoardInfo
}

// Current returns the board the cursor points at
func (c *Cursor) Current() *service.BoardInfo {
	info := *c.current
	return &info
}

// Select moves the cursor to catalog board number
func (c *Cursor) Select(number int) (*service.BoardInfo, error) {
	board, err := c.catalog.Board(number)
	if err != nil {
		return nil, err
	}
	c.current = board
	return c.Current(), nil
}

// Next advances to the following catalog board, wrapping from the last
// board (or from a custom board) back to board 1
func (c *Cursor) Next() *service.BoardInfo {
	next := c.current.Number + 1
	if c.current.Custom || next > c.catalog.Count() {
		next = 1
	}
	board, _ := c.catalog.Board(next)
	c.current = board
	return c.Current()
}

// SetCustom installs a validated free-form layout as board 0. An invalid
// layout leaves the cursor where it was.
func (c *Cursor) SetCustom(layout string) (*service.BoardInfo, error) {
	board, err := CustomBoard(layout)
	if err != nil {
		return nil, err
	}
	c.current = board
	return c.Current(), nil
}
