package models

import "strings"

// QuadrantSize is how many slots each board quadrant holds.
const QuadrantSize = 4

// BoardItem is one slot on the priority board: free text plus the
// mood emoji picked next to it.
type BoardItem struct {
	Task  string `json:"task"`
	Emoji string `json:"emoji"`
}

// Board is a user's personal priority matrix, one row per login in the
// board sheet: four quadrants of four tasks, each with an emoji cell.
// Unlike shift tasks, the board is free-form and rewritten wholesale
// on every save.
type Board struct {
	Login    string                  `json:"login"`
	Date     string                  `json:"date"`
	DoLater  [QuadrantSize]BoardItem `json:"do_later"`
	Avoid    [QuadrantSize]BoardItem `json:"avoid"`
	DoFirst  [QuadrantSize]BoardItem `json:"do_first"`
	Delegate [QuadrantSize]BoardItem `json:"delegate"`
}

// Board sheet layout: login, date, a spare role column, then sixteen
// task cells followed by their sixteen emoji cells in the same
// quadrant order.
const (
	boardColLogin     = 0
	boardColDate      = 1
	boardTaskColBase  = 3
	boardEmojiColBase = boardTaskColBase + 4*QuadrantSize
	boardRowWidth     = boardEmojiColBase + 4*QuadrantSize
)

func (b *Board) quadrants() []*[QuadrantSize]BoardItem {
	return []*[QuadrantSize]BoardItem{&b.DoLater, &b.Avoid, &b.DoFirst, &b.Delegate}
}

func BoardFromRow(row []string) Board {
	b := Board{
		Login: strings.ToLower(cell(row, boardColLogin)),
		Date:  cell(row, boardColDate),
	}
	for qi, q := range b.quadrants() {
		for i := 0; i < QuadrantSize; i++ {
			slot := qi*QuadrantSize + i
			q[i].Task = cell(row, boardTaskColBase+slot)
			q[i].Emoji = cell(row, boardEmojiColBase+slot)
		}
	}
	return b
}

func (b Board) ToRow() []string {
	row := make([]string, boardRowWidth)
	row[boardColLogin] = strings.ToLower(b.Login)
	row[boardColDate] = b.Date
	for qi, q := range b.quadrants() {
		for i := 0; i < QuadrantSize; i++ {
			slot := qi*QuadrantSize + i
			row[boardTaskColBase+slot] = q[i].Task
			row[boardEmojiColBase+slot] = q[i].Emoji
		}
	}
	return row
}

// BoardLogin derives the board key from an email: the lower-cased
// local part, matching how board rows have always been keyed.
func BoardLogin(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	return local
}
