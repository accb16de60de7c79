package pages

import (
	"sort"
	"strconv"
	"strings"

	"library/internal/types"
)

// Filter keeps books whose title or author contains query, ignoring case.
// An empty query keeps everything.
func Filter(rows []*types.Book, query string) []*types.Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Title), query) ||
			strings.Contains(strings.ToLower(row.Author), query) {
			ret = append(ret, row)
		}
	}

	return ret
}

type GenreCount struct {
	Genre string
	Count int
}

// GroupByGenre counts books per distinct genre, most frequent first.
// Ties keep the order in which genres were first seen.
func GroupByGenre(rows []*types.Book) []GenreCount {
	ix := make(map[string]int)
	var ret []GenreCount

	for _, row := range rows {
		if i, ok := ix[row.Genre]; ok {
			ret[i].Count++
			continue
		}

		ix[row.Genre] = len(ret)
		ret = append(ret, GenreCount{Genre: row.Genre, Count: 1})
	}

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Count > ret[j].Count
	})

	return ret
}

func SelectorLabel(b *types.Book) string {
	return strconv.FormatInt(b.Id, 10) + " - " + b.Title
}

// SelectorOptions builds the book selector and returns the selected book.
// The first book is selected when selectedId is not listed.
func SelectorOptions(rows []*types.Book, selectedId int64) ([]Option, *types.Book) {
	if len(rows) == 0 {
		return nil, nil
	}

	selected := rows[0]
	for _, row := range rows {
		if row.Id == selectedId {
			selected = row
			break
		}
	}

	opts := make([]Option, 0, len(rows))
	for _, row := range rows {
		opts = append(opts, Option{
			Id:       row.Id,
			Label:    SelectorLabel(row),
			Selected: row == selected,
		})
	}

	return opts, selected
}
