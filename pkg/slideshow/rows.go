package slideshow

import (
	"fmt"
	"strconv"
)

// Row is what an editor shows and edits: a file name and the duration text as typed.
type Row struct {
	Name     string
	Duration string
}

func Rows(slides []Slide) []Row {
	rows := make([]Row, 0, len(slides))
	for _, s := range slides {
		rows = append(rows, Row{Name: s.Name(), Duration: FormatDuration(s.Duration)})
	}
	return rows
}

func checkIndex(rows []Row, i int) error {
	if i < 0 || i >= len(rows) {
		return fmt.Errorf("row %d out of range [1, %d]", i+1, len(rows))
	}
	return nil
}

// Find locates a row by its 1-based position or by name.
func Find(rows []Row, key string) (int, error) {
	if n, err := strconv.Atoi(key); err == nil {
		if err := checkIndex(rows, n-1); err != nil {
			return -1, err
		}
		return n - 1, nil
	}
	for i, row := range rows {
		if row.Name == key {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no row named %q", key)
}

// SetDuration replaces the duration text of row i. The text is kept as typed;
// it gets parsed when the rows are resolved.
func SetDuration(rows []Row, i int, text string) error {
	if err := checkIndex(rows, i); err != nil {
		return err
	}
	rows[i].Duration = text
	return nil
}

// Move takes the row at from out and reinserts it at to.
func Move(rows []Row, from, to int) error {
	if err := checkIndex(rows, from); err != nil {
		return err
	}
	if err := checkIndex(rows, to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	row := rows[from]
	if from < to {
		copy(rows[from:to], rows[from+1:to+1])
	} else {
		copy(rows[to+1:from+1], rows[to:from])
	}
	rows[to] = row
	return nil
}

func Remove(rows []Row, i int) ([]Row, error) {
	if err := checkIndex(rows, i); err != nil {
		return rows, err
	}
	return append(rows[:i], rows[i+1:]...), nil
}
