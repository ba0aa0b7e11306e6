package scenario

import (
	"fmt"
	"io"

	"rwlist/internal/llist"
	"rwlist/internal/logger"
)

// Walkthrough はリストの基本操作を順に実行し、各ステップを w に書き出す
func Walkthrough(w io.Writer, lg *logger.Logger) error {
	l, err := llist.New(llist.Config{Name: "walkthrough"})
	if err != nil {
		return err
	}
	if lg != nil {
		l.SetLogger(lg)
	}

	for _, e := range []struct {
		index   int
		payload string
	}{{3, "x"}, {1, "y"}, {2, "z"}} {
		if err := l.InsertOrReplace(e.index, e.payload); err != nil {
			return err
		}
		fmt.Fprintf(w, "insert(%d, %q)\n", e.index, e.payload)
	}
	if err := l.Show(w); err != nil {
		return err
	}

	if next, ok := l.NextIndex(1); ok {
		fmt.Fprintf(w, "next_index(1) = %d\n", next)
	}
	fmt.Fprintf(w, "count() = %d\n", l.Count())

	if v, ok := l.Find(3); ok {
		fmt.Fprintf(w, "find(3) = %v\n", v)
	}
	if old, ok := l.Replace(3, "x2"); ok {
		fmt.Fprintf(w, "replace(3, \"x2\") returned %v\n", old)
	}
	if v, ok := l.Remove(2); ok {
		fmt.Fprintf(w, "remove(2) = %v\n", v)
	}
	if _, ok := l.Remove(2); !ok {
		fmt.Fprintln(w, "remove(2) again = no value")
	}
	if err := l.Show(w); err != nil {
		return err
	}

	if err := l.Check(); err != nil {
		return err
	}
	fmt.Fprintf(w, "final: %v\n", l.Keys())

	dump, err := l.ToJSON()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "json: %s\n", dump)
	return nil
}
