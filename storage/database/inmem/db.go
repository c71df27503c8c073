// Package inmemdb holds in-memory repositories, used by tests and local demos.
package inmemdb

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
	"github.com/lumen-youth/lumen/core/newsletter"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/user"
	"github.com/lumen-youth/lumen/core/volunteer"
)

type (
	DB struct {
		user       *table[user.User]
		program    *table[program.Program]
		content    *table[content.Item]
		volunteer  *table[volunteer.Application]
		newsletter *table[newsletter.Subscriber]
	}

	table[T any] struct {
		rows  map[string]*T
		mutex sync.RWMutex
	}
)

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func Open() *DB {
	return &DB{
		user:       newTable[user.User](),
		program:    newTable[program.Program](),
		content:    newTable[content.Item](),
		volunteer:  newTable[volunteer.Application](),
		newsletter: newTable[newsletter.Subscriber](),
	}
}

func newID() string {
	return uuid.New().String()
}

// all returns a copy of every row; callers hold the lock.
func (t *table[T]) all() []T {
	rows := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, *row)
	}
	return rows
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return *row, true
}

func (t *table[T]) deleteByID(ids ...string) int {
	var n int
	for _, id := range ids {
		if _, ok := t.rows[id]; ok {
			delete(t.rows, id)
			n++
		}
	}
	return n
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// fieldGetter returns the value of a column of T, for ordering.
type fieldGetter[T any] func(row T, field string) interface{}

// order sorts rows the way "ORDER BY" would, falling back to `defaultLess`.
func order[T any](rows []T, ordering []core.DBOrdering, get fieldGetter[T], defaultLess func(a, b T) bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(get(rows[i], ord.Field), get(rows[j], ord.Field))
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return defaultLess(rows[i], rows[j])
	})
}

// compare supports the column types the repositories order by.
func compare(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		return strings.Compare(strings.ToLower(av), strings.ToLower(b.(string)))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case time.Time:
		bv := b.(time.Time)
		switch {
		case av.Equal(bv):
			return 0
		case av.Before(bv):
			return -1
		}
		return 1
	case *time.Time:
		bv := b.(*time.Time)
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return -1
		case bv == nil:
			return 1
		}
		return compare(*av, *bv)
	}
	return 0
}
