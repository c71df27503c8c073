package echoapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lumen-youth/lumen/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// intQueryParam reads the `name` query param, defaulting to `def` when it is absent.
func intQueryParam(ctx echo.Context, name string, def, min, max int) (int, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, core.NewValidationError(nil, core.FieldError{
			Field: name,
			Error: fmt.Sprintf("must be a number between %d and %d", min, max),
		})
	}
	return n, nil
}

// DestroyMultipleRequest binds the `?id=` list of bulk deletions.
type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}
