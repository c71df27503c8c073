package echoapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core/program"
)

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 366

	defaultCalendarCount = 8
	maxCalendarCount     = 52
)

var errProgNotFoundInCtx = errors.New("program object not found in echo.Context")

type programApi struct {
	svc *program.Service
	*validation
}

func registerProgramAPI(public, admin *echo.Group, svc *program.Service, v *validation) {
	api := programApi{svc: svc, validation: v}

	pg := public.Group("/programs")
	pg.GET("", api.queryActive)
	pg.GET("/upcoming", api.upcoming)
	pg.GET("/calendar.ics", api.calendar)
	pg.GET("/:id", api.retrieveActive)

	ag := admin.Group("/programs")
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)

	dg := ag.Group("/:id", programCtxMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Public handlers

func (api *programApi) queryActive(ctx echo.Context) error {
	active := true
	return api.doQuery(ctx, &active)
}

func (api *programApi) retrieveActive(ctx echo.Context) error {
	prog, err := api.svc.GetActive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting active program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *programApi) upcoming(ctx echo.Context) error {
	days, err := intQueryParam(ctx, "days", defaultUpcomingDays, 1, maxUpcomingDays)
	if err != nil {
		return err
	}

	progs, err := api.svc.Upcoming(ctx.Request().Context(), program.NowFunc(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return errors.Wrap(err, "querying upcoming programs")
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *programApi) calendar(ctx echo.Context) error {
	count, err := intQueryParam(ctx, "count", defaultCalendarCount, 1, maxCalendarCount)
	if err != nil {
		return err
	}

	cal, err := api.svc.Calendar(ctx.Request().Context(), program.NowFunc(), count)
	if err != nil {
		return errors.Wrap(err, "building calendar")
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return errors.Wrap(err, "encoding calendar")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="programs.ics"`)
	return ctx.Blob(http.StatusOK, ical.MIMEType+"; charset=utf-8", buf.Bytes())
}

// Staff handlers

func (api *programApi) create(ctx echo.Context) error {
	var data program.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prog, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating program")
	}
	return ctx.JSON(http.StatusCreated, prog)
}

func (api *programApi) query(ctx echo.Context) error {
	return api.doQuery(ctx, nil)
}

// doQuery lists programs, forcing the is_active filter when `isActive` is set.
func (api *programApi) doQuery(ctx echo.Context, isActive *bool) error {
	filter := new(program.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []program.Program{})
	}
	filter.Clean()
	if isActive != nil {
		filter.IsActive = isActive
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	progs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying programs")
	}
	if progs == nil {
		progs = []program.Program{}
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *programApi) retrieve(ctx echo.Context) error {
	prog, ok := ctx.Get("object").(program.Program)
	if !ok {
		return errors.Wrap(errProgNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *programApi) update(ctx echo.Context) error {
	prog, ok := ctx.Get("object").(program.Program)
	if !ok {
		return errors.Wrap(errProgNotFoundInCtx, "retrieving object from context")
	}

	var data program.UpdateProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProgram")
	}
	if err := data.Validate(prog, api.validate); err != nil {
		return err
	}

	prog, err := api.svc.Update(ctx.Request().Context(), prog, data)
	if err != nil {
		return errors.Wrap(err, "updating program")
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *programApi) destroy(ctx echo.Context) error {
	prog, ok := ctx.Get("object").(program.Program)
	if !ok {
		return errors.Wrap(errProgNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), prog.ID); err != nil {
		return errors.Wrap(err, "deleting program")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *programApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting programs")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func programCtxMiddleware(svc *program.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			prog, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding program by ID")
			}
			ctx.Set("object", prog)
			return next(ctx)
		}
	}
}
