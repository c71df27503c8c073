package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core/volunteer"
)

var errAppNotFoundInCtx = errors.New("volunteer application not found in echo.Context")

type volunteerApi struct {
	svc *volunteer.Service
	*validation
}

func registerVolunteerAPI(public, admin *echo.Group, svc *volunteer.Service, v *validation) {
	api := volunteerApi{svc: svc, validation: v}

	public.POST("/volunteers", api.submit)

	// applications hold personal data: admins only
	ag := admin.Group("/volunteers", adminMiddleware())
	ag.GET("", api.query)

	dg := ag.Group("/:id", applicationCtxMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("/status", api.updateStatus)
	dg.DELETE("", api.destroy)
}

func (api *volunteerApi) submit(ctx echo.Context) error {
	var data volunteer.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	app, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting application")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *volunteerApi) query(ctx echo.Context) error {
	filter := new(volunteer.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []volunteer.Application{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	apps, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []volunteer.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *volunteerApi) retrieve(ctx echo.Context) error {
	app, ok := ctx.Get("object").(volunteer.Application)
	if !ok {
		return errors.Wrap(errAppNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *volunteerApi) updateStatus(ctx echo.Context) error {
	app, ok := ctx.Get("object").(volunteer.Application)
	if !ok {
		return errors.Wrap(errAppNotFoundInCtx, "retrieving object from context")
	}

	var data volunteer.UpdateStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	app, err := api.svc.SetStatus(ctx.Request().Context(), app, data.Status)
	if err != nil {
		return errors.Wrap(err, "setting application status")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *volunteerApi) destroy(ctx echo.Context) error {
	app, ok := ctx.Get("object").(volunteer.Application)
	if !ok {
		return errors.Wrap(errAppNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), app.ID); err != nil {
		return errors.Wrap(err, "deleting application")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func applicationCtxMiddleware(svc *volunteer.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			app, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding application by ID")
			}
			ctx.Set("object", app)
			return next(ctx)
		}
	}
}
