package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core/content"
)

var errItemNotFoundInCtx = errors.New("content item not found in echo.Context")

type contentApi struct {
	svc *content.Service
	*validation
}

func registerContentAPI(public, admin *echo.Group, svc *content.Service, v *validation) {
	api := contentApi{svc: svc, validation: v}

	pg := public.Group("/content")
	pg.GET("", api.queryPublished)
	pg.GET("/:id", api.retrievePublished)

	ag := admin.Group("/content")
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)

	dg := ag.Group("/:id", contentCtxMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *contentApi) queryPublished(ctx echo.Context) error {
	published := true
	return api.doQuery(ctx, &published)
}

func (api *contentApi) retrievePublished(ctx echo.Context) error {
	it, err := api.svc.GetPublished(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting published item")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *contentApi) create(ctx echo.Context) error {
	var data content.NewItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	it, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating item")
	}
	return ctx.JSON(http.StatusCreated, it)
}

func (api *contentApi) query(ctx echo.Context) error {
	return api.doQuery(ctx, nil)
}

func (api *contentApi) doQuery(ctx echo.Context, isPublished *bool) error {
	filter := new(content.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []content.Item{})
	}
	filter.Clean()
	if isPublished != nil {
		filter.IsPublished = isPublished
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	items, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying items")
	}
	if items == nil {
		items = []content.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *contentApi) retrieve(ctx echo.Context) error {
	it, ok := ctx.Get("object").(content.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *contentApi) update(ctx echo.Context) error {
	it, ok := ctx.Get("object").(content.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}

	var data content.UpdateItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateItem")
	}
	if err := data.Validate(it, api.validate); err != nil {
		return err
	}

	it, err := api.svc.Update(ctx.Request().Context(), it, data)
	if err != nil {
		return errors.Wrap(err, "updating item")
	}
	return ctx.JSON(http.StatusOK, it)
}

func (api *contentApi) destroy(ctx echo.Context) error {
	it, ok := ctx.Get("object").(content.Item)
	if !ok {
		return errors.Wrap(errItemNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), it.ID); err != nil {
		return errors.Wrap(err, "deleting item")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *contentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting items")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func contentCtxMiddleware(svc *content.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			it, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding item by ID")
			}
			ctx.Set("object", it)
			return next(ctx)
		}
	}
}
