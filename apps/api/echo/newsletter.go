package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/newsletter"
)

type newsletterApi struct {
	svc *newsletter.Service
	*validation
}

func registerNewsletterAPI(public, admin *echo.Group, svc *newsletter.Service, v *validation) {
	api := newsletterApi{svc: svc, validation: v}

	ng := public.Group("/newsletter")
	ng.POST("/subscribe", api.subscribe)
	ng.POST("/unsubscribe", api.unsubscribe)

	ag := admin.Group("/subscribers", adminMiddleware())
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)
	ag.DELETE("/:id", api.destroy)
}

func (api *newsletterApi) subscribe(ctx echo.Context) error {
	var data newsletter.NewSubscriber
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubscriber")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Subscribe(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "subscribing")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

// unsubscribe reads the token from the body, or from the query string
// so links in emails can post to it directly.
func (api *newsletterApi) unsubscribe(ctx echo.Context) error {
	var data newsletter.Unsubscribe
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Unsubscribe")
	}
	if data.Token == "" {
		data.Token = ctx.QueryParam("token")
	}
	data.Token = core.CleanString(data.Token)
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	sub, err := api.svc.Unsubscribe(ctx.Request().Context(), data.Token)
	if err != nil {
		return errors.Wrap(err, "unsubscribing")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *newsletterApi) query(ctx echo.Context) error {
	filter := new(newsletter.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []newsletter.Subscriber{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	subs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying subscribers")
	}
	if subs == nil {
		subs = []newsletter.Subscriber{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *newsletterApi) destroy(ctx echo.Context) error {
	sub, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding subscriber by ID")
	}
	if err := api.svc.Delete(ctx.Request().Context(), sub.ID); err != nil {
		return errors.Wrap(err, "deleting subscriber")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *newsletterApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting subscribers")
	}
	return ctx.NoContent(http.StatusNoContent)
}
