package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lumen-youth/lumen/core"
)

var (
	uploadFolders = map[string]bool{"programs": true, "content": true, "misc": true}

	errUnknownFolder = errors.New("must be one of programs, content or misc")
	errMissingFile   = errors.New("an image file is required")
)

type uploadApi struct {
	store   core.ImageStore
	maxSize int64
}

func registerUploadAPI(admin *echo.Group, store core.ImageStore, maxSize int64) {
	api := uploadApi{store: store, maxSize: maxSize}
	admin.POST("/uploads", api.upload)
}

func (api *uploadApi) upload(ctx echo.Context) error {
	folder := core.CleanString(ctx.FormValue("folder"), true /* lower */)
	if folder == "" {
		folder = "misc"
	}
	if !uploadFolders[folder] {
		return core.NewFieldValidationError("folder", errUnknownFolder)
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return core.NewFieldValidationError("file", errMissingFile)
		}
		return errors.Wrap(err, "reading multipart form")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()

	img, err := core.ReadImage(f, fh.Filename, folder, api.maxSize)
	if err != nil {
		switch errors.Cause(err) {
		case core.ErrEmptyImage, core.ErrImageTooLarge, core.ErrUnsupportedImage:
			return core.NewFieldValidationError("file", err)
		}
		return err
	}

	url, err := api.store.Put(ctx.Request().Context(), img)
	if err != nil {
		return errors.Wrap(err, "storing image")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"url": url, "key": img.Key})
}
