package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-youth/lumen/core/volunteer"
	"github.com/lumen-youth/lumen/services/email"
	"github.com/lumen-youth/lumen/tests"
)

func Test_volunteerApi(t *testing.T) {
	e := newEnv(t)
	prog := testutil.CreateProgram(t, e.prgRepo, "Youth Night", "18:30", testutil.Weekly(3), true)
	adminToken := e.token(t, e.admin)

	t.Run("invalid", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/volunteers", "", map[string]interface{}{"email": "jo@"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var errs map[string]string
		decode(t, rec.Body, &errs)
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "email")

		rec = e.do(t, http.MethodPost, "/api/volunteers", "", map[string]interface{}{
			"name": "Jo", "email": "jo@lumen.test", "program_id": "nope",
		})
		checkCodeAndData(t, http.StatusBadRequest, map[string]string{"program_id": volunteer.ErrUnknownProgram.Error()}, rec)
	})

	var app volunteer.Application
	t.Run("submit", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		rec := e.do(t, http.MethodPost, "/api/volunteers", "", map[string]interface{}{
			"name":       "Jo March",
			"email":      "Jo@Lumen.test",
			"program_id": prog.ID,
			"areas":      []string{"music", "hospitality"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decode(t, rec.Body, &app)
		assert.Equal(t, volunteer.StatusPending, app.Status)
		assert.Equal(t, "jo@lumen.test", app.Email)

		msgs := emailsvc.GetSentMessages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "jo@lumen.test", msgs[0].To[0].Address)
		assert.Equal(t, e.conf.StaffEmails, msgs[1].To)
	})

	e.run(t, []httpTest{
		{name: "auth required", path: "/api/admin/volunteers", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{
			name: "admin required", path: "/api/admin/volunteers", token: e.token(t, e.editor),
			wantCode: http.StatusForbidden, wantData: httpErr{Error: "permission denied"},
		},
		{name: "unknown application", path: "/api/admin/volunteers/nope", token: adminToken, wantCode: http.StatusNotFound},
	})

	t.Run("list and detail", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/admin/volunteers?status=PENDING", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{app.ID}, ids(t, rec))

		rec = e.do(t, http.MethodGet, "/api/admin/volunteers?program_id=other", adminToken, nil)
		checkCodeAndData(t, http.StatusOK, []interface{}{}, rec)

		rec = e.do(t, http.MethodGet, "/api/admin/volunteers/"+app.ID, adminToken, nil)
		checkCodeAndData(t, http.StatusOK, app, rec)
	})

	t.Run("status", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/volunteers/"+app.ID+"/status", adminToken, map[string]string{"status": "maybe"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = e.do(t, http.MethodPut, "/api/admin/volunteers/"+app.ID+"/status", adminToken, map[string]string{"status": " Accepted"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated volunteer.Application
		decode(t, rec.Body, &updated)
		assert.Equal(t, volunteer.StatusAccepted, updated.Status)
	})

	t.Run("delete", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, "/api/admin/volunteers/"+app.ID, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = e.do(t, http.MethodGet, "/api/admin/volunteers/"+app.ID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
