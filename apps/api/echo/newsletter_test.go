package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-youth/lumen/core/newsletter"
)

func Test_newsletterApi(t *testing.T) {
	e := newEnv(t)
	adminToken := e.token(t, e.admin)

	var sub newsletter.Subscriber
	t.Run("subscribe", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = e.do(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": " Meg@Lumen.test ", "name": "Meg"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decode(t, rec.Body, &sub)
		assert.Equal(t, "meg@lumen.test", sub.Email)
		assert.True(t, sub.IsActive)
		assert.NotContains(t, rec.Body.String(), "token")

		rec = e.do(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": "meg@lumen.test"})
		checkCodeAndData(t, http.StatusBadRequest, map[string]string{"email": newsletter.ErrAlreadySubscribed.Error()}, rec)
	})

	stored, err := e.subRepo.GetSubscriber(context.Background(), newsletter.GetFilter{ID: sub.ID})
	require.NoError(t, err)

	e.run(t, []httpTest{
		{name: "token required", method: http.MethodPost, path: "/api/newsletter/unsubscribe", body: map[string]string{}, wantCode: http.StatusBadRequest},
		{
			name: "unknown token", method: http.MethodPost, path: "/api/newsletter/unsubscribe", body: map[string]string{"token": "nope"},
			wantCode: http.StatusNotFound, wantData: httpErr{Error: "not found"},
		},
		{name: "subscribers: admin required", path: "/api/admin/subscribers", token: e.token(t, e.editor), wantCode: http.StatusForbidden},
	})

	t.Run("unsubscribe", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/newsletter/unsubscribe?token="+stored.Token, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var unsub newsletter.Subscriber
		decode(t, rec.Body, &unsub)
		assert.False(t, unsub.IsActive)

		// twice is fine
		rec = e.do(t, http.MethodPost, "/api/newsletter/unsubscribe", "", map[string]string{"token": stored.Token})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = e.do(t, http.MethodGet, "/api/admin/subscribers?is_active=false", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{sub.ID}, ids(t, rec))
	})

	t.Run("delete", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]string{"email": "amy@lumen.test"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var amy newsletter.Subscriber
		decode(t, rec.Body, &amy)

		rec = e.do(t, http.MethodDelete, "/api/admin/subscribers/"+sub.ID, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = e.do(t, http.MethodDelete, "/api/admin/subscribers/"+sub.ID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = e.do(t, http.MethodDelete, "/api/admin/subscribers?id="+amy.ID, adminToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = e.do(t, http.MethodGet, "/api/admin/subscribers", adminToken, nil)
		checkCodeAndData(t, http.StatusOK, []interface{}{}, rec)
	})
}
