package emailsvc

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/tests"
)

type sgAddress struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sgBody struct {
	From             sgAddress  `json:"from"`
	ReplyTo          *sgAddress `json:"reply_to"`
	Categories       []string   `json:"categories"`
	Personalizations []struct {
		To      []sgAddress `json:"to"`
		Subject string      `json:"subject"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	MailSettings *struct {
		SandboxMode struct {
			Enable bool `json:"enable"`
		} `json:"sandbox_mode"`
	} `json:"mail_settings"`
}

// mockSendgridAPI records the request bodies and answers with `res`.
func mockSendgridAPI(t *testing.T, res *rest.Response, err error) *[]sgBody {
	bodies := make([]sgBody, 0)
	orig := sendgridAPI
	sendgridAPI = func(req rest.Request) (*rest.Response, error) {
		assert.Equal(t, http.MethodPost, string(req.Method))
		assert.Equal(t, sendgridHost+sendgridEndpoint, req.BaseURL)
		var body sgBody
		require.NoError(t, json.Unmarshal(req.Body, &body))
		bodies = append(bodies, body)
		return res, err
	}
	t.Cleanup(func() { sendgridAPI = orig })
	return &bodies
}

func newSendgridService(env string) sendgridService {
	conf := core.NewTestConfig()
	conf.Env = env
	conf.SendgridApiKey = "key"
	return *NewSendgridService(conf, testutil.NewLogger(conf)).(*sendgridService)
}

func TestSendgridService_send(t *testing.T) {
	bodies := mockSendgridAPI(t, &rest.Response{StatusCode: http.StatusAccepted}, nil)
	svc := newSendgridService("PROD")

	err := svc.send(&core.EmailMessage{
		To:           []mail.Address{{Name: "Staff", Address: "staff@lumen.test"}},
		ReplyTo:      &mail.Address{Name: "Jo March", Address: "jo@lumen.test"},
		Subject:      "Welcome to our newsletter",
		TemplateName: "newsletter_welcome",
		TemplateData: map[string]string{"Name": "Jo", "Token": "tok"},
	})
	require.NoError(t, err)
	require.Len(t, *bodies, 1)

	body := (*bodies)[0]
	assert.Equal(t, sgAddress{Name: "Lumen", Email: "noreply@localhost"}, body.From)
	assert.Equal(t, &sgAddress{Name: "Jo March", Email: "jo@lumen.test"}, body.ReplyTo)
	assert.Equal(t, []string{"newsletter_welcome"}, body.Categories)
	assert.Nil(t, body.MailSettings)
	require.Len(t, body.Personalizations, 1)
	assert.Equal(t, "[Lumen] Welcome to our newsletter", body.Personalizations[0].Subject)
	assert.Equal(t, []sgAddress{{Name: "Staff", Email: "staff@lumen.test"}}, body.Personalizations[0].To)
	require.NotEmpty(t, body.Content)
	assert.Equal(t, "text/plain", body.Content[0].Type)
	assert.Contains(t, body.Content[0].Value, "/newsletter/unsubscribe?token=tok")
}

func TestSendgridService_send_sandboxOutsideProd(t *testing.T) {
	bodies := mockSendgridAPI(t, &rest.Response{StatusCode: http.StatusOK}, nil)
	svc := newSendgridService("QA")

	err := svc.send(&core.EmailMessage{
		To:      []mail.Address{{Address: "jo@lumen.test"}},
		Subject: "Hello",
		BodyStr: "Hello Jo",
	})
	require.NoError(t, err)
	require.Len(t, *bodies, 1)

	body := (*bodies)[0]
	require.NotNil(t, body.MailSettings)
	assert.True(t, body.MailSettings.SandboxMode.Enable)
	assert.Nil(t, body.ReplyTo)
	assert.Empty(t, body.Categories)
	assert.Equal(t, "Hello Jo", body.Content[0].Value)
}

func TestSendgridService_send_errors(t *testing.T) {
	svc := newSendgridService("PROD")
	msg := func() *core.EmailMessage {
		return &core.EmailMessage{To: []mail.Address{{Address: "jo@lumen.test"}}, BodyStr: "Hello"}
	}

	t.Run("nothing to send", func(t *testing.T) {
		bodies := mockSendgridAPI(t, &rest.Response{StatusCode: http.StatusAccepted}, nil)
		require.NoError(t, svc.send(&core.EmailMessage{BodyStr: "no recipients"}))
		require.NoError(t, svc.send(&core.EmailMessage{To: []mail.Address{{Address: "jo@lumen.test"}}}))
		assert.Empty(t, *bodies)
	})
	t.Run("unknown template", func(t *testing.T) {
		bodies := mockSendgridAPI(t, &rest.Response{StatusCode: http.StatusAccepted}, nil)
		m := msg()
		m.BodyStr = ""
		m.TemplateName = "nope"
		assert.Error(t, svc.send(m))
		assert.Empty(t, *bodies)
	})
	t.Run("api error", func(t *testing.T) {
		mockSendgridAPI(t, nil, errors.New("connection refused"))
		err := svc.send(msg())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
	t.Run("bad status", func(t *testing.T) {
		mockSendgridAPI(t, &rest.Response{StatusCode: http.StatusUnauthorized, Body: `{"errors":[]}`}, nil)
		err := svc.send(msg())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status: 401")
	})
}
