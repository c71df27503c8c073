package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-youth/lumen/apps/api/echo"
	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
	"github.com/lumen-youth/lumen/core/newsletter"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/user"
	"github.com/lumen-youth/lumen/core/volunteer"
	"github.com/lumen-youth/lumen/services/email"
	"github.com/lumen-youth/lumen/services/media"
	"github.com/lumen-youth/lumen/storage/database/inmem"
	"github.com/lumen-youth/lumen/tests"
)

const testPwd = "Pa$$w0rd-L0ng"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

// env is a server backed by in-memory repositories, with an admin and an editor.
type env struct {
	conf    *core.Config
	srv     *echoapi.Server
	store   *mediasvc.MemoryStore
	usrRepo user.Repository
	prgRepo program.Repository
	cntRepo content.Repository
	volRepo volunteer.Repository
	subRepo newsletter.Repository

	admin  user.User
	editor user.User
}

func newEnv(t *testing.T, opts ...func(conf *core.Config)) *env {
	conf := core.NewTestConfig()
	for _, opt := range opts {
		opt(conf)
	}
	emailsvc.ClearSentMessages()

	db := inmemdb.Open()
	logger := testutil.NewLogger(conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	validate, translator := testutil.NewValidator()

	e := &env{
		conf:    conf,
		store:   mediasvc.NewMemoryStore(conf),
		usrRepo: inmemdb.NewUserRepository(db),
		prgRepo: inmemdb.NewProgramRepository(db),
		cntRepo: inmemdb.NewContentRepository(db),
		volRepo: inmemdb.NewVolunteerRepository(db),
		subRepo: inmemdb.NewNewsletterRepository(db),
	}
	e.srv = echoapi.NewServer(echoapi.Deps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		UserSvc:       user.NewService(e.usrRepo),
		ProgramSvc:    program.NewService(e.prgRepo, conf),
		ContentSvc:    content.NewService(e.cntRepo),
		VolunteerSvc:  volunteer.NewService(e.volRepo, e.prgRepo, mailSvc, conf),
		NewsletterSvc: newsletter.NewService(e.subRepo, mailSvc),
		ImageStore:    e.store,
	})

	e.admin = testutil.CreateUser(t, e.usrRepo, "Admin", "admin", "admin@lumen.test", testPwd, []string{user.RoleAdmin}, true)
	e.editor = testutil.CreateUser(t, e.usrRepo, "Editor", "editor", "editor@lumen.test", testPwd, []string{user.RoleEditor}, true)
	return e
}

func (e *env) token(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(e.conf, echoapi.GetUserClaims(e.conf, usr))
	require.NoError(t, err)
	return token
}

// do sends a JSON request; `body` is sent as is when it is a []byte.
func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func (e *env) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantData interface{}
}

func (e *env) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			wantCode := tt.wantCode
			if wantCode == 0 {
				wantCode = http.StatusOK
			}
			rec := e.do(t, method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, wantCode, tt.wantData, rec)
		})
	}
}

func marshal(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, r io.Reader, v interface{}) {
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func checkCodeAndData(t *testing.T, wantCode int, wantData interface{}, rec *httptest.ResponseRecorder) {
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	if wantData != nil {
		assert.JSONEq(t, string(marshal(t, wantData)), rec.Body.String())
	}
}

// ids decodes a JSON list and returns the ids of its objects, in order.
func ids(t *testing.T, rec *httptest.ResponseRecorder) []string {
	var objs []struct {
		ID string `json:"id"`
	}
	decode(t, rec.Body, &objs)
	res := make([]string, 0, len(objs))
	for _, obj := range objs {
		res = append(res, obj.ID)
	}
	return res
}
