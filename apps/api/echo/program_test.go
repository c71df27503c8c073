package echoapi_test

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/recurrence"
	"github.com/lumen-youth/lumen/tests"
)

// Monday
var now = time.Date(2024, time.May, 6, 10, 0, 0, 0, time.UTC)

func fixNow(t *testing.T) {
	program.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { program.NowFunc = time.Now })
}

func Test_programApi_public(t *testing.T) {
	fixNow(t)
	e := newEnv(t)
	youth := testutil.CreateProgram(t, e.prgRepo, "Youth Night", "18:30", testutil.Weekly(3), true, now.Add(-3*time.Hour))
	study := testutil.CreateProgram(t, e.prgRepo, "Bible Study", "19:00", testutil.BiWeekly(0, recurrence.WeekPatternSecondHalf), true, now.Add(-2*time.Hour))
	breakfast := testutil.CreateProgram(t, e.prgRepo, "Prayer Breakfast", "", testutil.Monthly(1), true, now.Add(-time.Hour))
	retired := testutil.CreateProgram(t, e.prgRepo, "Retired", "", testutil.Weekly(1), false, now)

	t.Run("list shows active programs only", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/programs?is_active=false", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{youth.ID, study.ID, breakfast.ID}, ids(t, rec))
	})

	t.Run("list computes schedules", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/programs?search=youth", "", nil)
		var progs []program.Program
		decode(t, rec.Body, &progs)
		require.Len(t, progs, 1)
		assert.Equal(t, "2024-05-08", progs[0].NextOccurrence)
		assert.Equal(t, "Every Wednesday", progs[0].Schedule)
	})

	e.run(t, []httpTest{
		{name: "inactive program", path: "/api/programs/" + retired.ID, wantCode: http.StatusNotFound, wantData: httpErr{Error: "not found"}},
		{name: "unknown program", path: "/api/programs/nope", wantCode: http.StatusNotFound, wantData: httpErr{Error: "not found"}},
		{
			name: "days out of range", path: "/api/programs/upcoming?days=0", wantCode: http.StatusBadRequest,
			wantData: map[string]string{"days": "must be a number between 1 and 366"},
		},
		{
			name: "bad count", path: "/api/programs/calendar.ics?count=abc", wantCode: http.StatusBadRequest,
			wantData: map[string]string{"count": "must be a number between 1 and 52"},
		},
	})

	t.Run("detail", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/programs/"+breakfast.ID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var prog program.Program
		decode(t, rec.Body, &prog)
		assert.Equal(t, "2024-06-01", prog.NextOccurrence)
		assert.Equal(t, "Every month on the 1st", prog.Schedule)
	})

	t.Run("upcoming", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/programs/upcoming", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{youth.ID}, ids(t, rec))

		rec = e.do(t, http.MethodGet, "/api/programs/upcoming?days=30", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{youth.ID, study.ID, breakfast.ID}, ids(t, rec))
	})

	t.Run("calendar", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/programs/calendar.ics?count=2", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))

		cal, err := ical.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode()
		require.NoError(t, err)
		events := cal.Events()
		assert.Len(t, events, 6)

		summaries := make(map[string]int)
		for _, ev := range events {
			summary, err := ev.Props.Text(ical.PropSummary)
			require.NoError(t, err)
			summaries[summary]++
		}
		assert.Equal(t, map[string]int{"Youth Night": 2, "Bible Study": 2, "Prayer Breakfast": 2}, summaries)
	})
}

func Test_programApi_admin(t *testing.T) {
	fixNow(t)
	e := newEnv(t)
	token := e.token(t, e.editor)

	e.run(t, []httpTest{
		{name: "auth required", path: "/api/admin/programs", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{
			name: "missing day of week", method: http.MethodPost, path: "/api/admin/programs", token: token,
			body:     map[string]interface{}{"title": "Youth Night", "recurrence_type": "weekly"},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown type", method: http.MethodPost, path: "/api/admin/programs", token: token,
			body:     map[string]interface{}{"title": "Youth Night", "recurrence_type": "daily"},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bad start time", method: http.MethodPost, path: "/api/admin/programs", token: token,
			body:     map[string]interface{}{"title": "Youth Night", "start_time": "25:00", "recurrence_type": "weekly", "day_of_week": 3},
			wantCode: http.StatusBadRequest,
		},
	})

	var prog program.Program
	t.Run("create", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/admin/programs", token, map[string]interface{}{
			"title":           " Youth Night ",
			"start_time":      "18:30",
			"recurrence_type": "Weekly",
			"day_of_week":     3,
			"day_of_month":    12,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decode(t, rec.Body, &prog)
		assert.Equal(t, "Youth Night", prog.Title)
		assert.Equal(t, "weekly", prog.Type)
		assert.Nil(t, prog.DayOfMonth)
		assert.True(t, prog.IsActive)
		assert.Equal(t, "2024-05-08", prog.NextOccurrence)
	})

	t.Run("update recurrence", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/programs/"+prog.ID, token, map[string]interface{}{
			"recurrence_type": "bi-weekly",
			"day_of_week":     0,
			"week_pattern":    "1, 2",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated program.Program
		decode(t, rec.Body, &updated)
		assert.Equal(t, "Youth Night", updated.Title)
		assert.Equal(t, "1,2", updated.WeekPattern)
		assert.Equal(t, "2024-05-12", updated.NextOccurrence)
	})

	t.Run("deactivate", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/programs/"+prog.ID, token, map[string]interface{}{"is_active": false})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = e.do(t, http.MethodGet, "/api/programs/"+prog.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = e.do(t, http.MethodGet, "/api/admin/programs/"+prog.ID, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = e.do(t, http.MethodGet, "/api/admin/programs?is_active=false", token, nil)
		assert.Equal(t, []string{prog.ID}, ids(t, rec))
	})

	t.Run("delete", func(t *testing.T) {
		other := testutil.CreateProgram(t, e.prgRepo, "Games", "", testutil.Weekly(5), true)

		rec := e.do(t, http.MethodDelete, "/api/admin/programs/"+prog.ID, token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = e.do(t, http.MethodDelete, "/api/admin/programs/"+prog.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = e.do(t, http.MethodDelete, "/api/admin/programs?id="+other.ID, token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = e.do(t, http.MethodGet, "/api/admin/programs", token, nil)
		checkCodeAndData(t, http.StatusOK, []interface{}{}, rec)
	})
}
