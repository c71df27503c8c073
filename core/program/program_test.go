package program_test

import (
	"bytes"
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/emersion/go-ical"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/recurrence"
	"github.com/lumen-youth/lumen/storage/database/inmem"
)

// Monday
var now = time.Date(2024, time.May, 6, 10, 0, 0, 0, time.UTC)

func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func newValidator() *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return validate
}

func newService(t *testing.T) *program.Service {
	program.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { program.NowFunc = time.Now })
	return program.NewService(inmemdb.NewProgramRepository(inmemdb.Open()), core.NewTestConfig())
}

func createProgram(t *testing.T, svc *program.Service, np program.NewProgram) program.Program {
	if err := np.Validate(newValidator()); err != nil {
		t.Fatalf("createProgram() validation failed: %v", err)
	}
	prog, err := svc.Create(context.Background(), np)
	if err != nil {
		t.Fatalf("createProgram() failed: %v", err)
	}
	return prog
}

func TestNewProgram_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name      string
		np        program.NewProgram
		wantField string
		wantTag   string
		wantErr   error
	}{
		{
			name:      "blank title",
			np:        program.NewProgram{Title: "   ", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(3)}},
			wantField: "title",
			wantTag:   "required",
		},
		{
			name:      "bad start time",
			np:        program.NewProgram{Title: "Youth Night", StartTime: "25:00", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(3)}},
			wantField: "start_time",
			wantTag:   "clock",
		},
		{
			name:      "bad image url",
			np:        program.NewProgram{Title: "Youth Night", ImageURL: "not a url", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(3)}},
			wantField: "image_url",
			wantTag:   "url",
		},
		{
			name:      "missing type",
			np:        program.NewProgram{Title: "Youth Night"},
			wantField: "recurrence_type",
			wantErr:   recurrence.ErrInvalidConfiguration,
		},
		{
			name:      "unsupported type",
			np:        program.NewProgram{Title: "Youth Night", Spec: recurrence.Spec{Type: "daily"}},
			wantField: "recurrence_type",
			wantErr:   recurrence.ErrUnsupportedType,
		},
		{
			name:      "weekly without day",
			np:        program.NewProgram{Title: "Youth Night", Spec: recurrence.Spec{Type: "weekly"}},
			wantField: "day_of_week",
			wantErr:   recurrence.ErrInvalidConfiguration,
		},
		{
			name:      "bi-weekly bad pattern",
			np:        program.NewProgram{Title: "Bible Study", Spec: recurrence.Spec{Type: "bi-weekly", DayOfWeek: intPtr(0), WeekPattern: "2,3"}},
			wantField: "week_pattern",
			wantErr:   recurrence.ErrInvalidConfiguration,
		},
		{
			name:      "monthly out of range",
			np:        program.NewProgram{Title: "Breakfast", Spec: recurrence.Spec{Type: "monthly", DayOfMonth: intPtr(32)}},
			wantField: "day_of_month",
			wantErr:   recurrence.ErrInvalidConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.np.Validate(validate)
			require.Error(t, err)

			if tt.wantTag != "" {
				var verrs validator.ValidationErrors
				require.True(t, errors.As(err, &verrs), "got %T", err)
				assert.Equal(t, tt.wantField, verrs[0].Field())
				assert.Equal(t, tt.wantTag, verrs[0].Tag())
				return
			}
			var verr *core.ValidationError
			require.True(t, errors.As(err, &verr), "got %T", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			assert.True(t, errors.Is(verr.Err, tt.wantErr))
		})
	}
}

func TestNewProgram_Validate_normalizesSpec(t *testing.T) {
	np := program.NewProgram{
		Title:     "  Youth Night ",
		StartTime: "18:30",
		Spec:      recurrence.Spec{Type: " Weekly", DayOfWeek: intPtr(3), WeekPattern: "1,2", DayOfMonth: intPtr(9)},
	}
	require.NoError(t, np.Validate(newValidator()))

	assert.Equal(t, "Youth Night", np.Title)
	assert.Equal(t, "weekly", np.Type)
	assert.Equal(t, 3, *np.DayOfWeek)
	assert.Empty(t, np.WeekPattern)
	assert.Nil(t, np.DayOfMonth)
}

func TestService_Create(t *testing.T) {
	svc := newService(t)

	prog := createProgram(t, svc, program.NewProgram{
		Title: "Youth Night",
		Spec:  recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(3)},
	})
	assert.NotEmpty(t, prog.ID)
	assert.True(t, prog.IsActive)
	assert.Equal(t, now, prog.CreatedAt)
	assert.Equal(t, "2024-05-08", prog.NextOccurrence)
	assert.Equal(t, "Every Wednesday", prog.Schedule)

	inactive := createProgram(t, svc, program.NewProgram{
		Title:    "Choir",
		Spec:     recurrence.Spec{Type: "monthly", DayOfMonth: intPtr(31)},
		IsActive: boolPtr(false),
	})
	assert.False(t, inactive.IsActive)
	assert.Equal(t, "2024-05-31", inactive.NextOccurrence)
	assert.Equal(t, "Every month on the 31st", inactive.Schedule)
}

func TestService_GetActive(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	active := createProgram(t, svc, program.NewProgram{Title: "Games", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(5)}})
	inactive := createProgram(t, svc, program.NewProgram{
		Title:    "Choir",
		Spec:     recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(5)},
		IsActive: boolPtr(false),
	})

	got, err := svc.GetActive(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", got.NextOccurrence)

	_, err = svc.GetActive(ctx, inactive.ID)
	assert.Equal(t, program.ErrNotFound, err)

	_, err = svc.Get(ctx, "unknown")
	assert.Equal(t, program.ErrNotFound, err)
}

func TestService_Update(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	validate := newValidator()

	prog := createProgram(t, svc, program.NewProgram{
		Title:    "Bible Study",
		Location: "Room 2",
		Spec:     recurrence.Spec{Type: "bi-weekly", DayOfWeek: intPtr(0), WeekPattern: "3,4"},
	})
	assert.Equal(t, "2024-05-26", prog.NextOccurrence)
	assert.Equal(t, "Second half Sundays of every month", prog.Schedule)

	// keeps the recurrence when no type is given
	up := program.UpdateProgram{Location: strPtr(" Main Hall ")}
	require.NoError(t, up.Validate(prog, validate))
	prog, err := svc.Update(ctx, prog, up)
	require.NoError(t, err)
	assert.Equal(t, "Bible Study", prog.Title)
	assert.Equal(t, "Main Hall", prog.Location)
	assert.Equal(t, "2024-05-26", prog.NextOccurrence)

	// replaces it otherwise
	up = program.UpdateProgram{Spec: recurrence.Spec{Type: "bi-weekly", DayOfWeek: intPtr(0), WeekPattern: "1, 2"}, IsActive: boolPtr(false)}
	require.NoError(t, up.Validate(prog, validate))
	prog, err = svc.Update(ctx, prog, up)
	require.NoError(t, err)
	assert.Equal(t, "1,2", prog.WeekPattern)
	assert.Equal(t, "2024-05-12", prog.NextOccurrence)
	assert.Equal(t, "First half Sundays of every month", prog.Schedule)
	assert.False(t, prog.IsActive)

	up = program.UpdateProgram{Spec: recurrence.Spec{Type: "monthly"}}
	var verr *core.ValidationError
	require.True(t, errors.As(up.Validate(prog, validate), &verr))
	assert.Equal(t, "day_of_month", verr.Fields[0].Field)
}

func text(ev ical.Event, name string) string {
	s, _ := ev.Props.Text(name)
	return s
}

func seedPrograms(t *testing.T, svc *program.Service) map[string]program.Program {
	progs := make(map[string]program.Program)
	for _, np := range []program.NewProgram{
		{Title: "Youth Night", StartTime: "18:30", Location: "Main Hall", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(3)}},
		{Title: "Games", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(3)}},
		{Title: "Bible Study", StartTime: "16:00", Spec: recurrence.Spec{Type: "bi-weekly", DayOfWeek: intPtr(0), WeekPattern: "3,4"}},
		{Title: "Prayer Breakfast", Description: "Bring a friend.", Spec: recurrence.Spec{Type: "monthly", DayOfMonth: intPtr(1)}},
		{Title: "Choir", Spec: recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(2)}, IsActive: boolPtr(false)},
	} {
		progs[np.Title] = createProgram(t, svc, np)
	}
	return progs
}

func TestService_Upcoming(t *testing.T) {
	svc := newService(t)
	seedPrograms(t, svc)

	titles := func(progs []program.Program) []string {
		res := make([]string, 0, len(progs))
		for _, p := range progs {
			res = append(res, p.Title+" "+p.NextOccurrence)
		}
		return res
	}

	tests := []struct {
		name   string
		within time.Duration
		want   []string
	}{
		{name: "none", within: time.Hour, want: []string{}},
		{name: "one week", within: 7 * 24 * time.Hour, want: []string{"Games 2024-05-08", "Youth Night 2024-05-08"}},
		{
			name:   "one month",
			within: 30 * 24 * time.Hour,
			want:   []string{"Games 2024-05-08", "Youth Night 2024-05-08", "Bible Study 2024-05-26", "Prayer Breakfast 2024-06-01"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progs, err := svc.Upcoming(context.Background(), now, tt.within)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(progs))
		})
	}
}

func TestService_Calendar(t *testing.T) {
	svc := newService(t)
	seeded := seedPrograms(t, svc)

	cal, err := svc.Calendar(context.Background(), now, 2)
	require.NoError(t, err)

	events := cal.Events()
	assert.Len(t, events, 8) // 4 active programs, 2 occurrences each

	byUID := make(map[string]ical.Event, len(events))
	for _, ev := range events {
		byUID[text(ev, ical.PropUID)] = ev
	}

	youth, ok := byUID[seeded["Youth Night"].ID+"-20240515@lumen"]
	require.True(t, ok)
	assert.Equal(t, "Youth Night", text(youth, ical.PropSummary))
	assert.Equal(t, "Main Hall", text(youth, ical.PropLocation))
	assert.Equal(t, "20240515T183000Z", youth.Props.Get(ical.PropDateTimeStart).Value)
	assert.Equal(t, "Every Wednesday", text(youth, ical.PropDescription))

	breakfast, ok := byUID[seeded["Prayer Breakfast"].ID+"-20240601@lumen"]
	require.True(t, ok)
	assert.Equal(t, "20240601", breakfast.Props.Get(ical.PropDateTimeStart).Value)
	assert.Nil(t, breakfast.Props.Get(ical.PropLocation))
	assert.Equal(t, "Every month on the 1st\n\nBring a friend.", text(breakfast, ical.PropDescription))

	_, ok = byUID[seeded["Prayer Breakfast"].ID+"-20240701@lumen"]
	assert.True(t, ok)
	for uid := range byUID {
		assert.NotContains(t, uid, seeded["Choir"].ID)
	}

	var buf bytes.Buffer
	require.NoError(t, ical.NewEncoder(&buf).Encode(cal))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, buf.String(), "PRODID:-//Lumen//Programs//EN")
	assert.Contains(t, buf.String(), "BEGIN:VEVENT")
}

func TestService_Calendar_midnightDSTGap(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	svc := newService(t)
	prog := createProgram(t, svc, program.NewProgram{
		Title: "Sunday Service",
		Spec:  recurrence.Spec{Type: "weekly", DayOfWeek: intPtr(0)},
	})

	// 2023-09-03 00:00 does not exist in Santiago
	cal, err := svc.Calendar(context.Background(), time.Date(2023, time.August, 30, 12, 0, 0, 0, loc), 3)
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 3)
	for i, day := range []string{"20230903", "20230910", "20230917"} {
		assert.Equal(t, prog.ID+"-"+day+"@lumen", text(events[i], ical.PropUID))
		assert.Equal(t, day, events[i].Props.Get(ical.PropDateTimeStart).Value)
	}
}
