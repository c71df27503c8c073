package program

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/lumen-youth/lumen/core/recurrence"
)

const uidDateLayout = "20060102"

func newCalendar(appName string, progs []Program, now time.Time, n int) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, fmt.Sprintf("-//%s//Programs//EN", appName))
	cal.Props.SetText(ical.PropName, appName+" programs")

	stamp := now.UTC()
	for _, prog := range progs {
		cfg, err := prog.Spec.Parse()
		if err != nil {
			continue
		}
		for _, day := range recurrence.Occurrences(cfg, now, n) {
			cal.Children = append(cal.Children, newEvent(prog, day, stamp).Component)
		}
	}
	return cal
}

func newEvent(prog Program, day, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s@lumen", prog.ID, day.Format(uidDateLayout)))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetText(ical.PropSummary, prog.Title)

	if start, allDay := prog.StartsAt(day); allDay {
		event.Props.SetDate(ical.PropDateTimeStart, start)
	} else {
		event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	}
	if prog.Location != "" {
		event.Props.SetText(ical.PropLocation, prog.Location)
	}

	desc := make([]string, 0, 2)
	if prog.Schedule != "" {
		desc = append(desc, prog.Schedule)
	}
	if prog.Description != "" {
		desc = append(desc, prog.Description)
	}
	if len(desc) > 0 {
		event.Props.SetText(ical.PropDescription, strings.Join(desc, "\n\n"))
	}
	return event
}
