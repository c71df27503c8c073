package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{spec: Spec{Type: "weekly", DayOfWeek: intPtr(3)}, want: "Every Wednesday"},
		{spec: Spec{Type: "weekly", DayOfWeek: intPtr(0)}, want: "Every Sunday"},
		{spec: Spec{Type: "bi-weekly", DayOfWeek: intPtr(1), WeekPattern: "1,2"}, want: "First half Mondays of every month"},
		{spec: Spec{Type: "bi-weekly", DayOfWeek: intPtr(6), WeekPattern: "3,4"}, want: "Second half Saturdays of every month"},
		{spec: Spec{Type: "bi-weekly", DayOfWeek: intPtr(4)}, want: "Every Thursday"},
		{spec: Spec{Type: "monthly", DayOfMonth: intPtr(1)}, want: "Every month on the 1st"},
		{spec: Spec{Type: "monthly", DayOfMonth: intPtr(12)}, want: "Every month on the 12th"},
		{spec: Spec{Type: "monthly", DayOfMonth: intPtr(23)}, want: "Every month on the 23rd"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := DescribeSpec(tt.spec)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, _ := DescribeSpec(tt.spec)
			assert.Equal(t, got, again)
		})
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th", 14: "14th",
		21: "21st", 22: "22nd", 23: "23rd", 24: "24th",
		30: "30th", 31: "31st", 101: "101st", 111: "111th", 112: "112th",
	}
	for n, want := range tests {
		assert.Equal(t, want, Ordinal(n), "Ordinal(%d)", n)
	}
}
