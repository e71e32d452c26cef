package layouts

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Strftime renders t according to a C-style strftime format string. Go has
// no strftime, so the conversion table is implemented by hand over
// time.Time. Two extensions beyond the platform set are honored: %q expands
// to exactly three millisecond digits and %Q to ".mmm.uuu" (milliseconds
// and the microsecond fraction). Unknown conversions pass through as
// literal text.
func Strftime(format string, t time.Time) string {
	var b strings.Builder
	b.Grow(len(format) + len(format)/3)

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		writeConversion(&b, format[i], t)
	}
	return b.String()
}

func writeConversion(b *strings.Builder, verb byte, t time.Time) {
	switch verb {
	case 'a':
		b.WriteString(t.Format("Mon"))
	case 'A':
		b.WriteString(t.Format("Monday"))
	case 'b', 'h':
		b.WriteString(t.Format("Jan"))
	case 'B':
		b.WriteString(t.Format("January"))
	case 'c':
		b.WriteString(t.Format("Mon Jan  2 15:04:05 2006"))
	case 'C':
		fmt.Fprintf(b, "%02d", t.Year()/100)
	case 'd':
		fmt.Fprintf(b, "%02d", t.Day())
	case 'D':
		b.WriteString(t.Format("01/02/06"))
	case 'e':
		fmt.Fprintf(b, "%2d", t.Day())
	case 'F':
		b.WriteString(t.Format("2006-01-02"))
	case 'g':
		y, _ := t.ISOWeek()
		fmt.Fprintf(b, "%02d", y%100)
	case 'G':
		y, _ := t.ISOWeek()
		fmt.Fprintf(b, "%d", y)
	case 'H':
		fmt.Fprintf(b, "%02d", t.Hour())
	case 'I':
		fmt.Fprintf(b, "%02d", hour12(t))
	case 'j':
		fmt.Fprintf(b, "%03d", t.YearDay())
	case 'k':
		fmt.Fprintf(b, "%2d", t.Hour())
	case 'l':
		fmt.Fprintf(b, "%2d", hour12(t))
	case 'm':
		fmt.Fprintf(b, "%02d", int(t.Month()))
	case 'M':
		fmt.Fprintf(b, "%02d", t.Minute())
	case 'n':
		b.WriteByte('\n')
	case 'p':
		if t.Hour() < 12 {
			b.WriteString("AM")
		} else {
			b.WriteString("PM")
		}
	case 'P':
		if t.Hour() < 12 {
			b.WriteString("am")
		} else {
			b.WriteString("pm")
		}
	case 'r':
		fmt.Fprintf(b, "%02d:%02d:%02d ", hour12(t), t.Minute(), t.Second())
		if t.Hour() < 12 {
			b.WriteString("AM")
		} else {
			b.WriteString("PM")
		}
	case 'R':
		fmt.Fprintf(b, "%02d:%02d", t.Hour(), t.Minute())
	case 's':
		b.WriteString(strconv.FormatInt(t.Unix(), 10))
	case 'S':
		fmt.Fprintf(b, "%02d", t.Second())
	case 't':
		b.WriteByte('\t')
	case 'T', 'X':
		fmt.Fprintf(b, "%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	case 'u':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		fmt.Fprintf(b, "%d", wd)
	case 'U':
		fmt.Fprintf(b, "%02d", (t.YearDay()-1+7-int(t.Weekday()))/7)
	case 'V':
		_, w := t.ISOWeek()
		fmt.Fprintf(b, "%02d", w)
	case 'w':
		fmt.Fprintf(b, "%d", int(t.Weekday()))
	case 'W':
		fmt.Fprintf(b, "%02d", (t.YearDay()-1+7-(int(t.Weekday())+6)%7)/7)
	case 'x':
		b.WriteString(t.Format("01/02/06"))
	case 'y':
		fmt.Fprintf(b, "%02d", t.Year()%100)
	case 'Y':
		fmt.Fprintf(b, "%d", t.Year())
	case 'z':
		b.WriteString(t.Format("-0700"))
	case 'Z':
		b.WriteString(t.Format("MST"))
	case 'q':
		fmt.Fprintf(b, "%03d", t.Nanosecond()/1e6)
	case 'Q':
		fmt.Fprintf(b, ".%03d.%03d", t.Nanosecond()/1e6, t.Nanosecond()/1e3%1000)
	case '%':
		b.WriteByte('%')
	default:
		b.WriteByte('%')
		b.WriteByte(verb)
	}
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}
