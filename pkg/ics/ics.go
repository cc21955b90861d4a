// Package ics formats a single activity as an iCalendar file, byte-compatible
// with the export the web client produced.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

const prodID = "-//PueblaBot//Fiestas//ES"

// stampLayout is the iCalendar UTC basic format.
const stampLayout = "20060102T150405Z"

// Format renders the VCALENDAR for one activity. now provides DTSTAMP so
// callers (and tests) control it. A zero EndsAt defaults to one hour after
// the start.
func Format(a *entities.Activity, now time.Time) string {
	start := a.StartsAt
	end := a.EndsAt
	if end.IsZero() {
		end = start.Add(time.Hour)
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:" + prodID + "\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s@puebla-bot\r\n", a.ID)
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", now.UTC().Format(stampLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", start.UTC().Format(stampLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", end.UTC().Format(stampLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeText(a.Title))
	fmt.Fprintf(&b, "LOCATION:%s\r\n", escapeText(a.Location))
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// Write renders the VCALENDAR for one activity to w.
func Write(w io.Writer, a *entities.Activity, now time.Time) error {
	_, err := io.WriteString(w, Format(a, now))
	return err
}

// escapeText escapes the TEXT value characters defined by RFC 5545 §3.3.11.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
