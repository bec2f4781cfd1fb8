package api

import (
	"context"
	"strings"

	"verse-tui/internal/canon"
)

// DailyVerse is the verse shown on the home screen.
type DailyVerse struct {
	Book    string
	BookID  string
	Chapter string
	Verse   string
	Text    string
}

// dailyRotation is cycled by day of year. API.Bible has no verse-of-the-day
// endpoint.
var dailyRotation = []string{
	"PSA.119.105",
	"JHN.3.16",
	"PRO.3.5",
	"ISA.40.31",
	"PHP.4.13",
	"ROM.8.28",
	"JER.29.11",
	"PSA.23.1",
	"MAT.11.28",
	"JOS.1.9",
	"2CO.5.17",
	"LAM.3.22",
	"HEB.11.1",
	"PSA.46.10",
	"1JN.4.8",
	"GAL.5.22",
	"MIC.6.8",
	"ROM.12.2",
	"ISA.41.10",
	"EPH.2.8",
}

// DailyVerseID returns the verse id of the day for the client's clock.
func (c *Client) DailyVerseID() string {
	return dailyRotation[(c.now().YearDay()-1)%len(dailyRotation)]
}

// DailyVerse fetches the verse of the day from the default translation.
// The Text field is left empty when the service returns no content; callers
// decide on a fallback.
func (c *Client) DailyVerse(ctx context.Context) (*DailyVerse, error) {
	id := c.DailyVerseID()

	v, err := c.GetVerse(ctx, c.defaultVersion, id)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(id, ".")
	return &DailyVerse{
		Book:    canon.Name(parts[0]),
		BookID:  parts[0],
		Chapter: parts[1],
		Verse:   parts[2],
		Text:    PlainText(v.Content),
	}, nil
}
