package sheetsclient

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/api/sheets/v4"
)

// maxTabTitle is the longest tab title Google Sheets accepts
const maxTabTitle = 100

// RosterHeader is the first row of every exported roster tab
var RosterHeader = []string{"Volunteer", "Email", "Phone", "Telegram", "Joined"}

// RosterRow is one participant of a project
type RosterRow struct {
	Name     string
	Email    string
	Phone    string
	Telegram string
	JoinedAt string // Format: "2006-01-02 15:04"
}

// Roster is the participant list of a single project
type Roster struct {
	ProjectID   string
	ProjectName string
	Rows        []RosterRow
}

// TabTitle names the roster tab after the project, cut to the Sheets limit
func (r *Roster) TabTitle() string {
	title := "Roster - " + r.ProjectName
	if utf8.RuneCountInString(title) <= maxTabTitle {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxTabTitle]))
}

// Values renders the header and rows in sheet order
func (r *Roster) Values() [][]interface{} {
	header := make([]interface{}, len(RosterHeader))
	for i, h := range RosterHeader {
		header[i] = h
	}

	values := [][]interface{}{header}
	for _, row := range r.Rows {
		values = append(values, []interface{}{row.Name, row.Email, row.Phone, row.Telegram, row.JoinedAt})
	}
	return values
}

// PublishRoster writes the roster to its own tab, creating the tab on first export
// and replacing its contents on later ones.
func (c *Client) PublishRoster(ctx context.Context, spreadsheetID string, roster *Roster) error {
	title := roster.TabTitle()

	existing, err := c.findSheet(ctx, spreadsheetID, title)
	if err != nil {
		return err
	}

	if existing == nil {
		if err := c.createSheet(ctx, spreadsheetID, title); err != nil {
			return err
		}
	} else {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, quoteTab(title), &sheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to clear roster tab: %w", err)
		}
	}

	_, err = c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		quoteTab(title)+"!A1",
		&sheets.ValueRange{Values: roster.Values()},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}

	return nil
}

// quoteTab quotes a tab title for A1 notation
func quoteTab(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
