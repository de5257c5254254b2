package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ImportedMenu is the raw content of a menu spreadsheet. Values are kept as
// text; the import service validates them through the Menu aggregate.
type ImportedMenu struct {
	Categories []ImportedCategory
}

type ImportedCategory struct {
	Name  string
	Icon  string
	Items []ImportedItem
}

type ImportedItem struct {
	Name        string
	Price       string
	Currency    string
	Description string
	ImageURL    string
	Tags        []string
	Quantity    *int
	Threshold   *int
}

type GoogleSheetsParser struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*GoogleSheetsParser, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleSheetsParser{
		service: service,
	}, nil
}

func (p *GoogleSheetsParser) ParseMenu(ctx context.Context, spreadsheetID string) (*ImportedMenu, error) {
	readRange := "A:H" // name, price, currency, description, image, tags, quantity, threshold
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	return ParseRows(resp.Values)
}

// ParseRows reads sheet rows after the header. A row with only its first
// cell filled (or an empty price cell) opens a category, optionally with an
// icon in column E; every other row is an item of the current category.
func ParseRows(rows [][]interface{}) (*ImportedMenu, error) {
	menu := &ImportedMenu{}
	var current *ImportedCategory

	// skip header
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || cell(row, 0) == "" {
			continue
		}

		// category row
		if len(row) == 1 || cell(row, 1) == "" {
			menu.Categories = append(menu.Categories, ImportedCategory{
				Name: cell(row, 0),
				Icon: cell(row, 4),
			})
			current = &menu.Categories[len(menu.Categories)-1]
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("row %d: item %q appears before any category", i+1, cell(row, 0))
		}

		item := ImportedItem{
			Name:        cell(row, 0),
			Price:       cell(row, 1),
			Currency:    cell(row, 2),
			Description: cell(row, 3),
			ImageURL:    cell(row, 4),
			Tags:        splitTags(cell(row, 5)),
		}

		if q := cell(row, 6); q != "" {
			quantity, err := strconv.Atoi(q)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid quantity %q", i+1, q)
			}
			item.Quantity = &quantity
		}
		if t := cell(row, 7); t != "" {
			threshold, err := strconv.Atoi(t)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid threshold %q", i+1, t)
			}
			item.Threshold = &threshold
		}

		current.Items = append(current.Items, item)
	}

	if len(menu.Categories) == 0 {
		return nil, fmt.Errorf("no categories found in spreadsheet")
	}

	return menu, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", row[i]))
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
