package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwhitlock/tandem/internal/model"
	"github.com/mwhitlock/tandem/internal/week"
)

var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorBlue).
			Padding(0, 1)

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	doneStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(colorGray).
			Strikethrough(true)

	checkStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	panelStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)
)

// renderWeekList formats the current week's items grouped by category,
// sorted by category sort order then item creation time.
func renderWeekList(items []model.GroceryItemWithCategory) string {
	start, end := week.Window(time.Now())
	header := headerStyle.Render(fmt.Sprintf("Week of %s – %s",
		start.Format("Jan 2"), end.Format("Jan 2, 2006")))

	if len(items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			hintStyle.Render("Nothing on the list yet."))
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category.SortOrder != items[j].Category.SortOrder {
			return items[i].Category.SortOrder < items[j].Category.SortOrder
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	var b strings.Builder
	lastCategory := int64(-1)
	done := 0
	for _, item := range items {
		if item.Category.ID != lastCategory {
			b.WriteString(categoryStyle.Render(item.Category.Name))
			b.WriteString("\n")
			lastCategory = item.Category.ID
		}
		b.WriteString(renderItem(item.GroceryItem))
		b.WriteString("\n")
		if item.IsCompleted {
			done++
		}
	}

	summary := hintStyle.Render(fmt.Sprintf("%d of %d done", done, len(items)))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		panelStyle.Render(strings.TrimRight(b.String(), "\n")),
		summary)
}

func renderItem(item model.GroceryItem) string {
	label := item.Name
	if item.Quantity != "" {
		label += " (" + item.Quantity + ")"
	}
	if item.IsCompleted {
		return doneStyle.Render(checkStyle.Render("✓ ") + label)
	}
	return itemStyle.Render("· " + label)
}

// itemLabel is the plain-text form used in selection prompts.
func itemLabel(item model.GroceryItemWithCategory) string {
	label := item.Name
	if item.Quantity != "" {
		label += " (" + item.Quantity + ")"
	}
	if item.IsCompleted {
		label = "[done] " + label
	}
	return label + " · " + item.Category.Name
}
